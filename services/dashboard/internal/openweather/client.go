// Package openweather talks to the OpenWeatherMap 2.5 forecast and current-weather endpoints.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

const (
	endpointForecastCity   = "forecast_city"
	endpointForecastCoords = "forecast_coords"
	endpointCurrentCity    = "current_city"
)

// Options configures a Client. Zero values fall back to defaults: the public base URL,
// a fresh http.Client, no per-request timeout and no rate limit.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	RateLimit      float64
	Burst          int
}

// Client calls OpenWeatherMap. It never retries and never caches.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		client:  httpClient,
		timeout: opts.RequestTimeout,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ForecastByCity fetches the 5-day/3-hour forecast for a city name.
// Any non-2xx status is reported as the city not being found.
func (c *Client) ForecastByCity(ctx context.Context, name string, unit forecast.Unit) (*forecast.Forecast, error) {
	params := url.Values{}
	params.Set("q", name)

	return c.fetchForecast(ctx, endpointForecastCity, params, unit, func(status int) error {
		return apperrors.NotFound("city", name)
	})
}

// ForecastByCoords fetches the forecast for a coordinate pair.
func (c *Client) ForecastByCoords(ctx context.Context, lat, lon float64, unit forecast.Unit) (*forecast.Forecast, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	return c.fetchForecast(ctx, endpointForecastCoords, params, unit, func(status int) error {
		return apperrors.FetchFailed(fmt.Sprintf("forecast by coordinates returned status %d", status), nil)
	})
}

// CurrentByCity fetches current conditions for a city. The HTTP status is not checked;
// the decoded Cod tells the caller whether the lookup succeeded.
func (c *Client) CurrentByCity(ctx context.Context, name string, unit forecast.Unit) (*CurrentWeather, error) {
	params := url.Values{}
	params.Set("q", name)

	_, body, err := c.get(ctx, endpointCurrentCity, "/weather", params, unit)
	if err != nil {
		return nil, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		observe(endpointCurrentCity, outcomeMalformed)
		return nil, apperrors.Malformed("decode current weather", err)
	}

	observe(endpointCurrentCity, outcomeOK)
	return payload.toCurrent(), nil
}

func (c *Client) fetchForecast(ctx context.Context, endpoint string, params url.Values, unit forecast.Unit, onStatus func(int) error) (*forecast.Forecast, error) {
	status, body, err := c.get(ctx, endpoint, "/forecast", params, unit)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		statusErr := onStatus(status)
		if apperrors.Is(statusErr, apperrors.NotFoundError) {
			observe(endpoint, outcomeNotFound)
		} else {
			observe(endpoint, outcomeFailed)
		}
		return nil, statusErr
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		observe(endpoint, outcomeMalformed)
		return nil, apperrors.Malformed("decode forecast", err)
	}
	if payload.City == nil || payload.List == nil {
		observe(endpoint, outcomeMalformed)
		return nil, apperrors.Malformed("forecast response is missing city or list", nil)
	}
	if len(payload.List) == 0 {
		observe(endpoint, outcomeMalformed)
		return nil, apperrors.Malformed("forecast response has no entries", nil)
	}

	observe(endpoint, outcomeOK)
	return payload.toForecast(), nil
}

// get issues one GET and returns the status and full body. Only transport failures
// are errors here.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, unit forecast.Unit) (int, []byte, error) {
	log := logger.GetLogger()

	if err := c.limiter.Wait(ctx); err != nil {
		observe(endpoint, outcomeFailed)
		return 0, nil, apperrors.FetchFailed("rate limit wait canceled", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params.Set("units", string(unit))
	params.Set("appid", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	masked := url.Values{}
	for k, v := range params {
		masked[k] = v
	}
	masked.Set("appid", logger.MaskAPIKey(c.apiKey))
	log.Debugw("Requesting OpenWeatherMap", "endpoint", endpoint, "url", c.baseURL+path+"?"+masked.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		observe(endpoint, outcomeFailed)
		return 0, nil, apperrors.FetchFailed("build request", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		observe(endpoint, outcomeFailed)
		log.Warnw("OpenWeatherMap request failed", "endpoint", endpoint, "error", err)
		return 0, nil, apperrors.FetchFailed("request "+endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observe(endpoint, outcomeFailed)
		return 0, nil, apperrors.FetchFailed("read response body", err)
	}

	log.Debugw("OpenWeatherMap responded", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body))
	return resp.StatusCode, body, nil
}
