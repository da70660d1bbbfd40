// Package geo resolves the dashboard's own position when no city has been chosen.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
)

const (
	DefaultURL     = "http://ip-api.com/json"
	DefaultTimeout = 10 * time.Second
	DefaultMaxAge  = 10 * time.Minute
)

// ErrUnsupported is returned when geolocation is switched off.
var ErrUnsupported = apperrors.Unsupported("geolocation is not available")

// Position is a resolved location.
type Position struct {
	Lat     float64
	Lon     float64
	City    string
	Country string
}

// Locator finds the current position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// Disabled always reports ErrUnsupported.
type Disabled struct{}

func (Disabled) Locate(context.Context) (Position, error) {
	return Position{}, ErrUnsupported
}

// IPLocator resolves the position of the host's public IP through an ip-api.com
// compatible endpoint.
type IPLocator struct {
	URL    string
	Client *http.Client
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	City        string  `json:"city"`
	CountryCode string  `json:"countryCode"`
}

func (l *IPLocator) Locate(ctx context.Context) (Position, error) {
	endpoint := l.URL
	if endpoint == "" {
		endpoint = DefaultURL
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Position{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return Position{}, apperrors.FetchFailed("geolocation request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Position{}, apperrors.FetchFailed(fmt.Sprintf("geolocation returned %s", resp.Status), nil)
	}

	var payload ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Position{}, apperrors.Malformed("decode geolocation", err)
	}
	if payload.Status != "success" {
		return Position{}, apperrors.FetchFailed(fmt.Sprintf("geolocation status %q: %s", payload.Status, payload.Message), nil)
	}

	return Position{
		Lat:     payload.Lat,
		Lon:     payload.Lon,
		City:    payload.City,
		Country: payload.CountryCode,
	}, nil
}

// CachingLocator reuses a recent position and bounds every fresh lookup with a timeout.
type CachingLocator struct {
	Inner   Locator
	MaxAge  time.Duration
	Timeout time.Duration
	Now     func() time.Time

	mu      sync.Mutex
	last    Position
	fetched time.Time
	valid   bool
}

// NewCachingLocator wraps inner with the default 10 minute max age and 10 second timeout.
func NewCachingLocator(inner Locator, maxAge, timeout time.Duration) *CachingLocator {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CachingLocator{Inner: inner, MaxAge: maxAge, Timeout: timeout, Now: time.Now}
}

func (c *CachingLocator) Locate(ctx context.Context) (Position, error) {
	now := c.now()

	c.mu.Lock()
	if c.valid && now.Sub(c.fetched) <= c.MaxAge {
		pos := c.last
		c.mu.Unlock()
		return pos, nil
	}
	c.mu.Unlock()

	lookupCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	pos, err := c.Inner.Locate(lookupCtx)
	if err != nil {
		return Position{}, err
	}

	c.mu.Lock()
	c.last, c.fetched, c.valid = pos, now, true
	c.mu.Unlock()

	logger.GetLogger().Debugw("Resolved position", "lat", pos.Lat, "lon", pos.Lon, "city", pos.City)
	return pos, nil
}

func (c *CachingLocator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
