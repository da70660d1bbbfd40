// Package dashboard turns user events (load, search, unit change, location) into
// forecast fetches and keeps the latest result as an immutable Snapshot.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/geo"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
)

const (
	DefaultFallbackCity = "Berlin"
	LoadingHeader       = "Loading..."
)

// ErrEmptyQuery is returned by Search for a blank query. Nothing is fetched.
var ErrEmptyQuery = apperrors.ValidationFailed("search query is empty", "")

// ForecastSource fetches forecasts. *openweather.Client satisfies it.
type ForecastSource interface {
	ForecastByCity(ctx context.Context, name string, unit forecast.Unit) (*forecast.Forecast, error)
	ForecastByCoords(ctx context.Context, lat, lon float64, unit forecast.Unit) (*forecast.Forecast, error)
}

// Options configures a Controller.
type Options struct {
	Source       ForecastSource
	Locator      geo.Locator // nil means geolocation is unsupported
	FallbackCity string
	Unit         forecast.Unit
	Now          func() time.Time
}

// Controller owns the single dashboard state of the process. Fetches are not
// coordinated with each other; whichever finishes last replaces the snapshot.
type Controller struct {
	source   ForecastSource
	locator  geo.Locator
	fallback string
	now      func() time.Time

	current atomic.Pointer[Snapshot]

	mu   sync.RWMutex
	unit forecast.Unit
}

func NewController(opts Options) *Controller {
	c := &Controller{
		source:   opts.Source,
		locator:  opts.Locator,
		fallback: opts.FallbackCity,
		now:      opts.Now,
		unit:     opts.Unit,
	}
	if c.locator == nil {
		c.locator = geo.Disabled{}
	}
	if c.fallback == "" {
		c.fallback = DefaultFallbackCity
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.unit == "" {
		c.unit = forecast.Metric
	}
	return c
}

// Snapshot returns the latest snapshot, or nil before the first successful fetch.
func (c *Controller) Snapshot() *Snapshot {
	return c.current.Load()
}

// Unit is the preferred unit for the next fetch.
func (c *Controller) Unit() forecast.Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unit
}

func (c *Controller) setUnit(u forecast.Unit) {
	c.mu.Lock()
	c.unit = u
	c.mu.Unlock()
}

// Header is the main card header, or "Loading..." when nothing is loaded.
func (c *Controller) Header() string {
	if snap := c.Snapshot(); snap != nil {
		return snap.Header()
	}
	return LoadingHeader
}

// Init geolocates and loads the forecast for that position. If geolocation fails or
// is unsupported it loads the fallback city instead. An error is returned only when
// the fallback fetch fails too.
func (c *Controller) Init(ctx context.Context) error {
	log := logger.GetLogger()
	unit := c.Unit()

	pos, err := c.locator.Locate(ctx)
	if err == nil {
		fc, fetchErr := c.source.ForecastByCoords(ctx, pos.Lat, pos.Lon, unit)
		if fetchErr == nil {
			c.publish(fc, unit)
			return nil
		}
		log.Errorw("Failed to load forecast for current position", "lat", pos.Lat, "lon", pos.Lon, "error", fetchErr)
	} else if errors.Is(err, geo.ErrUnsupported) {
		log.Infow("Geolocation unavailable, using fallback city", "city", c.fallback)
	} else {
		log.Warnw("Geolocation failed, using fallback city", "city", c.fallback, "error", err)
	}

	return c.loadCity(ctx, c.fallback, unit)
}

// EnsureLoaded runs Init when no snapshot exists yet.
func (c *Controller) EnsureLoaded(ctx context.Context) error {
	if c.Snapshot() != nil {
		return nil
	}
	return c.Init(ctx)
}

// Search loads the forecast for a city name. The previous snapshot stays in place
// on failure and the error is returned for the caller to surface.
func (c *Controller) Search(ctx context.Context, query string) error {
	city := strings.TrimSpace(query)
	if city == "" {
		return ErrEmptyQuery
	}
	return c.loadCity(ctx, city, c.Unit())
}

// ChangeUnit stores the preferred unit and reloads the displayed city in it. With no
// valid city on screen it reruns the geolocation flow. Failures are only logged.
func (c *Controller) ChangeUnit(ctx context.Context, unit forecast.Unit) {
	c.setUnit(unit)

	if city, ok := CityFromHeader(c.Header()); ok {
		if err := c.loadCity(ctx, city, unit); err != nil {
			logger.GetLogger().Warnw("Unit change reload failed", "city", city, "unit", unit, "error", err)
		}
		return
	}

	if err := c.Init(ctx); err != nil {
		logger.GetLogger().Warnw("Unit change reload failed", "unit", unit, "error", err)
	}
}

// LocateAt loads the forecast for coordinates reported by the browser. On failure
// it falls back to the fallback city.
func (c *Controller) LocateAt(ctx context.Context, lat, lon float64) error {
	unit := c.Unit()

	fc, err := c.source.ForecastByCoords(ctx, lat, lon, unit)
	if err == nil {
		c.publish(fc, unit)
		return nil
	}

	logger.GetLogger().Errorw("Failed to load forecast for reported position", "lat", lat, "lon", lon, "error", err)
	return c.loadCity(ctx, c.fallback, unit)
}

func (c *Controller) loadCity(ctx context.Context, city string, unit forecast.Unit) error {
	fc, err := c.source.ForecastByCity(ctx, city, unit)
	if err != nil {
		logger.GetLogger().Errorw("Failed to load forecast", "city", city, "unit", unit, "error", err)
		return err
	}
	c.publish(fc, unit)
	return nil
}

func (c *Controller) publish(fc *forecast.Forecast, unit forecast.Unit) {
	snap := NewSnapshot(fc, unit, c.now())
	c.current.Store(snap)
	logger.GetLogger().Infow("Dashboard updated",
		"city", snap.Header(),
		"unit", unit,
		"entries", len(snap.Entries),
		"days", len(snap.Days),
	)
}

// CityFromHeader extracts the city from a "City, Country" header. The header is
// unusable when it is empty or still shows the loading placeholder.
func CityFromHeader(header string) (string, bool) {
	city, _, _ := strings.Cut(header, ",")
	city = strings.TrimSpace(city)
	if city == "" || city == LoadingHeader {
		return "", false
	}
	return city, true
}
