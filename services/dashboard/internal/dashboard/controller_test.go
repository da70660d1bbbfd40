package dashboard

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/geo"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
)

// Saturday 2026-10-17 12:00:00 UTC.
const saturdayNoon int64 = 1792238400

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

type call struct {
	kind string
	city string
	lat  float64
	lon  float64
	unit forecast.Unit
}

type fakeSource struct {
	mu        sync.Mutex
	calls     []call
	failCity  map[string]bool
	failCoord bool
}

func (f *fakeSource) ForecastByCity(_ context.Context, name string, unit forecast.Unit) (*forecast.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: "city", city: name, unit: unit})
	if f.failCity[name] {
		return nil, apperrors.NotFound("city", name)
	}
	return cityForecast(name), nil
}

func (f *fakeSource) ForecastByCoords(_ context.Context, lat, lon float64, unit forecast.Unit) (*forecast.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: "coords", lat: lat, lon: lon, unit: unit})
	if f.failCoord {
		return nil, apperrors.FetchFailed("coords unavailable", nil)
	}
	return cityForecast("Here"), nil
}

func (f *fakeSource) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fixedLocator struct {
	pos geo.Position
	err error
}

func (l fixedLocator) Locate(context.Context) (geo.Position, error) {
	return l.pos, l.err
}

func cityForecast(name string) *forecast.Forecast {
	return &forecast.Forecast{
		City: forecast.City{Name: name, Country: "DE"},
		Entries: []forecast.Entry{
			{DT: saturdayNoon, Temp: 14.6, Condition: forecast.Condition{Icon: "10d"}},
			{DT: saturdayNoon + 24*3600, Temp: 9.2, Condition: forecast.Condition{Icon: "04d"}},
		},
	}
}

func newController(src *fakeSource, loc geo.Locator) *Controller {
	return NewController(Options{
		Source:  src,
		Locator: loc,
		Now:     func() time.Time { return time.Unix(saturdayNoon, 0) },
	})
}

func TestInitUsesGeolocation(t *testing.T) {
	src := &fakeSource{}
	c := newController(src, fixedLocator{pos: geo.Position{Lat: 52.5, Lon: 13.4}})

	require.NoError(t, c.Init(context.Background()))
	assert.Equal(t, call{kind: "coords", lat: 52.5, lon: 13.4, unit: forecast.Metric}, src.last())
	assert.Equal(t, "Here, DE", c.Header())
}

func TestInitFallsBackToBerlin(t *testing.T) {
	tests := []struct {
		name string
		loc  geo.Locator
		src  *fakeSource
	}{
		{"unsupported", nil, &fakeSource{}},
		{"denied", fixedLocator{err: errors.New("permission denied")}, &fakeSource{}},
		{"coords fetch fails", fixedLocator{pos: geo.Position{Lat: 1, Lon: 2}}, &fakeSource{failCoord: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(tt.src, tt.loc)
			require.NoError(t, c.Init(context.Background()))
			assert.Equal(t, call{kind: "city", city: "Berlin", unit: forecast.Metric}, tt.src.last())
			assert.Equal(t, "Berlin, DE", c.Header())
		})
	}
}

func TestInitFallbackFailureLeavesStateEmpty(t *testing.T) {
	src := &fakeSource{failCity: map[string]bool{"Berlin": true}}
	c := newController(src, nil)

	err := c.Init(context.Background())
	require.Error(t, err)
	assert.Nil(t, c.Snapshot())
	assert.Equal(t, LoadingHeader, c.Header())
}

func TestEnsureLoadedOnlyOnce(t *testing.T) {
	src := &fakeSource{}
	c := newController(src, nil)

	require.NoError(t, c.EnsureLoaded(context.Background()))
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Len(t, src.calls, 1)
}

func TestSearch(t *testing.T) {
	src := &fakeSource{failCity: map[string]bool{"Atlantis": true}}
	c := newController(src, nil)

	require.NoError(t, c.Search(context.Background(), "  Paris "))
	assert.Equal(t, "Paris", src.last().city)
	assert.Equal(t, "Paris, DE", c.Header())

	err := c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Len(t, src.calls, 1)

	err = c.Search(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NotFoundError))
	assert.Equal(t, "Paris, DE", c.Header(), "failed search keeps the previous snapshot")
}

func TestChangeUnitReloadsDisplayedCity(t *testing.T) {
	src := &fakeSource{}
	c := newController(src, nil)
	require.NoError(t, c.Search(context.Background(), "Paris"))

	c.ChangeUnit(context.Background(), forecast.Imperial)

	assert.Equal(t, call{kind: "city", city: "Paris", unit: forecast.Imperial}, src.last())
	assert.Equal(t, forecast.Imperial, c.Unit())
	assert.Equal(t, forecast.Imperial, c.Snapshot().Unit)
}

func TestChangeUnitWithoutCityRunsInit(t *testing.T) {
	src := &fakeSource{}
	c := newController(src, fixedLocator{pos: geo.Position{Lat: 40.4, Lon: -3.7}})

	c.ChangeUnit(context.Background(), forecast.Imperial)

	require.Len(t, src.calls, 1)
	assert.Equal(t, call{kind: "coords", lat: 40.4, lon: -3.7, unit: forecast.Imperial}, src.last())
}

func TestChangeUnitFailureKeepsSnapshot(t *testing.T) {
	src := &fakeSource{}
	c := newController(src, nil)
	require.NoError(t, c.Search(context.Background(), "Paris"))
	before := c.Snapshot()

	src.failCity = map[string]bool{"Paris": true}
	c.ChangeUnit(context.Background(), forecast.Imperial)

	assert.Same(t, before, c.Snapshot())
	assert.Equal(t, forecast.Metric, c.Snapshot().Unit)
	assert.Equal(t, forecast.Imperial, c.Unit())
}

func TestLocateAt(t *testing.T) {
	src := &fakeSource{}
	c := newController(src, nil)

	require.NoError(t, c.LocateAt(context.Background(), 6.24, -75.58))
	assert.Equal(t, "coords", src.last().kind)

	src.failCoord = true
	require.NoError(t, c.LocateAt(context.Background(), 6.24, -75.58))
	assert.Equal(t, call{kind: "city", city: "Berlin", unit: forecast.Metric}, src.last())
}

func TestCityFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Berlin, DE", "Berlin", true},
		{"New York, US", "New York", true},
		{"Medellín", "Medellín", true},
		{"Loading...", "", false},
		{"", "", false},
		{", DE", "", false},
	}
	for _, tt := range tests {
		got, ok := CityFromHeader(tt.header)
		assert.Equal(t, tt.want, got, tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
	}
}

func TestSnapshotDays(t *testing.T) {
	snap := NewSnapshot(cityForecast("Berlin"), forecast.Metric, time.Unix(saturdayNoon, 0))

	assert.Equal(t, []int{6, 0}, snap.Days)
	assert.Equal(t, 6, snap.DefaultDay)
	assert.True(t, snap.HasDay(0))
	assert.False(t, snap.HasDay(3))
	assert.Len(t, snap.Hourly(6), 1)

	empty := snap.Hourly(3)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	cur, ok := snap.Current()
	require.True(t, ok)
	assert.Equal(t, 14.6, cur.Temp)
}

func TestSnapshotDefaultDayWithoutEntries(t *testing.T) {
	// Monday 2026-10-19 at UTC.
	now := time.Unix(saturdayNoon+2*24*3600, 0)
	snap := NewSnapshot(&forecast.Forecast{City: forecast.City{Name: "Nowhere"}}, forecast.Metric, now)

	assert.Empty(t, snap.Summaries)
	assert.Equal(t, int(time.Monday), snap.DefaultDay)
}
