// Package forecast holds the forecast data model and the pure transforms over it:
// local-time helpers, weekday grouping and daily summaries.
package forecast

import (
	"fmt"
	"strings"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
)

// Unit is the measurement system requested from the upstream API.
type Unit string

const (
	Metric   Unit = "metric"
	Imperial Unit = "imperial"
)

// ParseUnit accepts "metric" or "imperial" (case-insensitive, surrounding space ignored).
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", apperrors.ValidationFailed("invalid unit system", fmt.Sprintf("%q is not metric or imperial", s))
	}
}

// TempSuffix returns "°C" for metric and "°F" otherwise.
func (u Unit) TempSuffix() string {
	if u == Metric {
		return "°C"
	}
	return "°F"
}

// SpeedSuffix returns the wind speed unit label.
func (u Unit) SpeedSuffix() string {
	if u == Metric {
		return "m/s"
	}
	return "mph"
}

// Condition is the first weather condition of an entry.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Entry is one 3-hour forecast sample.
type Entry struct {
	DT        int64     `json:"dt"`
	Temp      float64   `json:"temp"`
	FeelsLike float64   `json:"feels_like"`
	Humidity  int       `json:"humidity"`
	WindSpeed float64   `json:"wind_speed"`
	Condition Condition `json:"condition"`
	Rain3h    *float64  `json:"rain_3h,omitempty"`
	Snow3h    *float64  `json:"snow_3h,omitempty"`
}

// Precipitation returns the 3h rain amount, else the 3h snow amount, else 0.
// A zero rain reading falls through to snow.
func (e Entry) Precipitation() float64 {
	if e.Rain3h != nil && *e.Rain3h != 0 {
		return *e.Rain3h
	}
	if e.Snow3h != nil && *e.Snow3h != 0 {
		return *e.Snow3h
	}
	return 0
}

// City describes the forecast location. Timezone is a flat offset in seconds from UTC.
type City struct {
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	Timezone int64   `json:"timezone"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Forecast is a decoded forecast response: the city and its entries in API order.
type Forecast struct {
	City    City    `json:"city"`
	Entries []Entry `json:"entries"`
}

// DayBuckets maps a local weekday index (0=Sunday) to its entries sorted by DT.
type DayBuckets map[int][]Entry

// DailySummary is the per-day aggregate shown on a daily card.
type DailySummary struct {
	DayIndex int    `json:"day_index"`
	Label    string `json:"label"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Icon     string `json:"icon"`
}
