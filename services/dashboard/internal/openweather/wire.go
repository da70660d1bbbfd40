package openweather

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

// Code is the upstream "cod" field. OpenWeatherMap sends it as a number on some
// endpoints and as a string on others.
type Code int

func (c *Code) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("cod %s: %w", b, err)
	}
	*c = Code(n)
	return nil
}

type conditionPayload struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type precipPayload struct {
	ThreeHour *float64 `json:"3h"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []conditionPayload `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain *precipPayload `json:"rain"`
	Snow *precipPayload `json:"snow"`
}

type cityPayload struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone int64  `json:"timezone"`
	Coord    struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

type forecastResponse struct {
	Cod  Code           `json:"cod"`
	List []forecastItem `json:"list"`
	City *cityPayload   `json:"city"`
}

func (r forecastResponse) toForecast() *forecast.Forecast {
	out := &forecast.Forecast{
		City: forecast.City{
			Name:     r.City.Name,
			Country:  r.City.Country,
			Timezone: r.City.Timezone,
			Lat:      r.City.Coord.Lat,
			Lon:      r.City.Coord.Lon,
		},
		Entries: make([]forecast.Entry, 0, len(r.List)),
	}

	for _, item := range r.List {
		entry := forecast.Entry{
			DT:        item.Dt,
			Temp:      item.Main.Temp,
			FeelsLike: item.Main.FeelsLike,
			Humidity:  item.Main.Humidity,
			WindSpeed: item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			entry.Condition = forecast.Condition(item.Weather[0])
		}
		if item.Rain != nil {
			entry.Rain3h = item.Rain.ThreeHour
		}
		if item.Snow != nil {
			entry.Snow3h = item.Snow.ThreeHour
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

type currentResponse struct {
	Cod     Code   `json:"cod"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Weather []conditionPayload `json:"weather"`
}

// CurrentWeather is the subset of the current-weather response the chat reply needs.
// Cod carries the upstream status; callers decide what a non-200 means.
type CurrentWeather struct {
	Cod         int     `json:"cod"`
	Message     string  `json:"message,omitempty"`
	Name        string  `json:"name"`
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

func (r currentResponse) toCurrent() *CurrentWeather {
	cw := &CurrentWeather{
		Cod:       int(r.Cod),
		Message:   r.Message,
		Name:      r.Name,
		Temp:      r.Main.Temp,
		FeelsLike: r.Main.FeelsLike,
	}
	if len(r.Weather) > 0 {
		cw.Description = r.Weather[0].Description
		cw.Icon = r.Weather[0].Icon
	}
	return cw
}
