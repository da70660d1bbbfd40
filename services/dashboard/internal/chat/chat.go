// Package chat implements the rule-based weather assistant.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/openweather"
)

const (
	replyAskForCity  = "Please ask like 'What's the weather in Berlin?' 🌦️"
	replyFetchFailed = "Sorry, I couldn't fetch the weather right now 😕."
	replyUnknownCity = "I couldn't find weather info for %s. Try another city."
	replyCurrent     = "In %s, it's currently %s%s with %s. Feels like %s%s. 🌤️"

	replySearchHint = "You can search for any city above to get the latest weather 🌤️"
	replyGreeting   = "Hey there! 👋 How’s the weather looking for you today?"
	replyFallback   = "I'm still learning! Try asking about the weather 😊"
)

var cityPattern = regexp.MustCompile(`(?i)in\s([a-zA-Z\s]+)`)

// CurrentSource looks up current conditions. *openweather.Client satisfies it.
type CurrentSource interface {
	CurrentByCity(ctx context.Context, name string, unit forecast.Unit) (*openweather.CurrentWeather, error)
}

// ExtractCity returns the words following the first "in " of msg.
func ExtractCity(msg string) (string, bool) {
	m := cityPattern.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	city := strings.TrimSpace(m[1])
	return city, city != ""
}

// WeatherReply answers "what's the weather in X" style questions from live data.
func WeatherReply(ctx context.Context, src CurrentSource, msg string, unit forecast.Unit) string {
	city, ok := ExtractCity(msg)
	if !ok {
		return replyAskForCity
	}

	cw, err := src.CurrentByCity(ctx, city, unit)
	if err != nil {
		logger.GetLogger().Errorw("Chat weather lookup failed", "city", city, "error", err)
		return replyFetchFailed
	}
	if cw == nil || cw.Cod != 200 {
		return fmt.Sprintf(replyUnknownCity, city)
	}

	sym := unit.TempSuffix()
	return fmt.Sprintf(replyCurrent, city, formatNumber(cw.Temp), sym, cw.Description, formatNumber(cw.FeelsLike), sym)
}

// CannedReply is the offline reply used by the page widget.
func CannedReply(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "weather"):
		return replySearchHint
	case strings.Contains(lower, "hi"), strings.Contains(lower, "hello"):
		return replyGreeting
	default:
		return replyFallback
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
