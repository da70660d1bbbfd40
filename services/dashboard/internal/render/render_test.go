package render

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/dashboard"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
)

// Saturday 2026-10-17 12:00:00 UTC.
const saturdayNoon int64 = 1792238400

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

func berlinSnapshot(unit forecast.Unit, entries ...forecast.Entry) *dashboard.Snapshot {
	if len(entries) == 0 {
		entries = []forecast.Entry{{
			DT:        saturdayNoon,
			Temp:      14.6,
			FeelsLike: 13.4,
			Humidity:  71,
			WindSpeed: 4.5,
			Condition: forecast.Condition{Description: "light rain", Icon: "10d"},
		}}
	}
	fc := &forecast.Forecast{
		City:    forecast.City{Name: "Berlin", Country: "DE", Timezone: 0},
		Entries: entries,
	}
	return dashboard.NewSnapshot(fc, unit, time.Unix(saturdayNoon, 0))
}

func renderPage(t *testing.T, view PageView) *goquery.Document {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Execute(&buf, tmpl, TemplatePage, view))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", IconURL("", "10d"))
	assert.Equal(t, "http://icons.local/01n@2x.png", IconURL("http://icons.local/", "01n"))
}

func TestMainCardSuffixPerUnit(t *testing.T) {
	tests := []struct {
		unit forecast.Unit
		temp string
		wind string
	}{
		{forecast.Metric, "15°C", "5 m/s"},
		{forecast.Imperial, "15°F", "5 mph"},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			doc := renderPage(t, Page(berlinSnapshot(tt.unit), PageOptions{}))

			assert.Equal(t, "Berlin, DE", doc.Find("#cityName").Text())
			assert.Equal(t, "Saturday, Oct 17, 2026", doc.Find("#dateText").Text())
			assert.Equal(t, "light rain", doc.Find("#descText").Text())
			assert.Equal(t, tt.temp, doc.Find("#tempText").Text())
			assert.Equal(t, "13°", doc.Find("#feelsText").Text())
			assert.Equal(t, "71%", doc.Find("#humidityText").Text())
			assert.Equal(t, tt.wind, doc.Find("#windText").Text())
			assert.Equal(t, "0 mm", doc.Find("#precipText").Text())

			src, ok := doc.Find("#weatherIcon").Attr("src")
			require.True(t, ok)
			assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", src)

			selected := doc.Find("#unitSelect option[selected]")
			require.Equal(t, 1, selected.Length())
			val, _ := selected.Attr("value")
			assert.Equal(t, string(tt.unit), val)
		})
	}
}

func TestMainCardPrecipitationKeepsMillimetres(t *testing.T) {
	snow := 1.25
	card := MainCard(forecast.City{Name: "Oslo", Country: "NO"}, forecast.Entry{DT: saturdayNoon, Snow3h: &snow}, forecast.Imperial, "")
	assert.Equal(t, "1.25 mm", card.Precip)
}

func TestDailyCardsExactlyOneActive(t *testing.T) {
	summaries := []forecast.DailySummary{
		{DayIndex: 6, Label: "Sat", Min: 9, Max: 15, Icon: "10d"},
		{DayIndex: 0, Label: "Sun", Min: 7, Max: 12, Icon: "04d"},
		{DayIndex: 1, Label: "Mon", Min: 5, Max: 11, Icon: "01d"},
	}

	tests := []struct {
		name     string
		selected int
		want     int
	}{
		{"selected day", 0, 1},
		{"first day", 6, 0},
		{"unknown day falls back to first", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := DailyCards(summaries, tt.selected, "")
			require.Len(t, cards, 3)
			active := 0
			for i, c := range cards {
				if c.Active {
					active++
					assert.Equal(t, tt.want, i)
				}
			}
			assert.Equal(t, 1, active)
			assert.Equal(t, "15° / 9°", cards[0].Temps)
			assert.Equal(t, "/?day=0", cards[1].Href)
		})
	}

	assert.Empty(t, DailyCards(nil, 0, ""))
}

func TestPageSelectsRequestedDay(t *testing.T) {
	snap := berlinSnapshot(forecast.Metric,
		forecast.Entry{DT: saturdayNoon, Temp: 14.6, Condition: forecast.Condition{Icon: "10d"}},
		forecast.Entry{DT: saturdayNoon + 21*3600, Temp: 8.4, Condition: forecast.Condition{Icon: "02n"}},
		forecast.Entry{DT: saturdayNoon + 24*3600, Temp: 11.5, Condition: forecast.Condition{Icon: "03d"}},
	)
	sunday := int(time.Sunday)
	doc := renderPage(t, Page(snap, PageOptions{Day: &sunday}))

	cards := doc.Find("#dailyCards .daily-card")
	assert.Equal(t, 2, cards.Length())
	active := doc.Find("#dailyCards .daily-card.active")
	require.Equal(t, 1, active.Length())
	idx, _ := active.Attr("data-day-index")
	assert.Equal(t, "0", idx)

	opt := doc.Find("#daySelect option[selected]")
	require.Equal(t, 1, opt.Length())
	assert.Equal(t, "Sun", opt.Text())

	rows := doc.Find("#hourlyList .hour-row")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "9:00", strings.TrimSpace(rows.Eq(0).Find(".time").Text()))
	assert.Equal(t, "8°", strings.TrimSpace(rows.Eq(0).Find(".temp").Text()))
	assert.Equal(t, "12:00", strings.TrimSpace(rows.Eq(1).Find(".time").Text()))
	assert.Equal(t, "12°", strings.TrimSpace(rows.Eq(1).Find(".temp").Text()))
}

func TestPageUnknownDayUsesDefault(t *testing.T) {
	wednesday := int(time.Wednesday)
	view := Page(berlinSnapshot(forecast.Metric), PageOptions{Day: &wednesday})
	assert.Equal(t, int(time.Saturday), view.SelectedDay)
	require.Len(t, view.Hourly.Rows, 1)
}

func TestHourlyPlaceholder(t *testing.T) {
	view := Hourly(nil, 0, "")
	assert.Empty(t, view.Rows)
	assert.Equal(t, NoHourlyData, view.Placeholder)

	doc := renderPage(t, PageView{Hourly: view})
	rows := doc.Find("#hourlyList .hour-row")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "No hourly data for this day", strings.TrimSpace(rows.Text()))
}

func TestPageWithoutSnapshot(t *testing.T) {
	doc := renderPage(t, Page(nil, PageOptions{Unit: forecast.Imperial}))

	assert.Equal(t, "Loading...", doc.Find("#cityName").Text())
	assert.Equal(t, 0, doc.Find("#dailyCards .daily-card").Length())
	assert.Equal(t, 0, doc.Find("#weatherIcon").Length())
	val, _ := doc.Find("#unitSelect option[selected]").Attr("value")
	assert.Equal(t, "imperial", val)
}

func TestPageAlertAndWidgets(t *testing.T) {
	doc := renderPage(t, Page(berlinSnapshot(forecast.Metric), PageOptions{Alert: "City not found or API error", Query: "Atlantis"}))

	assert.Equal(t, "City not found or API error", doc.Find("#alertBanner").Text())
	val, _ := doc.Find("#cityInput").Attr("value")
	assert.Equal(t, "Atlantis", val)

	scripts := doc.Find("script").Text()
	assert.Contains(t, scripts, `alert("City not found or API error")`)
	assert.Regexp(t, `maximumAge:\s*600000\s*,`, scripts)
	assert.Regexp(t, `timeout:\s*10000\s*}`, scripts)
	assert.Regexp(t, `},\s*800\s*\)`, scripts)
	assert.Contains(t, scripts, "/api/v1/chat")
	assert.Equal(t, 1, doc.Find("#chatbot-window").Length())

	action, _ := doc.Find("#locateForm").Attr("action")
	assert.Equal(t, "/locate", action)
}
