package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/dashboard"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

const (
	DefaultIconBaseURL = "https://openweathermap.org/img/wn"
	NoHourlyData       = "No hourly data for this day"

	chatReplyDelay   = 800 * time.Millisecond
	defaultGeoMaxAge = 10 * time.Minute
	defaultGeoWait   = 10 * time.Second
)

// IconURL returns the 2x PNG for an OpenWeatherMap icon code.
func IconURL(base, code string) string {
	if base == "" {
		base = DefaultIconBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + code + "@2x.png"
}

// MainCardView is the "now" card.
type MainCardView struct {
	Header      string
	Date        string
	Description string
	Temp        string
	IconURL     string
	FeelsLike   string
	Humidity    string
	Wind        string
	Precip      string
}

// MainCard renders the first forecast entry. The precipitation amount is always
// labelled "mm", whatever the unit system.
func MainCard(city forecast.City, first forecast.Entry, unit forecast.Unit, iconBase string) MainCardView {
	return MainCardView{
		Header:      city.Name + ", " + city.Country,
		Date:        forecast.LongDate(forecast.ToLocal(first.DT, city.Timezone)),
		Description: first.Condition.Description,
		Temp:        fmt.Sprintf("%d%s", forecast.Round(first.Temp), unit.TempSuffix()),
		IconURL:     IconURL(iconBase, first.Condition.Icon),
		FeelsLike:   fmt.Sprintf("%d°", forecast.Round(first.FeelsLike)),
		Humidity:    fmt.Sprintf("%d%%", first.Humidity),
		Wind:        fmt.Sprintf("%d %s", forecast.Round(first.WindSpeed), unit.SpeedSuffix()),
		Precip:      strconv.FormatFloat(first.Precipitation(), 'f', -1, 64) + " mm",
	}
}

// LoadingCard is shown before any forecast has loaded.
func LoadingCard() MainCardView {
	return MainCardView{Header: dashboard.LoadingHeader}
}

// DailyCardView is one clickable day card.
type DailyCardView struct {
	DayIndex int
	Label    string
	IconURL  string
	Temps    string
	Href     string
	Active   bool
}

// DailyCards builds one card per summary, in order. The card for selected is active;
// if no card matches, the first one is.
func DailyCards(summaries []forecast.DailySummary, selected int, iconBase string) []DailyCardView {
	cards := make([]DailyCardView, 0, len(summaries))
	active := -1
	for i, s := range summaries {
		if s.DayIndex == selected && active < 0 {
			active = i
		}
		cards = append(cards, DailyCardView{
			DayIndex: s.DayIndex,
			Label:    s.Label,
			IconURL:  IconURL(iconBase, s.Icon),
			Temps:    fmt.Sprintf("%d° / %d°", s.Max, s.Min),
			Href:     fmt.Sprintf("/?day=%d", s.DayIndex),
		})
	}
	if active < 0 && len(cards) > 0 {
		active = 0
	}
	if active >= 0 {
		cards[active].Active = true
	}
	return cards
}

// DayOptionView is one entry of the day selector.
type DayOptionView struct {
	Value    int
	Label    string
	Selected bool
}

func DayOptions(summaries []forecast.DailySummary, selected int) []DayOptionView {
	opts := make([]DayOptionView, 0, len(summaries))
	for _, s := range summaries {
		opts = append(opts, DayOptionView{Value: s.DayIndex, Label: s.Label, Selected: s.DayIndex == selected})
	}
	return opts
}

// HourRowView is one row of the hourly list.
type HourRowView struct {
	Time    string
	IconURL string
	Temp    string
}

// HourlyView is the hourly list of a day. Placeholder is set when there are no rows.
type HourlyView struct {
	Rows        []HourRowView
	Placeholder string
}

func Hourly(entries []forecast.Entry, tzOffsetSeconds int64, iconBase string) HourlyView {
	if len(entries) == 0 {
		return HourlyView{Placeholder: NoHourlyData}
	}
	rows := make([]HourRowView, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HourRowView{
			Time:    forecast.HourLabel(forecast.ToLocal(e.DT, tzOffsetSeconds)),
			IconURL: IconURL(iconBase, e.Condition.Icon),
			Temp:    fmt.Sprintf("%d°", forecast.Round(e.Temp)),
		})
	}
	return HourlyView{Rows: rows}
}

// UnitOptionView is one entry of the unit selector.
type UnitOptionView struct {
	Value    string
	Label    string
	Selected bool
}

// ChatView configures the chat widget script.
type ChatView struct {
	DelayMillis int64
}

// GeoView holds the browser geolocation options of the locate button.
type GeoView struct {
	MaximumAgeMillis int64
	TimeoutMillis    int64
}

// PageView is everything the page template needs.
type PageView struct {
	Main        MainCardView
	Daily       []DailyCardView
	Days        []DayOptionView
	Hourly      HourlyView
	Units       []UnitOptionView
	Chat        ChatView
	Geo         GeoView
	SelectedDay int
	Alert       string
	Query       string
}

// PageOptions carries the request-scoped inputs of a page render.
type PageOptions struct {
	// Day is the requested hourly day; nil or unknown days use the snapshot default.
	Day        *int
	Unit       forecast.Unit
	Alert      string
	Query      string
	IconBase   string
	GeoMaxAge  time.Duration
	GeoTimeout time.Duration
}

// Page assembles the full page view. snap may be nil while nothing is loaded.
func Page(snap *dashboard.Snapshot, opts PageOptions) PageView {
	unit := opts.Unit
	if snap != nil {
		unit = snap.Unit
	}

	view := PageView{
		Units: []UnitOptionView{
			{Value: string(forecast.Metric), Label: "°C", Selected: unit != forecast.Imperial},
			{Value: string(forecast.Imperial), Label: "°F", Selected: unit == forecast.Imperial},
		},
		Chat: ChatView{DelayMillis: chatReplyDelay.Milliseconds()},
		Geo: GeoView{
			MaximumAgeMillis: orDefault(opts.GeoMaxAge, defaultGeoMaxAge).Milliseconds(),
			TimeoutMillis:    orDefault(opts.GeoTimeout, defaultGeoWait).Milliseconds(),
		},
		Alert: opts.Alert,
		Query: opts.Query,
	}

	first, ok := snapshotCurrent(snap)
	if !ok {
		view.Main = LoadingCard()
		view.Hourly = HourlyView{Placeholder: NoHourlyData}
		return view
	}

	day := snap.DefaultDay
	if opts.Day != nil && snap.HasDay(*opts.Day) {
		day = *opts.Day
	}

	view.SelectedDay = day
	view.Main = MainCard(snap.City, first, snap.Unit, opts.IconBase)
	view.Daily = DailyCards(snap.Summaries, day, opts.IconBase)
	view.Days = DayOptions(snap.Summaries, day)
	view.Hourly = Hourly(snap.Hourly(day), snap.City.Timezone, opts.IconBase)
	return view
}

func snapshotCurrent(snap *dashboard.Snapshot) (forecast.Entry, bool) {
	if snap == nil {
		return forecast.Entry{}, false
	}
	return snap.Current()
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
