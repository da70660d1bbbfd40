package dashboard

import (
	"time"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

// Snapshot is one fetched forecast with everything derived from it. It is never
// mutated after NewSnapshot returns.
type Snapshot struct {
	City       forecast.City           `json:"city"`
	Unit       forecast.Unit           `json:"unit"`
	Entries    []forecast.Entry        `json:"entries"`
	Buckets    forecast.DayBuckets     `json:"buckets"`
	Summaries  []forecast.DailySummary `json:"summaries"`
	Days       []int                   `json:"days"`
	DefaultDay int                     `json:"default_day"`
	LoadedAt   time.Time               `json:"loaded_at"`
}

// NewSnapshot groups and summarizes fc. unit must be the unit fc was fetched in.
func NewSnapshot(fc *forecast.Forecast, unit forecast.Unit, now time.Time) *Snapshot {
	tz := fc.City.Timezone
	buckets := forecast.GroupByDay(fc.Entries, tz)
	summaries := forecast.Summarize(buckets, tz, now)

	days := make([]int, 0, len(summaries))
	for _, s := range summaries {
		days = append(days, s.DayIndex)
	}

	defaultDay := forecast.TodayIndex(tz, now)
	if len(summaries) > 0 {
		defaultDay = summaries[0].DayIndex
	}

	return &Snapshot{
		City:       fc.City,
		Unit:       unit,
		Entries:    fc.Entries,
		Buckets:    buckets,
		Summaries:  summaries,
		Days:       days,
		DefaultDay: defaultDay,
		LoadedAt:   now,
	}
}

// Header is the "City, Country" line of the main card.
func (s *Snapshot) Header() string {
	return s.City.Name + ", " + s.City.Country
}

// Current is the first forecast entry, used for the main card.
func (s *Snapshot) Current() (forecast.Entry, bool) {
	if len(s.Entries) == 0 {
		return forecast.Entry{}, false
	}
	return s.Entries[0], true
}

// HasDay reports whether day has a summary card.
func (s *Snapshot) HasDay(day int) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Hourly returns the entries of a weekday bucket, or an empty slice.
func (s *Snapshot) Hourly(day int) []forecast.Entry {
	if bucket, ok := s.Buckets[day]; ok {
		return bucket
	}
	return []forecast.Entry{}
}
