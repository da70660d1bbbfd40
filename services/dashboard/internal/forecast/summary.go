package forecast

import (
	"math"
	"time"
)

// Summarize walks seven weekdays starting at today and reduces every present bucket
// to a DailySummary. Missing days are skipped, not zero-filled.
func Summarize(buckets DayBuckets, tzOffsetSeconds int64, now time.Time) []DailySummary {
	today := TodayIndex(tzOffsetSeconds, now)
	days := make([]DailySummary, 0, 7)

	for i := 0; i < 7; i++ {
		idx := (today + i) % 7
		bucket := buckets[idx]
		if len(bucket) == 0 {
			continue
		}

		minTemp, maxTemp := math.Inf(1), math.Inf(-1)
		for _, e := range bucket {
			minTemp = math.Min(minTemp, e.Temp)
			maxTemp = math.Max(maxTemp, e.Temp)
		}

		// The middle sample stands in for midday.
		mid := bucket[len(bucket)/2]
		days = append(days, DailySummary{
			DayIndex: idx,
			Label:    WeekdayName(ToLocal(mid.DT, tzOffsetSeconds)),
			Min:      Round(minTemp),
			Max:      Round(maxTemp),
			Icon:     mid.Condition.Icon,
		})
	}
	return days
}
