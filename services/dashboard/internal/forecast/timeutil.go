package forecast

import (
	"math"
	"strconv"
	"time"
)

const longDateLayout = "Monday, Jan 2, 2006"

// ToLocal shifts a Unix timestamp by a flat offset. The returned time is in UTC and its
// wall clock reads as the location's local time. DST is not modelled.
func ToLocal(ts, tzOffsetSeconds int64) time.Time {
	return time.Unix(ts+tzOffsetSeconds, 0).UTC()
}

// WeekdayName returns the short weekday name, e.g. "Mon".
func WeekdayName(t time.Time) string {
	return t.Weekday().String()[:3]
}

// HourLabel returns the hour of day as "H:00".
func HourLabel(t time.Time) string {
	return strconv.Itoa(t.Hour()) + ":00"
}

// LongDate formats t as "Saturday, Oct 17, 2026".
func LongDate(t time.Time) string {
	return t.Format(longDateLayout)
}

// Round rounds half up toward positive infinity, so -2.5 becomes -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// TodayIndex is the local weekday index of now at the given offset.
func TodayIndex(tzOffsetSeconds int64, now time.Time) int {
	return int(ToLocal(now.Unix(), tzOffsetSeconds).Weekday())
}
