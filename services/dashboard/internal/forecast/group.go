package forecast

import "sort"

// GroupByDay buckets entries by their local weekday. Entries from different calendar
// weeks that share a weekday end up in the same bucket.
func GroupByDay(entries []Entry, tzOffsetSeconds int64) DayBuckets {
	buckets := make(DayBuckets)
	for _, e := range entries {
		key := int(ToLocal(e.DT, tzOffsetSeconds).Weekday())
		buckets[key] = append(buckets[key], e)
	}

	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].DT < bucket[j].DT })
	}
	return buckets
}
