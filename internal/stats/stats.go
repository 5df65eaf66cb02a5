// Package stats derives statistics and chart buckets from record sets.
// Every function is pure: no I/O, no clock reads beyond the timestamps
// already carried by the records.
package stats

import (
	"fmt"
	"math"
	"sort"

	"codeberg.org/nholm/vitals/internal/health"
)

// trendGap is the half-mean difference a series must exceed before it
// counts as rising or falling. Fixed, not configurable.
const trendGap = 5

// Compute summarizes a chronologically ordered record set. An empty set
// yields the zero state rather than an error.
func Compute(records []health.Record) health.Stats {
	if len(records) == 0 {
		return health.Stats{Trend: health.TrendStable}
	}

	sum := 0.0
	minValue := records[0].Value
	maxValue := records[0].Value
	for _, rec := range records {
		sum += rec.Value
		if rec.Value < minValue {
			minValue = rec.Value
		}
		if rec.Value > maxValue {
			maxValue = rec.Value
		}
	}

	return health.Stats{
		Average: math.Round(sum / float64(len(records))),
		Max:     maxValue,
		Min:     minValue,
		Count:   len(records),
		Trend:   trend(records),
	}
}

// trend splits the series at floor(n/2) and compares the unrounded half
// means. A single record has an empty first half, so it is stable by
// definition rather than a division by zero.
func trend(records []health.Record) health.Trend {
	n := len(records)
	if n < 2 {
		return health.TrendStable
	}

	mid := n / 2
	firstAvg := mean(records[:mid])
	secondAvg := mean(records[mid:])

	switch {
	case secondAvg > firstAvg+trendGap:
		return health.TrendRising
	case secondAvg < firstAvg-trendGap:
		return health.TrendFalling
	default:
		return health.TrendStable
	}
}

func mean(records []health.Record) float64 {
	sum := 0.0
	for _, rec := range records {
		sum += rec.Value
	}
	return sum / float64(len(records))
}

// GroupByDay buckets records by local calendar date. Keys use the
// zero-padded 2006-01-02 layout, so lexical order is chronological and
// the sort never re-parses the key. Buckets come back ascending by date.
func GroupByDay(records []health.Record) []health.DayBucket {
	type acc struct {
		sum   float64
		count int
		min   float64
		max   float64
	}

	buckets := make(map[string]*acc)
	for _, rec := range records {
		key := rec.Time().Local().Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			buckets[key] = &acc{sum: rec.Value, count: 1, min: rec.Value, max: rec.Value}
			continue
		}
		b.sum += rec.Value
		b.count++
		if rec.Value < b.min {
			b.min = rec.Value
		}
		if rec.Value > b.max {
			b.max = rec.Value
		}
	}

	out := make([]health.DayBucket, 0, len(buckets))
	for key, b := range buckets {
		out = append(out, health.DayBucket{
			Date:    key,
			Average: math.Round(b.sum / float64(b.count)),
			Max:     b.max,
			Min:     b.min,
			Count:   b.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	return out
}

// GroupByHour buckets records by local hour of day for today charting.
// Labels use the unpadded "H:00" form; ordering is numeric by hour, so
// 9:00 sorts before 10:00.
func GroupByHour(records []health.Record) []health.HourBucket {
	type acc struct {
		sum   float64
		count int
	}

	buckets := make(map[int]*acc)
	for _, rec := range records {
		hour := rec.Time().Local().Hour()
		b, ok := buckets[hour]
		if !ok {
			buckets[hour] = &acc{sum: rec.Value, count: 1}
			continue
		}
		b.sum += rec.Value
		b.count++
	}

	out := make([]health.HourBucket, 0, len(buckets))
	for hour, b := range buckets {
		out = append(out, health.HourBucket{
			Hour:    hour,
			Label:   fmt.Sprintf("%d:00", hour),
			Average: math.Round(b.sum / float64(b.count)),
			Count:   b.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Hour < out[j].Hour
	})

	return out
}
