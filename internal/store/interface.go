package store

import (
	"context"
	"time"

	"codeberg.org/nholm/vitals/internal/health"
)

// Well-known stream names.
const (
	StreamHeartRate     = "heart_rate"
	StreamHealthRecords = "health_records"
)

// Store is the boundary the producer and display layers call. Writes
// degrade to a boolean result and reads degrade to empty slices on
// persistence failure; callers never crash on storage errors.
type Store interface {
	Append(ctx context.Context, stream string, rec health.Record) bool
	Query(ctx context.Context, stream string, rng Range) []health.Record
	Clear(ctx context.Context, streams ...string) error
	EstimateSize(ctx context.Context, stream string) int64

	Thresholds(ctx context.Context) health.Thresholds
	UpdateThresholds(ctx context.Context, t health.Thresholds) error
	Settings(ctx context.Context) health.Settings
	SaveSettings(ctx context.Context, s health.Settings) error

	Close() error
}

// Repository is the persistence layer underneath the Store boundary.
type Repository interface {
	Append(ctx context.Context, stream string, rec health.Record) error
	Query(ctx context.Context, stream string, rng Range) ([]health.Record, error)
	Clear(ctx context.Context, streams ...string) error
	EstimateSize(ctx context.Context, stream string) (int64, error)

	SaveThresholds(ctx context.Context, t health.Thresholds) error
	LoadThresholds(ctx context.Context) (health.Thresholds, bool, error)
	SaveSettings(ctx context.Context, s health.Settings) error
	LoadSettings(ctx context.Context) (health.Settings, bool, error)

	Close() error
}

type rangeKind int

const (
	rangeAll rangeKind = iota
	rangeLastDays
	rangeToday
	rangeBetween
)

// Range selects records by timestamp. The zero value selects everything.
type Range struct {
	kind  rangeKind
	days  int
	start int64
	end   int64
}

// All selects every record in the stream.
func All() Range {
	return Range{kind: rangeAll}
}

// LastDays selects records newer than n days before now.
func LastDays(n int) Range {
	return Range{kind: rangeLastDays, days: n}
}

// TodayOnly selects records since local midnight. Near a DST transition
// the local day may span 23 or 25 wall hours; that is accepted.
func TodayOnly() Range {
	return Range{kind: rangeToday}
}

// Between selects records with start <= timestamp <= end, in epoch millis.
func Between(start, end int64) Range {
	return Range{kind: rangeBetween, start: start, end: end}
}

// Matches reports whether a timestamp falls inside the range, evaluated
// against now in the local timezone.
func (r Range) Matches(timestampMs int64, now time.Time) bool {
	switch r.kind {
	case rangeLastDays:
		cutoff := now.AddDate(0, 0, -r.days).UnixMilli()
		return timestampMs > cutoff
	case rangeToday:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return timestampMs >= midnight.UnixMilli() && timestampMs < midnight.AddDate(0, 0, 1).UnixMilli()
	case rangeBetween:
		return timestampMs >= r.start && timestampMs <= r.end
	default:
		return true
	}
}
