package health

import (
	"math"
	"time"

	"codeberg.org/nholm/vitals/internal/errors"
)

// Trend classifies how a value series is moving over its window.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Status classifies a single reading against its thresholds.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusLow      Status = "low"
	StatusHigh     Status = "high"
	StatusCritical Status = "critical"
)

// Severity ranks how urgent a classified reading is.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Record is one time-stamped observation. Value and Timestamp are always
// present; the named vitals are optional and absent fields are never
// inferred. Date is a display cache of Timestamp and must satisfy
// Date == ISOTime(Timestamp).
type Record struct {
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`

	HeartRate   *float64 `json:"heartRate,omitempty"`
	BloodOxygen *float64 `json:"bloodOxygen,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	Calories    *float64 `json:"calories,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
}

// NewRecord builds a Record with a consistent Date cache.
func NewRecord(value float64, timestampMs int64) Record {
	return Record{
		Value:     value,
		Timestamp: timestampMs,
		Date:      ISOTime(timestampMs),
	}
}

// Time returns the record timestamp as a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ISOTime formats epoch milliseconds as an ISO-8601 UTC string with
// millisecond precision.
func ISOTime(timestampMs int64) string {
	return time.UnixMilli(timestampMs).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Threshold bounds must stay within the physiologically plausible range.
const (
	ThresholdFloor   = 40
	ThresholdCeiling = 200
)

// Thresholds holds the configurable classification bounds.
type Thresholds struct {
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	MinBloodOxygen float64 `json:"minBloodOxygen"`
}

// DefaultThresholds returns the resting-adult defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Min:            60,
		Max:            100,
		MinBloodOxygen: 95,
	}
}

// Validate rejects non-finite bounds, inverted ranges, and bounds outside
// the 40-200 window. Invalid thresholds must never reach persistence.
func (t Thresholds) Validate() error {
	errFactory := errors.New()

	for _, v := range []float64{t.Min, t.Max, t.MinBloodOxygen} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errFactory.WithMessage(errors.ErrInvalidThresholds, "threshold is not a number")
		}
	}

	if t.Min >= t.Max {
		return errFactory.WithData(errors.ErrInvalidThresholds, struct {
			Min float64
			Max float64
		}{t.Min, t.Max})
	}

	for _, v := range []float64{t.Min, t.Max, t.MinBloodOxygen} {
		if v < ThresholdFloor || v > ThresholdCeiling {
			return errFactory.WithData(errors.ErrInvalidThresholds, v)
		}
	}

	return nil
}

// Settings holds user preferences that travel with exports.
type Settings struct {
	Age             int  `json:"age"`
	IntervalSeconds int  `json:"intervalSeconds"`
	Notifications   bool `json:"notifications"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() Settings {
	return Settings{
		Age:             30,
		IntervalSeconds: 3,
		Notifications:   true,
	}
}

// Stats summarizes a record set.
type Stats struct {
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Count   int     `json:"count"`
	Trend   Trend   `json:"trend"`
}

// DayBucket is a per-calendar-day summary. Date is the local date keyed
// as 2006-01-02, so lexical order equals chronological order.
type DayBucket struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Count   int     `json:"count"`
}

// HourBucket is a per-local-hour summary used for today charting.
type HourBucket struct {
	Hour    int     `json:"hour"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Evaluation is the result of classifying one reading.
type Evaluation struct {
	Status   Status   `json:"status"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
