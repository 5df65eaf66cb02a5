package export

import (
	"encoding/json"
	"time"

	"codeberg.org/nholm/vitals/internal/health"
)

// Bundle is the portable snapshot of everything the engine persists.
// It must survive a marshal/unmarshal cycle without losing keys or
// numeric precision.
type Bundle struct {
	ExportDate       string            `json:"exportDate"`
	HeartRateHistory []health.Record   `json:"heartRateHistory"`
	HealthRecords    []health.Record   `json:"healthRecords"`
	Thresholds       health.Thresholds `json:"thresholds"`
	Settings         health.Settings   `json:"settings"`
}

// NewBundle stamps the export time and collects the persisted state.
func NewBundle(heartRate, records []health.Record, t health.Thresholds, s health.Settings) Bundle {
	if heartRate == nil {
		heartRate = []health.Record{}
	}
	if records == nil {
		records = []health.Record{}
	}

	return Bundle{
		ExportDate:       health.ISOTime(time.Now().UnixMilli()),
		HeartRateHistory: heartRate,
		HealthRecords:    records,
		Thresholds:       t,
		Settings:         s,
	}
}

// Marshal serializes the bundle with stable indentation.
func (b Bundle) Marshal() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal parses a bundle previously produced by Marshal.
func Unmarshal(data []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, err
	}

	return b, nil
}
