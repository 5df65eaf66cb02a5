package export_test

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"codeberg.org/nholm/vitals/internal/export"
	"codeberg.org/nholm/vitals/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []health.Record {
	base := time.Date(2026, 8, 10, 9, 30, 0, 0, time.Local)
	out := make([]health.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, health.NewRecord(70+float64(i), base.Add(time.Duration(i)*time.Minute).UnixMilli()))
	}
	return out
}

func TestToCSVLineCount(t *testing.T) {
	records := sampleRecords(5)

	out, err := export.ToCSV(records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 6, "N records produce N+1 lines")
	assert.Equal(t, "Date,Time,Heart Rate (BPM)", lines[0])
}

func TestToCSVRoundTrip(t *testing.T) {
	records := sampleRecords(4)

	out, err := export.ToCSV(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for i, rec := range records {
		row := rows[i+1]
		local := rec.Time().Local()
		assert.Equal(t, local.Format("2006-01-02"), row[0])
		assert.Equal(t, local.Format("15:04:05"), row[1])

		value, err := strconv.ParseFloat(row[2], 64)
		require.NoError(t, err)
		assert.InDelta(t, rec.Value, value, 0.0001)
	}
}

func TestToCSVPreservesInputOrder(t *testing.T) {
	// Callers own the ordering; export must not re-sort
	records := sampleRecords(3)
	records[0], records[2] = records[2], records[0]

	out, err := export.ToCSV(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "72", rows[1][2])
	assert.Equal(t, "70", rows[3][2])
}

func TestToCSVEmptyInput(t *testing.T) {
	out, err := export.ToCSV(nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestBundleRoundTrip(t *testing.T) {
	oxygen := 97.25
	steps := 4321
	rec := health.NewRecord(75.5, time.Now().UnixMilli())
	rec.BloodOxygen = &oxygen
	rec.Steps = &steps

	bundle := export.NewBundle(
		sampleRecords(3),
		[]health.Record{rec},
		health.Thresholds{Min: 55, Max: 110, MinBloodOxygen: 94},
		health.Settings{Age: 45, IntervalSeconds: 5, Notifications: true},
	)
	require.NotEmpty(t, bundle.ExportDate)

	data, err := bundle.Marshal()
	require.NoError(t, err)

	parsed, err := export.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, bundle, parsed, "round trip must lose nothing")
}

func TestBundleKeyPresence(t *testing.T) {
	bundle := export.NewBundle(nil, nil, health.DefaultThresholds(), health.DefaultSettings())

	data, err := bundle.Marshal()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"exportDate", "heartRateHistory", "healthRecords", "thresholds", "settings"} {
		assert.Contains(t, raw, key)
	}

	// Empty histories serialize as [], not null
	assert.Equal(t, "[]", string(raw["heartRateHistory"]))
	assert.Equal(t, "[]", string(raw["healthRecords"]))
}
