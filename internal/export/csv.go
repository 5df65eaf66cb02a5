package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"codeberg.org/nholm/vitals/internal/health"
)

// CSV column layout: locale date, locale time, raw value. None of the
// fields contain the delimiter, so no quoting appears in the output.
var csvHeader = []string{"Date", "Time", "Heart Rate (BPM)"}

// ToCSV renders records in the order given; callers order them
// chronologically before exporting. N records produce N+1 lines.
func ToCSV(records []health.Record) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, rec := range records {
		local := rec.Time().Local()
		row := []string{
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			strconv.FormatFloat(rec.Value, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
