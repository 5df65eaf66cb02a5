package threshold_test

import (
	"testing"

	"codeberg.org/nholm/vitals/internal/health"
	"codeberg.org/nholm/vitals/internal/threshold"
	"github.com/stretchr/testify/assert"
)

var bounds = health.Thresholds{Min: 60, Max: 100, MinBloodOxygen: 95}

func TestEvaluateHeartRate(t *testing.T) {
	cases := []struct {
		name         string
		value        float64
		age          int
		wantStatus   health.Status
		wantSeverity health.Severity
	}{
		{"below minimum", 50, 30, health.StatusLow, health.SeverityWarning},
		{"normal", 72, 30, health.StatusNormal, health.SeverityNormal},
		{"at maximum is normal", 100, 30, health.StatusNormal, health.SeverityNormal},
		// maxAllowed = 220-30 = 190; 0.85*190 = 161.5
		{"elevated below danger line", 105, 30, health.StatusHigh, health.SeverityWarning},
		{"just under danger line", 161, 30, health.StatusHigh, health.SeverityWarning},
		{"above danger line", 165, 30, health.StatusHigh, health.SeverityDanger},
		// maxAllowed = 220-60 = 160; 0.85*160 = 136
		{"age lowers danger line", 140, 60, health.StatusHigh, health.SeverityDanger},
		{"zero age falls back to default", 165, 0, health.StatusHigh, health.SeverityDanger},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := threshold.EvaluateHeartRate(tc.value, bounds, tc.age)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantSeverity, got.Severity)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestEvaluateHeartRateIsDeterministic(t *testing.T) {
	first := threshold.EvaluateHeartRate(105, bounds, 30)
	second := threshold.EvaluateHeartRate(105, bounds, 30)
	assert.Equal(t, first, second)
}

func TestEvaluateBloodOxygen(t *testing.T) {
	cases := []struct {
		name         string
		value        float64
		wantStatus   health.Status
		wantSeverity health.Severity
	}{
		{"critical", 88, health.StatusCritical, health.SeverityDanger},
		{"just below critical boundary", 89.9, health.StatusCritical, health.SeverityDanger},
		{"low", 93, health.StatusLow, health.SeverityWarning},
		{"at ninety is low not critical", 90, health.StatusLow, health.SeverityWarning},
		{"normal", 97, health.StatusNormal, health.SeverityNormal},
		{"at configured minimum is normal", 95, health.StatusNormal, health.SeverityNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := threshold.EvaluateBloodOxygen(tc.value, bounds)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantSeverity, got.Severity)
			assert.NotEmpty(t, got.Message)
		})
	}
}
