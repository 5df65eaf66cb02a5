// Package threshold classifies single readings against configured
// bounds. Evaluations are pure and deterministic.
package threshold

import (
	"fmt"

	"codeberg.org/nholm/vitals/internal/health"
)

const (
	// DefaultAge is assumed when the caller passes a non-positive age.
	DefaultAge = 30

	// Maximum heart rate is estimated as 220 minus age; readings above
	// 85% of that estimate are dangerous, not just elevated.
	maxHeartRateBase = 220
	dangerFraction   = 0.85

	// Blood oxygen below 90% is critical regardless of user thresholds.
	criticalBloodOxygen = 90
)

// EvaluateHeartRate classifies a heart rate reading in BPM.
func EvaluateHeartRate(value float64, t health.Thresholds, age int) health.Evaluation {
	if age <= 0 {
		age = DefaultAge
	}

	if value < t.Min {
		return health.Evaluation{
			Status:   health.StatusLow,
			Severity: health.SeverityWarning,
			Message:  fmt.Sprintf("Heart rate %.0f BPM is below the configured minimum", value),
		}
	}

	if value > t.Max {
		maxAllowed := float64(maxHeartRateBase - age)
		if value > dangerFraction*maxAllowed {
			return health.Evaluation{
				Status:   health.StatusHigh,
				Severity: health.SeverityDanger,
				Message:  fmt.Sprintf("Heart rate %.0f BPM is dangerously high", value),
			}
		}

		return health.Evaluation{
			Status:   health.StatusHigh,
			Severity: health.SeverityWarning,
			Message:  fmt.Sprintf("Heart rate %.0f BPM is above the configured maximum", value),
		}
	}

	return health.Evaluation{
		Status:   health.StatusNormal,
		Severity: health.SeverityNormal,
		Message:  fmt.Sprintf("Heart rate %.0f BPM is normal", value),
	}
}

// EvaluateBloodOxygen classifies a blood oxygen saturation percentage.
func EvaluateBloodOxygen(value float64, t health.Thresholds) health.Evaluation {
	if value < criticalBloodOxygen {
		return health.Evaluation{
			Status:   health.StatusCritical,
			Severity: health.SeverityDanger,
			Message:  fmt.Sprintf("Blood oxygen %.0f%% is critically low", value),
		}
	}

	if value < t.MinBloodOxygen {
		return health.Evaluation{
			Status:   health.StatusLow,
			Severity: health.SeverityWarning,
			Message:  fmt.Sprintf("Blood oxygen %.0f%% is below the configured minimum", value),
		}
	}

	return health.Evaluation{
		Status:   health.StatusNormal,
		Severity: health.SeverityNormal,
		Message:  fmt.Sprintf("Blood oxygen %.0f%% is normal", value),
	}
}
