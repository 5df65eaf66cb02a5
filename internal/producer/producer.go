// Package producer supplies readings to the store. The simulated
// source stands in for real sensors: a random walk per vital, behind an
// interface so tests feed the engine deterministic fixtures instead.
package producer

import (
	"math/rand"
	"time"

	"codeberg.org/nholm/vitals/internal/health"
)

// Producer yields one composite reading per call.
type Producer interface {
	Next(now time.Time) health.Record
}

// Random-walk bounds for the simulated vitals.
const (
	baseHeartRate = 72
	minHeartRate  = 50
	maxHeartRate  = 180
	heartRateStep = 3

	baseBloodOxygen = 98
	minBloodOxygen  = 90
	maxBloodOxygen  = 100
	bloodOxygenStep = 0.5

	maxStepsPerTick   = 12
	caloriesPerStep   = 0.04
	distancePerStepKm = 0.00075
)

// Simulated is a deterministic-when-seeded random-walk vitals source.
type Simulated struct {
	rng *rand.Rand

	heartRate   float64
	bloodOxygen float64
	steps       int
	calories    float64
	distance    float64
}

// NewSimulated builds a simulated source from the given randomness
// source. Tests pass a fixed seed for reproducible sequences.
func NewSimulated(src rand.Source) *Simulated {
	return &Simulated{
		rng:         rand.New(src),
		heartRate:   baseHeartRate,
		bloodOxygen: baseBloodOxygen,
	}
}

// Next advances every walk one tick and returns the composite reading.
// Record.Value carries the heart rate, matching the primary stream.
func (s *Simulated) Next(now time.Time) health.Record {
	s.heartRate = clamp(s.heartRate+s.walk(heartRateStep), minHeartRate, maxHeartRate)
	s.bloodOxygen = clamp(s.bloodOxygen+s.walk(bloodOxygenStep), minBloodOxygen, maxBloodOxygen)

	stepDelta := s.rng.Intn(maxStepsPerTick + 1)
	s.steps += stepDelta
	s.calories += float64(stepDelta) * caloriesPerStep
	s.distance += float64(stepDelta) * distancePerStepKm

	heartRate := round1(s.heartRate)
	bloodOxygen := round1(s.bloodOxygen)
	steps := s.steps
	calories := round1(s.calories)
	distance := s.distance

	rec := health.NewRecord(heartRate, now.UnixMilli())
	rec.HeartRate = &heartRate
	rec.BloodOxygen = &bloodOxygen
	rec.Steps = &steps
	rec.Calories = &calories
	rec.Distance = &distance

	return rec
}

func (s *Simulated) walk(step float64) float64 {
	return (s.rng.Float64()*2 - 1) * step
}

func clamp(value, minValue, maxValue float64) float64 {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
