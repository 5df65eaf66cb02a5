package producer_test

import (
	"math/rand"
	"testing"
	"time"

	"codeberg.org/nholm/vitals/internal/health"
	"codeberg.org/nholm/vitals/internal/producer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedSeedIsReproducible(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	first := producer.NewSimulated(rand.NewSource(42))
	second := producer.NewSimulated(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		tick := now.Add(time.Duration(i) * 3 * time.Second)
		assert.Equal(t, first.Next(tick), second.Next(tick))
	}
}

func TestReadingsStayWithinBounds(t *testing.T) {
	sim := producer.NewSimulated(rand.NewSource(7))
	now := time.Now()

	for i := 0; i < 500; i++ {
		rec := sim.Next(now.Add(time.Duration(i) * 3 * time.Second))

		require.NotNil(t, rec.HeartRate)
		assert.GreaterOrEqual(t, *rec.HeartRate, 50.0)
		assert.LessOrEqual(t, *rec.HeartRate, 180.0)
		assert.InDelta(t, rec.Value, *rec.HeartRate, 0.0001, "Value carries the heart rate")

		require.NotNil(t, rec.BloodOxygen)
		assert.GreaterOrEqual(t, *rec.BloodOxygen, 90.0)
		assert.LessOrEqual(t, *rec.BloodOxygen, 100.0)
	}
}

func TestCumulativeVitalsAreMonotonic(t *testing.T) {
	sim := producer.NewSimulated(rand.NewSource(11))
	now := time.Now()

	lastSteps := 0
	lastCalories := 0.0
	lastDistance := 0.0
	for i := 0; i < 100; i++ {
		rec := sim.Next(now.Add(time.Duration(i) * 3 * time.Second))

		require.NotNil(t, rec.Steps)
		require.NotNil(t, rec.Calories)
		require.NotNil(t, rec.Distance)

		assert.GreaterOrEqual(t, *rec.Steps, lastSteps)
		assert.GreaterOrEqual(t, *rec.Calories, lastCalories)
		assert.GreaterOrEqual(t, *rec.Distance, lastDistance)

		lastSteps = *rec.Steps
		lastCalories = *rec.Calories
		lastDistance = *rec.Distance
	}
}

func TestRecordTimestampMatchesTick(t *testing.T) {
	sim := producer.NewSimulated(rand.NewSource(3))
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	rec := sim.Next(now)
	assert.Equal(t, now.UnixMilli(), rec.Timestamp)
	assert.Equal(t, health.ISOTime(rec.Timestamp), rec.Date)
}
