package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/nholm/vitals/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setArgs replaces os.Args for the duration of a test so Load does not
// trip over the go test flags.
func setArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"vitalsd"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vitalsd.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	setArgs(t)

	configPath := writeConfig(t, `
interval = 5
retention_days = 10
database = "/path/to/vitals.db"
log_level = "debug"
age = 42
min_heart_rate = 55
max_heart_rate = 110
min_blood_oxygen = 94
`)
	t.Setenv("VITALSD_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Interval, "Expected Interval 5")
	assert.Equal(t, 10, cfg.RetentionDays, "Expected RetentionDays 10")
	assert.Equal(t, "/path/to/vitals.db", cfg.Database, "Expected Database /path/to/vitals.db")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, 42, cfg.Age, "Expected Age 42")
	assert.InDelta(t, 55, cfg.MinHeartRate, 0.001)
	assert.InDelta(t, 110, cfg.MaxHeartRate, 0.001)
	assert.InDelta(t, 94, cfg.MinBloodOxygen, 0.001)
}

func TestLoadDefaults(t *testing.T) {
	setArgs(t)
	t.Setenv("VITALSD_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 3, cfg.Interval, "Expected default Interval 3")
	assert.Equal(t, 30, cfg.RetentionDays, "Expected default RetentionDays 30")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, 30, cfg.Age, "Expected default Age 30")
	assert.InDelta(t, 60, cfg.MinHeartRate, 0.001)
	assert.InDelta(t, 100, cfg.MaxHeartRate, 0.001)
	assert.InDelta(t, 95, cfg.MinBloodOxygen, 0.001)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	setArgs(t)

	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("VITALSD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	setArgs(t)

	configPath := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("VITALSD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestInvalidThresholds(t *testing.T) {
	setArgs(t)

	configPath := writeConfig(t, `
min_heart_rate = 120
max_heart_rate = 100
`)
	t.Setenv("VITALSD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid threshold")
}

func TestInvalidInterval(t *testing.T) {
	setArgs(t)

	configPath := writeConfig(t, `
interval = 0
`)
	t.Setenv("VITALSD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid interval")
}

func TestFlagsOverrideFile(t *testing.T) {
	setArgs(t, "--log-level", "warn", "--interval", "7")

	configPath := writeConfig(t, `
interval = 5
log_level = "debug"
`)
	t.Setenv("VITALSD_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "Expected LogLevel set by flag")
	assert.Equal(t, 7, cfg.Interval, "Expected Interval set by flag")
}
