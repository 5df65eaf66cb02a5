package config

import (
	"os"

	"codeberg.org/nholm/vitals/internal/errors"
	"codeberg.org/nholm/vitals/internal/health"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval      = 3
	defaultRetentionDays = 30
	defaultDBPath        = "/var/lib/vitalsd/vitals.db"
	defaultAge           = 30
)

type Config struct {
	Interval       int     `mapstructure:"interval"`
	RetentionDays  int     `mapstructure:"retention_days"`
	Database       string  `mapstructure:"database"`
	LogLevel       string  `mapstructure:"log_level"`
	Age            int     `mapstructure:"age"`
	MinHeartRate   float64 `mapstructure:"min_heart_rate"`
	MaxHeartRate   float64 `mapstructure:"max_heart_rate"`
	MinBloodOxygen float64 `mapstructure:"min_blood_oxygen"`

	// One-shot modes; never read from the config file
	Report bool   `mapstructure:"report"`
	Export string `mapstructure:"export"`
}

// Load reads configuration from flags, the VITALSD_CONFIG file (or the
// default search paths) and defaults, in that precedence order.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("vitalsd", pflag.ContinueOnError)
	fs.Int("interval", defaultInterval, "Seconds between samples")
	fs.Int("retention-days", defaultRetentionDays, "Days of history to keep")
	fs.String("database", defaultDBPath, "Path to the vitals database")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.Int("age", defaultAge, "User age for max heart rate calculation")
	fs.Bool("report", false, "Print a 7-day report and exit")
	fs.String("export", "", "Export history (csv or json) to stdout and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("retention_days", defaultRetentionDays)
	v.SetDefault("database", defaultDBPath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("age", defaultAge)
	v.SetDefault("min_heart_rate", health.DefaultThresholds().Min)
	v.SetDefault("max_heart_rate", health.DefaultThresholds().Max)
	v.SetDefault("min_blood_oxygen", health.DefaultThresholds().MinBloodOxygen)

	if path := os.Getenv("VITALSD_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("vitalsd")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath("$HOME/.config/vitalsd")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Explicitly set flags override file values
	fs.Visit(func(f *pflag.Flag) {
		key := f.Name
		if key == "retention-days" {
			key = "retention_days"
		}
		if key == "log-level" {
			key = "log_level"
		}
		v.Set(key, f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks ranges that would otherwise surface as confusing
// runtime behavior.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.RetentionDays <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "retention_days must be positive")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if err := c.Thresholds().Validate(); err != nil {
		return err
	}

	return nil
}

// Thresholds returns the configured classification bounds.
func (c *Config) Thresholds() health.Thresholds {
	return health.Thresholds{
		Min:            c.MinHeartRate,
		Max:            c.MaxHeartRate,
		MinBloodOxygen: c.MinBloodOxygen,
	}
}

// Settings returns the user settings derived from configuration.
func (c *Config) Settings() health.Settings {
	return health.Settings{
		Age:             c.Age,
		IntervalSeconds: c.Interval,
		Notifications:   true,
	}
}
