package store

import "codeberg.org/nholm/vitals/internal/errors"

const (
	defaultDirPerm       = 0o755
	defaultDBPath        = "/var/lib/vitalsd/vitals.db"
	defaultRetentionDays = 30
)

type Config struct {
	DBPath        string
	RetentionDays int
}

func DefaultConfig() Config {
	return Config{
		DBPath:        defaultDBPath,
		RetentionDays: defaultRetentionDays,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.RetentionDays <= 0 {
		return errFactory.WithData(ErrInvalidConfig, c.RetentionDays)
	}
	return nil
}
