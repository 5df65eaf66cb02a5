package store

import (
	"context"
	"math"
	"time"

	"codeberg.org/nholm/vitals/internal/errors"
	"codeberg.org/nholm/vitals/internal/health"
	"codeberg.org/nholm/vitals/internal/logger"
)

// service converts repository errors into the degrade-to-defaults
// behavior callers rely on: appends report a boolean outcome, queries
// return empty slices, and every failure leaves a logged diagnostic.
type service struct {
	repo Repository
}

func NewService(cfg Config) (Store, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, stream string, rec health.Record) bool {
	if math.IsNaN(rec.Value) || math.IsInf(rec.Value, 0) {
		logger.Warn().
			Str("stream", stream).
			Float64("value", rec.Value).
			Str("error_code", string(errors.ErrInvalidValue)).
			Msg("Rejected non-numeric sample")
		return false
	}

	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}
	// Keep the display cache consistent with the timestamp
	rec.Date = health.ISOTime(rec.Timestamp)

	if err := s.repo.Append(ctx, stream, rec); err != nil {
		logger.Error().
			Err(err).
			Str("stream", stream).
			Str("error_code", string(errors.CodeOf(err))).
			Msg("Failed to persist sample")
		return false
	}

	return true
}

func (s *service) Query(ctx context.Context, stream string, rng Range) []health.Record {
	records, err := s.repo.Query(ctx, stream, rng)
	if err != nil {
		logger.Error().
			Err(err).
			Str("stream", stream).
			Str("error_code", string(errors.CodeOf(err))).
			Msg("Failed to read stream")
		return []health.Record{}
	}

	return records
}

func (s *service) Clear(ctx context.Context, streams ...string) error {
	return s.repo.Clear(ctx, streams...)
}

func (s *service) EstimateSize(ctx context.Context, stream string) int64 {
	size, err := s.repo.EstimateSize(ctx, stream)
	if err != nil {
		logger.Error().Err(err).Str("stream", stream).Msg("Failed to estimate stream size")
		return 0
	}

	return size
}

func (s *service) Thresholds(ctx context.Context) health.Thresholds {
	t, ok, err := s.repo.LoadThresholds(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load thresholds")
		return health.DefaultThresholds()
	}
	if !ok {
		return health.DefaultThresholds()
	}

	return t
}

// UpdateThresholds validates before persisting; on validation failure
// the previously stored thresholds remain in effect.
func (s *service) UpdateThresholds(ctx context.Context, t health.Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return s.repo.SaveThresholds(ctx, t)
}

func (s *service) Settings(ctx context.Context) health.Settings {
	settings, ok, err := s.repo.LoadSettings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load settings")
		return health.DefaultSettings()
	}
	if !ok {
		return health.DefaultSettings()
	}

	return settings
}

func (s *service) SaveSettings(ctx context.Context, settings health.Settings) error {
	return s.repo.SaveSettings(ctx, settings)
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, err)
	}
	return nil
}
