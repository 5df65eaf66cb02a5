package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/nholm/vitals/internal/errors"
	"codeberg.org/nholm/vitals/internal/health"
	"codeberg.org/nholm/vitals/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

const (
	streamKeyPrefix = "vitals:stream:"
	thresholdsKey   = "vitals:thresholds"
	settingsKey     = "vitals:settings"
)

type sqliteRepository struct {
	db        *sql.DB
	mu        sync.Mutex
	retention time.Duration
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Msgf("Initializing vitals repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db:        db,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}, nil
}

func streamKey(stream string) string {
	return streamKeyPrefix + stream
}

// Append loads the stream, appends the record, drops everything older
// than the retention window and writes the filtered list back, all in
// one transaction. The mutex serializes the read-modify-write so a
// concurrent writer in this process cannot lose an update.
func (r *sqliteRepository) Append(ctx context.Context, stream string, rec health.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				logger.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	records, err := readStreamTx(ctx, tx, stream)
	if err != nil {
		return err
	}

	records = append(records, rec)

	// Eager retention: purge on every write, never at read time
	cutoff := time.Now().Add(-r.retention).UnixMilli()
	kept := records[:0]
	for _, record := range records {
		if record.Timestamp > cutoff {
			kept = append(kept, record)
		}
	}

	payload, err := json.Marshal(kept)
	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	if _, err := tx.ExecContext(ctx, upsertStreamSQL, streamKey(stream), string(payload), time.Now().UnixMilli()); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	committed = true

	return nil
}

func (r *sqliteRepository) Query(ctx context.Context, stream string, rng Range) ([]health.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.readStream(ctx, stream)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	matched := make([]health.Record, 0, len(records))
	for _, rec := range records {
		if rng.Matches(rec.Timestamp, now) {
			matched = append(matched, rec)
		}
	}

	return matched, nil
}

func (r *sqliteRepository) Clear(ctx context.Context, streams ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	for _, stream := range streams {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM streams WHERE key = ?`, streamKey(stream)); err != nil {
			return errFactory.WithData(ErrStorageAccess, struct {
				Phase  string
				Stream string
				Error  string
			}{
				Phase:  "clear",
				Stream: stream,
				Error:  err.Error(),
			})
		}
	}

	return nil
}

func (r *sqliteRepository) EstimateSize(ctx context.Context, stream string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	var size int64
	err := r.db.QueryRowContext(ctx, `SELECT length(payload) FROM streams WHERE key = ?`, streamKey(stream)).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(ErrStorageAccess, err)
	}

	return size, nil
}

func (r *sqliteRepository) SaveThresholds(ctx context.Context, t health.Thresholds) error {
	return r.saveObject(ctx, thresholdsKey, t)
}

func (r *sqliteRepository) LoadThresholds(ctx context.Context) (health.Thresholds, bool, error) {
	var t health.Thresholds
	ok, err := r.loadObject(ctx, thresholdsKey, &t)
	return t, ok, err
}

func (r *sqliteRepository) SaveSettings(ctx context.Context, s health.Settings) error {
	return r.saveObject(ctx, settingsKey, s)
}

func (r *sqliteRepository) LoadSettings(ctx context.Context) (health.Settings, bool, error) {
	var s health.Settings
	ok, err := r.loadObject(ctx, settingsKey, &s)
	return s, ok, err
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	return nil
}

func (r *sqliteRepository) readStream(ctx context.Context, stream string) ([]health.Record, error) {
	errFactory := errors.New()

	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM streams WHERE key = ?`, streamKey(stream)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []health.Record{}, nil
	}
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	var records []health.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, errFactory.Wrap(ErrDecodeFailed, err)
	}

	return records, nil
}

func readStreamTx(ctx context.Context, tx *sql.Tx, stream string) ([]health.Record, error) {
	errFactory := errors.New()

	var payload string
	err := tx.QueryRowContext(ctx, `SELECT payload FROM streams WHERE key = ?`, streamKey(stream)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []health.Record{}, nil
	}
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	var records []health.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, errFactory.Wrap(ErrDecodeFailed, err)
	}

	return records, nil
}

func (r *sqliteRepository) saveObject(ctx context.Context, key string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	payload, err := json.Marshal(v)
	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	if _, err := r.db.ExecContext(ctx, upsertStreamSQL, key, string(payload), time.Now().UnixMilli()); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) loadObject(ctx context.Context, key string, v any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM streams WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errFactory.Wrap(ErrStorageAccess, err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, errFactory.Wrap(ErrDecodeFailed, err)
	}

	return true, nil
}
