package store

import (
	"database/sql"

	"codeberg.org/nholm/vitals/internal/errors"
	"codeberg.org/nholm/vitals/internal/logger"
)

const (
	SchemaVersion = 1

	// Each stream persists as one JSON array under a namespaced key, so a
	// reader always observes either the previous or the fully updated list.
	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS streams (
	       key         TEXT PRIMARY KEY,
	       payload     TEXT NOT NULL,
	       updated_at  INTEGER NOT NULL CHECK (typeof(updated_at) = 'integer')
	   );`

	upsertStreamSQL = `
    INSERT INTO streams (key, payload, updated_at)
    VALUES (?, ?, ?)
    ON CONFLICT(key) DO UPDATE SET
        payload = excluded.payload,
        updated_at = excluded.updated_at`
)

// InitSchema creates the database schema with the current version
func InitSchema(db *sql.DB) error {
	errFactory := errors.New()

	logger.Debug().Msg("Creating database schema...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	// Track transaction state
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				if !errors.Is(err, sql.ErrTxDone) {
					logger.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	version, err := schemaVersion(tx)
	if err != nil {
		return err
	}

	if version < SchemaVersion {
		if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
			return errFactory.WithData(ErrSchemaInitFailed, struct {
				Error string
				Phase string
			}{
				Error: err.Error(),
				Phase: "record_version",
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	logger.Debug().
		Int("version", SchemaVersion).
		Msg("Schema initialized")

	return nil
}

func schemaVersion(tx *sql.Tx) (int, error) {
	errFactory := errors.New()

	var version int
	err := tx.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}
