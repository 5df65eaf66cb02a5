package store

import "codeberg.org/nholm/vitals/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig = errors.ErrorCode("store_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("store_invalid_db_path")

	// Persistence errors
	ErrStorageInit      = errors.ErrorCode("store_init_failed")
	ErrStorageAccess    = errors.ErrorCode("store_access_failed")
	ErrStorageClose     = errors.ErrorCode("store_close_failed")
	ErrSchemaInitFailed = errors.ErrorCode("store_schema_init_failed")

	// Codec errors
	ErrEncodeFailed = errors.ErrorCode("store_encode_failed")
	ErrDecodeFailed = errors.ErrorCode("store_decode_failed")
)
