package database

import "errors"

var (
	// ErrDBClosed is returned when trying to operate on a closed database
	ErrDBClosed = errors.New("database is closed")

	// ErrKeyNotFound is returned when a key doesn't exist in the database
	ErrKeyNotFound = errors.New("key not found")

	// ErrBatchOperationFailed is returned when a batch operation fails
	ErrBatchOperationFailed = errors.New("batch operation failed")

	// ErrUnknownBackend is returned when a configured backend name is not supported
	ErrUnknownBackend = errors.New("unknown database backend")
)
