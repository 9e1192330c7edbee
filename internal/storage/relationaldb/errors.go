package relationaldb

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidDriver         = errors.New("invalid database driver")
	ErrMissingDSN            = errors.New("database DSN is required")
	ErrInvalidMaxOpenConns   = errors.New("max open connections must be >= 0")
	ErrInvalidMaxIdleConns   = errors.New("max idle connections must be >= 0")
	ErrMaxIdleExceedsMaxOpen = errors.New("max idle connections cannot exceed max open connections")
	ErrInvalidTimeout        = errors.New("timeout must be positive")

	// Connection errors
	ErrDatabaseClosed = errors.New("database connection is closed")

	// Data errors
	ErrPayoutNotFound = errors.New("payout not found")
	ErrInvalidStatus  = errors.New("invalid payout status")
)

// ErrorType represents different categories of database errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeConfiguration
	ErrorTypeConnection
	ErrorTypeQuery
	ErrorTypeSchema
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeConfiguration:
		return "configuration"
	case ErrorTypeConnection:
		return "connection"
	case ErrorTypeQuery:
		return "query"
	case ErrorTypeSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// DatabaseError provides detailed information about database errors
type DatabaseError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

// Error implements the error interface
func (e *DatabaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause error
func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(errorType ErrorType, operation, message string, cause error) *DatabaseError {
	return &DatabaseError{
		Type:      errorType,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(operation, message string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeConfiguration, operation, message, cause)
}

// NewConnectionError creates a connection error
func NewConnectionError(operation, message string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeConnection, operation, message, cause)
}

// NewQueryError creates a query error
func NewQueryError(operation, message string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeQuery, operation, message, cause)
}

// NewSchemaError creates a schema error
func NewSchemaError(operation, message string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeSchema, operation, message, cause)
}
