package relationaldb

import (
	"fmt"
	"time"
)

// Supported drivers, as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains database configuration settings
type Config struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`

	// Connection pool settings
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`

	// DefaultTimeout bounds every statement.
	DefaultTimeout time.Duration `json:"default_timeout" yaml:"default_timeout"`
}

// NewConfig creates a new Config with sensible defaults
func NewConfig() *Config {
	return &Config{
		Driver:          DriverSQLite,
		DSN:             "file:payouts.db?_pragma=journal_mode(WAL)",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		DefaultTimeout:  10 * time.Second,
	}
}

// PostgresConfig creates a PostgreSQL-specific configuration
func PostgresConfig(dsn string) *Config {
	config := NewConfig()
	config.Driver = DriverPostgres
	config.DSN = dsn
	config.MaxOpenConns = 16
	config.MaxIdleConns = 4
	return config
}

// SQLiteConfig creates a SQLite-specific configuration
func SQLiteConfig(dsn string) *Config {
	config := NewConfig()
	config.DSN = dsn
	return config
}

// Validate checks the configuration for common errors
func (c *Config) Validate() error {
	switch c.Driver {
	case "postgres", "postgresql":
		c.Driver = DriverPostgres
	case "sqlite", "sqlite3":
		c.Driver = DriverSQLite
	default:
		return fmt.Errorf("%w: %s", ErrInvalidDriver, c.Driver)
	}

	if c.DSN == "" {
		return ErrMissingDSN
	}
	if c.MaxOpenConns < 0 {
		return ErrInvalidMaxOpenConns
	}
	if c.MaxIdleConns < 0 {
		return ErrInvalidMaxIdleConns
	}
	if c.MaxOpenConns > 0 && c.MaxIdleConns > c.MaxOpenConns {
		return ErrMaxIdleExceedsMaxOpen
	}
	if c.DefaultTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
