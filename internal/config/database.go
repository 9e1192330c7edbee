package config

import (
	"fmt"
	"strings"
)

// Valid [database] backends
var validBackends = []string{"pebble", "leveldb", "bbolt", "memory"}

// Valid [journal] drivers
var validJournalDrivers = []string{"sqlite", "postgres", "none"}

// DatabaseConfig represents the [database] section
// Configures the key-value store holding ledger state and the event log
type DatabaseConfig struct {
	Backend    string `toml:"backend" mapstructure:"backend"`
	Path       string `toml:"path" mapstructure:"path"`
	CacheSize  int64  `toml:"cache_size" mapstructure:"cache_size"`   // backend block cache in bytes
	EntryCache int    `toml:"entry_cache" mapstructure:"entry_cache"` // decoded entries kept in the LRU
}

// JournalConfig represents the [journal] section
// Configures the relational payout journal
type JournalConfig struct {
	Driver       string `toml:"driver" mapstructure:"driver"`
	DSN          string `toml:"dsn" mapstructure:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns" mapstructure:"max_open_conns"`
}

// Validate performs validation on the database configuration
func (d *DatabaseConfig) Validate() error {
	if !containsSlice(validBackends, d.Backend) {
		return fmt.Errorf("invalid backend: %s (valid options: %s)", d.Backend, strings.Join(validBackends, ", "))
	}
	if d.Backend != "memory" && d.Path == "" {
		return fmt.Errorf("path is required for backend %s", d.Backend)
	}
	if d.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", d.CacheSize)
	}
	if d.EntryCache < 0 {
		return fmt.Errorf("entry_cache must be non-negative, got %d", d.EntryCache)
	}
	return nil
}

// Validate performs validation on the journal configuration
func (j *JournalConfig) Validate() error {
	if !containsSlice(validJournalDrivers, j.Driver) {
		return fmt.Errorf("invalid driver: %s (valid options: %s)", j.Driver, strings.Join(validJournalDrivers, ", "))
	}
	if j.Driver != "none" && j.DSN == "" {
		return fmt.Errorf("dsn is required for driver %s", j.Driver)
	}
	if j.MaxOpenConns < 0 {
		return fmt.Errorf("max_open_conns must be non-negative, got %d", j.MaxOpenConns)
	}
	return nil
}

func containsSlice(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
