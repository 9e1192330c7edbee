package config

import (
	"path/filepath"
)

// Config represents the complete marketd configuration
type Config struct {
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	Database DatabaseConfig `toml:"database" mapstructure:"database"`
	Journal  JournalConfig  `toml:"journal" mapstructure:"journal"`
	Market   MarketConfig   `toml:"market" mapstructure:"market"`
	Payout   PayoutConfig   `toml:"payout" mapstructure:"payout"`
	Events   EventsConfig   `toml:"events" mapstructure:"events"`
	Log      LogConfig      `toml:"log" mapstructure:"log"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// ConfigPaths holds the paths configuration is read from
type ConfigPaths struct {
	Main   string // Path to main config file (marketd.toml); empty uses defaults and env only
	EnvDir string // Directory searched for .env and .env.local
}

// DefaultConfigPaths returns the default configuration file paths
func DefaultConfigPaths() ConfigPaths {
	return ConfigPaths{
		Main:   "marketd.toml",
		EnvDir: ".",
	}
}

// ConfigPathsFromDir returns configuration paths for a specific directory
func ConfigPathsFromDir(configDir string) ConfigPaths {
	return ConfigPaths{
		Main:   filepath.Join(configDir, "marketd.toml"),
		EnvDir: configDir,
	}
}

// GetConfigPath returns the path to the main configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
