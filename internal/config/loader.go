package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MARKETD_DATABASE_BACKEND
const EnvPrefix = "MARKETD"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (marketd.toml), if present
// 3. .env files in paths.EnvDir
// 4. Environment variables (MARKETD_ prefix)
func LoadConfig(paths ConfigPaths) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load main configuration file
	if err := loadMainConfig(v, paths.Main); err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	// 3. Load .env files into the process environment
	loadEnv(paths.EnvDir)

	// 4. Set up environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindAllEnvVars(v)

	// 5. Unmarshal into struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = paths.Main

	// 6. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadMainConfig loads the main configuration file. A missing file is not
// an error: defaults and the environment are enough to run.
func loadMainConfig(v *viper.Viper, configPath string) error {
	if configPath == "" {
		return nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return nil
}

// loadEnv loads .env then .env.local from dir, later files winning
func loadEnv(dir string) {
	if dir == "" {
		return
	}
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(filepath.Join(dir, name))
	}
}

// bindAllEnvVars binds every key that has a default, so env vars apply even
// when the key never appears in a config file
func bindAllEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}
}

// LoadConfigFromDir loads configuration from a directory
func LoadConfigFromDir(configDir string) (*Config, error) {
	return LoadConfig(ConfigPathsFromDir(configDir))
}

// LoadDefaultConfig loads configuration from default locations
func LoadDefaultConfig() (*Config, error) {
	return LoadConfig(DefaultConfigPaths())
}

// SaveExampleConfig saves an example configuration file
func SaveExampleConfig(configPath string) error {
	v := viper.New()
	setDefaults(v)
	v.Set("market.owner", "admin")

	v.SetConfigFile(configPath)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
