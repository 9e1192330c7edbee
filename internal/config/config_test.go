package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(ConfigPaths{Main: filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5005", config.Server.Addr)
	assert.Equal(t, "pebble", config.Database.Backend)
	assert.Equal(t, 30*time.Second, config.Market.Cooldown)
	fee, err := config.Market.BidFeeValue()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), fee.Uint64())
	assert.True(t, config.Events.Persist)
}

func TestLoadConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	mainConfigContent := `
[server]
addr = "0.0.0.0:8080"

[database]
backend = "bbolt"
path = "/tmp/marketd"

[market]
owner = "admin"
bid_fee = "250"
cooldown = "1m"

[journal]
driver = "none"
`
	mainConfigPath := filepath.Join(tempDir, "marketd.toml")
	require.NoError(t, os.WriteFile(mainConfigPath, []byte(mainConfigContent), 0644))

	config, err := LoadConfig(ConfigPaths{Main: mainConfigPath})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", config.Server.Addr)
	assert.Equal(t, "bbolt", config.Database.Backend)
	assert.Equal(t, "admin", config.Market.Owner)
	assert.Equal(t, time.Minute, config.Market.Cooldown)
	assert.Equal(t, "none", config.Journal.Driver)
	assert.Equal(t, mainConfigPath, config.GetConfigPath())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("MARKETD_DATABASE_BACKEND", "memory")
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".env"), []byte("MARKETD_MARKET_OWNER=envadmin\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("MARKETD_MARKET_OWNER") })

	config, err := LoadConfig(ConfigPaths{EnvDir: tempDir})
	require.NoError(t, err)
	assert.Equal(t, "memory", config.Database.Backend)
	assert.Equal(t, "envadmin", config.Market.Owner)
}

func TestValidateConfig(t *testing.T) {
	config, err := LoadConfig(ConfigPaths{})
	require.NoError(t, err)

	bad := *config
	bad.Database.Backend = "rocksdb"
	assert.Error(t, ValidateConfig(&bad))

	bad = *config
	bad.Market.BidFee = "-1"
	assert.Error(t, ValidateConfig(&bad))

	bad = *config
	bad.Journal = JournalConfig{Driver: "postgres"}
	assert.Error(t, ValidateConfig(&bad))

	bad = *config
	bad.Events.NATSURL = "nats://localhost:4222"
	bad.Events.Stream = ""
	assert.Error(t, ValidateConfig(&bad))

	bad = *config
	bad.Server.Addr = "nohost"
	assert.Error(t, ValidateConfig(&bad))
}

func TestSaveExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.toml")
	require.NoError(t, SaveExampleConfig(path))

	config, err := LoadConfig(ConfigPaths{Main: path})
	require.NoError(t, err)
	assert.Equal(t, "admin", config.Market.Owner)
}
