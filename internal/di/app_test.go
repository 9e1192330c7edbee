package di

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/query"
	"github.com/LeJamon/goMarketd/internal/core/tx/token"
	"github.com/LeJamon/goMarketd/internal/storage/relationaldb"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(config.ConfigPaths{})
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.Database.Backend = "pebble"
	cfg.Database.Path = filepath.Join(dir, "db")
	cfg.Journal.DSN = "file:" + filepath.Join(dir, "payouts.db")
	cfg.Market.Owner = "alice"
	return cfg
}

func TestAppStartInstallsOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(ctx, testConfig(t), nil, "test")
	require.NoError(t, app.Start(ctx))
	defer app.Close()

	engine, err := app.provider.Engine()
	require.NoError(t, err)
	owner, err := query.New(engine.View()).Owner()
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	res := engine.Apply(token.NewMintTo("alice", "bob", "1", uint256.NewInt(10)))
	require.True(t, res.Applied, res.Message)

	journal, err := Resolve[relationaldb.PayoutRepository](app.Container(), ServiceJournal)
	require.NoError(t, err)
	require.NotNil(t, journal)
	require.NoError(t, journal.Ping(ctx))
}

func TestAppServesRPCAndMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(ctx, testConfig(t), nil, "test")
	require.NoError(t, app.Start(ctx))
	defer app.Close()

	handler, err := Resolve[http.Handler](app.Container(), ServiceHTTPHandler)
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	body, _ := json.Marshal(map[string]interface{}{
		"method": "contract_info",
	})
	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "alice", out.Result["owner"])

	mresp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	text, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), "marketd_tx_applied_total")
	assert.Contains(t, string(text), "marketd_websocket_clients")
}

func TestAppReopenKeepsOwner(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	app := NewApp(ctx, cfg, nil, "test")
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Close())

	// A different configured owner does not replace the installed one
	cfg.Market.Owner = "carol"
	app = NewApp(ctx, cfg, nil, "test")
	require.NoError(t, app.Start(ctx))
	defer app.Close()

	engine, err := app.provider.Engine()
	require.NoError(t, err)
	owner, err := query.New(engine.View()).Owner()
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}
