package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/all"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *events.MemorySink) {
	t.Helper()
	l, err := ledger.New(memory.NewDB(), 128)
	require.NoError(t, err)
	sink := events.NewMemorySink()
	engine := tx.NewEngine(l, tx.DefaultEngineConfig(), tx.WithEventSink(sink))
	services := &rpc_types.ServiceContainer{
		Engine:    engine,
		Events:    sink,
		Version:   "test",
		StartTime: time.Now(),
	}
	return NewServer(services, 5*time.Second, nil), sink
}

// call posts method with params and returns the decoded result object.
func call(t *testing.T, h http.Handler, remote, method string, params interface{}) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{"method": method}
	if params != nil {
		body["params"] = []interface{}{params}
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Result
}

const (
	local  = "127.0.0.1:5005"
	remote = "192.0.2.10:5005"
)

func TestSubmitAndQuery(t *testing.T) {
	s, sink := newTestServer(t)

	res := call(t, s, local, "submit", map[string]interface{}{
		"tx_json": map[string]interface{}{
			"TransactionType": "Init",
			"Account":         "deployer",
			"Owner":           "alice",
		},
	})
	require.Equal(t, "success", res["status"])
	assert.Equal(t, "tesSUCCESS", res["engine_result"])
	assert.Equal(t, true, res["applied"])

	res = call(t, s, local, "submit", map[string]interface{}{
		"tx_json": map[string]interface{}{
			"TransactionType": "MintTo",
			"Account":         "alice",
			"Owner":           "bob",
			"Token":           "1",
			"Supply":          "100",
		},
	})
	require.Equal(t, "tesSUCCESS", res["engine_result"])
	events, ok := res["events"].([]interface{})
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, []interface{}{"mint", "bob", "1", "100"}, events[0])

	res = call(t, s, remote, "balance_of", map[string]interface{}{"token": "1", "account": "bob"})
	require.Equal(t, "success", res["status"])
	assert.Equal(t, "100", res["balance"])

	res = call(t, s, remote, "total_supply", map[string]interface{}{"token": "1"})
	assert.Equal(t, "100", res["supply"])

	res = call(t, s, remote, "contract_info", nil)
	assert.Equal(t, "alice", res["owner"])

	n, err := sink.Len()
	require.NoError(t, err)
	res = call(t, s, remote, "event_log", map[string]interface{}{"start": 0, "limit": 1})
	assert.EqualValues(t, n, res["count"])
	assert.Len(t, res["events"], 1)
	if n > 1 {
		assert.EqualValues(t, 1, res["marker"])
	}
}

func TestSubmitRejected(t *testing.T) {
	s, sink := newTestServer(t)

	// Nobody owns the contract yet, so minting is refused
	res := call(t, s, local, "submit", map[string]interface{}{
		"tx_json": map[string]interface{}{
			"TransactionType": "MintTo",
			"Account":         "mallory",
			"Owner":           "mallory",
			"Token":           "1",
			"Supply":          "5",
		},
	})
	require.Equal(t, "success", res["status"])
	assert.Equal(t, false, res["applied"])
	assert.NotEqual(t, "tesSUCCESS", res["engine_result"])

	n, err := sink.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitRequiresTrustedCaller(t *testing.T) {
	s, _ := newTestServer(t)

	submit := func(addr string, txJSON map[string]interface{}) map[string]interface{} {
		return call(t, s, addr, "submit", map[string]interface{}{"tx_json": txJSON})
	}

	res := submit(local, map[string]interface{}{"TransactionType": "Init", "Account": "deployer", "Owner": "alice"})
	require.Equal(t, "tesSUCCESS", res["engine_result"])
	res = submit(local, map[string]interface{}{
		"TransactionType": "MintTo", "Account": "alice", "Owner": "bob", "Token": "1", "Supply": "10",
	})
	require.Equal(t, "tesSUCCESS", res["engine_result"])

	// A remote caller naming another account is refused before the engine runs
	res = submit(remote, map[string]interface{}{
		"TransactionType": "TransferFrom", "Account": "bob", "Owner": "bob",
		"NewOwner": "mallory", "Token": "1", "Quantity": "10",
	})
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "commandUntrusted", res["error"])

	res = submit(remote, map[string]interface{}{
		"TransactionType": "MintTo", "Account": "alice", "Owner": "mallory", "Token": "2", "Supply": "10",
	})
	assert.Equal(t, "commandUntrusted", res["error"])

	res = call(t, s, remote, "balance_of", map[string]interface{}{"token": "1", "account": "bob"})
	assert.Equal(t, "10", res["balance"])
	res = call(t, s, remote, "balance_of", map[string]interface{}{"token": "1", "account": "mallory"})
	assert.Equal(t, "0", res["balance"])
	res = call(t, s, remote, "total_supply", map[string]interface{}{"token": "2"})
	assert.Equal(t, "0", res["supply"])
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		addr   string
		method string
		params interface{}
		code   string
	}{
		{"unknown method", remote, "no_such_method", nil, "unknownCmd"},
		{"remote submit", remote, "submit", map[string]interface{}{}, "commandUntrusted"},
		{"missing tx_json", local, "submit", map[string]interface{}{}, "invalidParams"},
		{"unknown tx type", local, "submit", map[string]interface{}{
			"tx_json": map[string]interface{}{"TransactionType": "Teleport", "Account": "a"},
		}, "invalidParams"},
		{"missing account", remote, "balance_of", map[string]interface{}{"token": "1"}, "invalidParams"},
		{"token not found", remote, "token_info", map[string]interface{}{"token": "404"}, "objectNotFound"},
		{"token too long", remote, "total_supply", map[string]interface{}{"token": strings.Repeat("x", keylet.MaxTokenLength+1)}, "invalidParams"},
		{"batch token too long", remote, "balance_of_batch", map[string]interface{}{
			"tokens": []string{strings.Repeat("x", keylet.MaxTokenLength+1)}, "accounts": []string{"bob"},
		}, "invalidParams"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, s, tt.addr, tt.method, tt.params)
			assert.Equal(t, "error", res["status"])
			assert.Equal(t, tt.code, res["error"])
			req, ok := res["request"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.method, req["command"])
		})
	}
}

func TestAdminMethodsRequireLoopback(t *testing.T) {
	s, _ := newTestServer(t)

	res := call(t, s, remote, "payouts", nil)
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "commandUntrusted", res["error"])

	// Allowed from loopback, but no journal is configured
	res = call(t, s, local, "payouts", nil)
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "notEnabled", res["error"])
}

func TestGetDefaultsToServerInfo(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler(nil, nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Result["status"])
	info, ok := body.Result["info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test", info["build_version"])
	assert.Contains(t, info["transaction_types"], "Buy")
}

func TestInvalidJSON(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "jsonInvalid", resp.Result["error"])
}
