package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

type obj = map[string]interface{}

func saleFixture(t *testing.T, expectedBuy string) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "txs.json", obj{"transactions": []obj{
		{"index": 0, "tx_json": obj{"TransactionType": "Init", "Account": "alice", "Owner": "alice"}, "expected": "tesSUCCESS"},
		{"index": 1, "tx_json": obj{"TransactionType": "MintToWithRoyalty", "Account": "alice", "Owner": "dave", "Token": "7", "Supply": "10", "Royalty": 5}, "expected": "tesSUCCESS"},
		{"index": 2, "tx_json": obj{"TransactionType": "TransferFrom", "Account": "dave", "Owner": "dave", "NewOwner": "bob", "Token": "7", "Quantity": "4"}, "expected": "tesSUCCESS"},
		{"index": 3, "tx_json": obj{"TransactionType": "UpdateMarketData", "Account": "bob", "Seller": "bob", "Token": "7", "Quantity": "4", "UnitPrice": "100"}, "expected": "tesSUCCESS"},
		{"index": 4, "time": 1700000000, "tx_json": obj{"TransactionType": "Buy", "Account": "carol", "Seller": "bob", "Token": "7", "Quantity": "2", "Value": "200"}, "expected": expectedBuy},
	}})
	events := uint64(5)
	writeFixture(t, dir, "expected.json", obj{
		"balances": []obj{
			{"token": "7", "account": "bob", "balance": "2"},
			{"token": "7", "account": "carol", "balance": "2"},
			{"token": "7", "account": "dave", "balance": "6"},
		},
		"events": events,
		"payments": []obj{
			{"reason": "sale", "to": "bob", "token": "7", "amount": "180"},
			{"reason": "royalty", "to": "dave", "token": "7", "amount": "10"},
			{"reason": "treasury", "to": "alice", "token": "7", "amount": "10"},
		},
	})
	return dir
}

func TestReplayFixture(t *testing.T) {
	dir := saleFixture(t, "tesSUCCESS")

	result, err := replayFixture(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)
	assert.Len(t, result.TxResults, 5)
	assert.Equal(t, 5, result.Results["tesSUCCESS"])
	assert.EqualValues(t, 5, result.Events)

	var out bytes.Buffer
	printReplay(&out, result, true)
	assert.Contains(t, out.String(), "[OK] replay")
	assert.Contains(t, out.String(), "#4 Buy by carol: tesSUCCESS")
}

func TestReplayReportsMismatch(t *testing.T) {
	dir := saleFixture(t, "tecPAYMENT_MISMATCH")

	result, err := replayFixture(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "got tesSUCCESS, want tecPAYMENT_MISMATCH")
}

func TestReplayBadTransaction(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "txs.json", obj{"transactions": []obj{
		{"index": 0, "tx_json": obj{"TransactionType": "Teleport", "Account": "alice"}},
	}})

	result, err := replayFixture(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.TxResults[0].Error)
}

func TestReplayMissingFixture(t *testing.T) {
	_, err := replayFixture(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "txs.json")
}
