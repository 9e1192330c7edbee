package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveApply(t *testing.T) {
	m := New()
	m.ObserveApply("Buy", tx.TesSUCCESS, time.Millisecond)
	m.ObserveApply("Buy", tx.TecCOOLDOWN_ACTIVE, time.Millisecond)
	m.ObserveApply("Buy", tx.TesSUCCESS, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `marketd_tx_applied_total{result="tesSUCCESS",type="Buy"} 2`)
	assert.Contains(t, body, `marketd_tx_applied_total{result="tecCOOLDOWN_ACTIVE",type="Buy"} 1`)
	assert.Contains(t, body, `marketd_tx_apply_seconds_count{type="Buy"} 3`)
}

func TestObservePayoutAndEvents(t *testing.T) {
	m := New()
	m.ObservePayout("sale", "paid", 1)
	m.ObservePayout("royalty", "failed", 6)
	require.NoError(t, m.Append(make([]tx.Event, 3)))

	body := scrape(t, m)
	assert.Contains(t, body, `marketd_payouts_total{reason="royalty",status="failed"} 1`)
	assert.Contains(t, body, `marketd_payout_attempts_count 2`)
	assert.Contains(t, body, `marketd_events_appended_total 3`)
}

func TestRegisterGauge(t *testing.T) {
	m := New()
	m.RegisterGauge(WebsocketClientsName, "Connected websocket clients", func() float64 { return 4 })
	assert.Contains(t, scrape(t, m), "marketd_websocket_clients 4")
}
