// Package metrics exposes prometheus collectors for the engine and the
// payout dispatcher.
package metrics

import (
	"net/http"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names
const (
	TxAppliedCounterName = "marketd_tx_applied_total"
	TxApplyHistogramName = "marketd_tx_apply_seconds"
	PayoutCounterName    = "marketd_payouts_total"
	PayoutAttemptsName   = "marketd_payout_attempts"
	EventsAppendedName   = "marketd_events_appended_total"
	WebsocketClientsName = "marketd_websocket_clients"
)

// Metrics owns a registry and the marketd collectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	txApplied      *prometheus.CounterVec
	txApply        *prometheus.HistogramVec
	payouts        *prometheus.CounterVec
	payoutAttempts prometheus.Histogram
	events         prometheus.Counter
}

// New creates the collectors and registers them, together with the Go
// and process collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		txApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TxAppliedCounterName,
			Help: "Number of applied transactions, by type and result code",
		}, []string{"type", "result"}),
		txApply: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    TxApplyHistogramName,
			Help:    "Time to apply a transaction, committed or not",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"type"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PayoutCounterName,
			Help: "Number of finished payouts, by reason and final status",
		}, []string{"reason", "status"}),
		payoutAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    PayoutAttemptsName,
			Help:    "Attempts needed to finish a payout",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Name: EventsAppendedName,
			Help: "Number of events appended to the log",
		}),
	}

	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m.registry.MustRegister(m.txApplied, m.txApply, m.payouts, m.payoutAttempts, m.events)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveApply implements tx.Observer.
func (m *Metrics) ObserveApply(txType string, result tx.Result, elapsed time.Duration) {
	m.txApplied.WithLabelValues(txType, result.String()).Inc()
	m.txApply.WithLabelValues(txType).Observe(elapsed.Seconds())
}

// ObservePayout records a payout that reached a final state.
func (m *Metrics) ObservePayout(reason, status string, attempts int) {
	m.payouts.WithLabelValues(reason, status).Inc()
	m.payoutAttempts.Observe(float64(attempts))
}

// Append implements tx.EventSink; it only counts.
func (m *Metrics) Append(events []tx.Event) error {
	m.events.Add(float64(len(events)))
	return nil
}

// RegisterGauge exposes a value computed on scrape, such as the number of
// connected websocket clients.
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}
