// Package payout executes the payment instructions produced by committed
// transactions.
//
// Instructions are journaled as pending before any attempt, then paid by a
// worker pool with exponential backoff. A payout that keeps failing is
// marked failed; it never rolls back the ledger mutation that produced it.
//
// HandlePayments runs inside the engine's commit, so it never waits for
// queue space. When the queue is full the payout stays pending in the
// journal and is picked up by the next Resume.
package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/relationaldb"
	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Config controls concurrency and retries.
type Config struct {
	Workers         int
	QueueSize       int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultConfig returns the dispatcher defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         4,
		QueueSize:       1024,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  5 * time.Minute,
	}
}

// Observer is told about every payout that reached a final state for this
// run: paid, failed, or pending when the payer deferred it.
type Observer interface {
	ObservePayout(reason, status string, attempts int)
}

// Dispatcher implements tx.PaymentHandler.
type Dispatcher struct {
	ctx      context.Context
	pool     pond.Pool
	payer    Payer
	journal  relationaldb.PayoutRepository
	config   Config
	observer Observer
	newID    func() string
	log      *zap.Logger
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithObserver sets the payout observer, used for metrics
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

// NewDispatcher starts the worker pool. It stops accepting work when ctx
// is cancelled.
func NewDispatcher(ctx context.Context, payer Payer, journal relationaldb.PayoutRepository, config Config, opts ...Option) *Dispatcher {
	def := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = def.InitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = def.MaxInterval
	}
	if config.MaxElapsedTime <= 0 {
		config.MaxElapsedTime = def.MaxElapsedTime
	}

	if journal == nil {
		journal = discardJournal{}
	}

	d := &Dispatcher{
		ctx:     ctx,
		payer:   payer,
		journal: journal,
		config:  config,
		newID:   func() string { return uuid.New().String() },
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.pool = pond.NewPool(
		config.Workers,
		pond.WithQueueSize(config.QueueSize),
		pond.WithNonBlocking(true),
		pond.WithContext(ctx),
	)
	return d
}

// HandlePayments journals each instruction and queues it for payment.
func (d *Dispatcher) HandlePayments(payments []tx.PaymentInstruction) {
	for _, p := range payments {
		rec := &relationaldb.Payout{
			ID:        d.newID(),
			Reason:    string(p.Reason),
			Recipient: p.To,
			Token:     p.Token,
			Amount:    p.Amount.Dec(),
			Status:    relationaldb.StatusPending,
		}
		if err := d.journal.Record(d.ctx, rec); err != nil {
			// Still try to pay; the outcome just cannot be journaled.
			d.log.Error("failed to journal payout",
				zap.String("id", rec.ID),
				zap.String("to", p.To),
				zap.String("amount", rec.Amount),
				zap.Error(err),
			)
		}
		d.submit(rec.ID, p)
	}
}

// Resume re-queues every pending payout found in the journal, such as
// instructions left over from a previous run.
func (d *Dispatcher) Resume(ctx context.Context) (int, error) {
	pending, err := d.journal.List(ctx, relationaldb.PayoutFilter{Status: relationaldb.StatusPending})
	if err != nil {
		return 0, fmt.Errorf("list pending payouts: %w", err)
	}
	for _, rec := range pending {
		amount, err := uint256.FromDecimal(rec.Amount)
		if err != nil {
			d.log.Warn("skipping payout with bad amount", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		d.submit(rec.ID, tx.PaymentInstruction{
			Reason: tx.PaymentReason(rec.Reason),
			To:     rec.Recipient,
			Token:  rec.Token,
			Amount: *amount,
		})
	}
	return len(pending), nil
}

// Stop waits for queued payouts to finish and stops the pool.
func (d *Dispatcher) Stop() {
	d.pool.StopAndWait()
}

func (d *Dispatcher) submit(id string, p tx.PaymentInstruction) {
	task := d.pool.Submit(func() {
		d.execute(id, p)
	})
	select {
	case <-task.Done():
		if err := task.Wait(); errors.Is(err, pond.ErrQueueFull) {
			d.log.Warn("payout queue full, left pending",
				zap.String("id", id),
				zap.String("to", p.To),
				zap.String("amount", p.Amount.Dec()),
			)
			if d.observer != nil {
				d.observer.ObservePayout(string(p.Reason), string(relationaldb.StatusPending), 0)
			}
		}
	default:
	}
}

func (d *Dispatcher) execute(id string, p tx.PaymentInstruction) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.config.InitialInterval
	b.MaxInterval = d.config.MaxInterval
	b.MaxElapsedTime = d.config.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	attempts := 0
	operation := func() error {
		attempts++
		err := d.payer.Pay(d.ctx, id, p)
		if errors.Is(err, ErrDeferred) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		d.log.Warn("payout failed, retrying",
			zap.String("id", id),
			zap.Int("attempt", attempts),
			zap.Duration("next_retry_in", next),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(b, d.ctx), notify)
	status := relationaldb.StatusPaid
	switch {
	case err == nil:
		if jerr := d.journal.MarkPaid(d.ctx, id, attempts); jerr != nil {
			d.log.Error("failed to mark payout paid", zap.String("id", id), zap.Error(jerr))
		}
	case errors.Is(err, ErrDeferred):
		status = relationaldb.StatusPending
	case d.ctx.Err() != nil:
		// Shutting down; Resume picks it up on the next start.
		status = relationaldb.StatusPending
		d.log.Info("payout interrupted", zap.String("id", id), zap.Int("attempts", attempts))
	default:
		status = relationaldb.StatusFailed
		d.log.Error("payout failed",
			zap.String("id", id),
			zap.String("reason", string(p.Reason)),
			zap.String("to", p.To),
			zap.String("amount", p.Amount.Dec()),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		if jerr := d.journal.MarkFailed(d.ctx, id, attempts, err.Error()); jerr != nil {
			d.log.Error("failed to mark payout failed", zap.String("id", id), zap.Error(jerr))
		}
	}
	if d.observer != nil {
		d.observer.ObservePayout(string(p.Reason), string(status), attempts)
	}
}

// discardJournal stands in when no journal is configured.
type discardJournal struct{}

func (discardJournal) Record(context.Context, *relationaldb.Payout) error { return nil }
func (discardJournal) MarkPaid(context.Context, string, int) error        { return nil }
func (discardJournal) MarkFailed(context.Context, string, int, string) error {
	return nil
}
func (discardJournal) Get(context.Context, string) (*relationaldb.Payout, error) {
	return nil, relationaldb.ErrPayoutNotFound
}
func (discardJournal) List(context.Context, relationaldb.PayoutFilter) ([]relationaldb.Payout, error) {
	return nil, nil
}
func (discardJournal) Outstanding(context.Context) (map[relationaldb.PayoutStatus]int64, error) {
	return map[relationaldb.PayoutStatus]int64{}, nil
}
func (discardJournal) Ping(context.Context) error { return nil }
func (discardJournal) Close() error               { return nil }
