package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/query"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/admin"
	"github.com/LeJamon/goMarketd/internal/core/tx/token"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// TestEnv manages an in-memory marketplace for transaction testing.
// It wires a ledger, an engine, an event log and a payment recorder
// together and exposes short helpers for the common setup steps.
type TestEnv struct {
	t        *testing.T
	ledger   *ledger.Ledger
	engine   *tx.Engine
	clock    *ManualClock
	sink     *events.MemorySink
	payments *paymentRecorder

	// owner is the account passed to Init, used to submit admin transactions.
	owner string
}

// EnvOption customizes a TestEnv.
type EnvOption func(*envOptions)

type envOptions struct {
	config tx.EngineConfig
	clock  *ManualClock
}

// WithBidFee overrides the flat bid fee.
func WithBidFee(fee uint64) EnvOption {
	return func(o *envOptions) { o.config.BidFee.SetUint64(fee) }
}

// WithCooldown overrides the whitelisted-purchase cooldown.
func WithCooldown(d time.Duration) EnvOption {
	return func(o *envOptions) { o.config.Cooldown = d }
}

// WithClock makes the environment use c instead of a fresh ManualClock.
func WithClock(c *ManualClock) EnvOption {
	return func(o *envOptions) { o.clock = c }
}

// NewTestEnv creates a new test environment over an empty in-memory ledger.
func NewTestEnv(t *testing.T, opts ...EnvOption) *TestEnv {
	t.Helper()

	o := envOptions{config: tx.DefaultEngineConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewManualClock()
	}

	l, err := ledger.New(memory.NewDB(), 0)
	require.NoError(t, err, "Failed to create ledger")

	env := &TestEnv{
		t:        t,
		ledger:   l,
		clock:    o.clock,
		sink:     events.NewMemorySink(),
		payments: &paymentRecorder{},
	}
	env.engine = tx.NewEngine(l, o.config,
		tx.WithClock(env.clock),
		tx.WithEventSink(env.sink),
		tx.WithPaymentHandler(env.payments),
	)
	return env
}

// Submit applies a transaction and returns its result.
func (e *TestEnv) Submit(transaction tx.Transaction) TxResult {
	e.t.Helper()
	return newTxResult(e.engine.Apply(transaction))
}

// Init installs owner as the contract owner. It fails the test on error.
func (e *TestEnv) Init(owner string) {
	e.t.Helper()
	result := e.Submit(admin.NewInit(owner, owner))
	RequireTxSuccess(e.t, result)
	e.owner = owner
}

// Owner returns the account passed to Init.
func (e *TestEnv) Owner() string {
	return e.owner
}

// Mint creates token with supply units held by holder, submitted by the
// contract owner. It fails the test on error.
func (e *TestEnv) Mint(holder, tokenID string, supply uint64) {
	e.t.Helper()
	e.requireOwner()
	RequireTxSuccess(e.t, e.Submit(token.NewMintTo(e.owner, holder, tokenID, U(supply))))
}

// MintWithRoyalty is Mint with a royalty percentage paid to holder on every sale.
func (e *TestEnv) MintWithRoyalty(holder, tokenID string, supply uint64, royalty uint8) {
	e.t.Helper()
	e.requireOwner()
	RequireTxSuccess(e.t, e.Submit(token.NewMintToWithRoyalty(e.owner, holder, tokenID, U(supply), royalty)))
}

func (e *TestEnv) requireOwner() {
	e.t.Helper()
	require.NotEmpty(e.t, e.owner, "Init must be called before minting")
}

// Query returns a read service over committed state.
func (e *TestEnv) Query() *query.Service {
	return query.New(e.engine.View())
}

// Engine returns the underlying engine.
func (e *TestEnv) Engine() *tx.Engine {
	return e.engine
}

// Balance returns acct's balance of tokenID. It fails the test if the
// balance does not fit in a uint64.
func (e *TestEnv) Balance(tokenID, acct string) uint64 {
	e.t.Helper()
	b, err := e.Query().BalanceOf(tokenID, acct)
	require.NoError(e.t, err)
	return toUint64(e.t, b)
}

// Supply returns the outstanding supply of tokenID.
func (e *TestEnv) Supply(tokenID string) uint64 {
	e.t.Helper()
	s, err := e.Query().TotalSupply(tokenID)
	require.NoError(e.t, err)
	return toUint64(e.t, s)
}

// Holdings returns the sum of every account's balance of tokenID.
func (e *TestEnv) Holdings(tokenID string) uint64 {
	e.t.Helper()
	holders, err := e.Query().Holders(tokenID)
	require.NoError(e.t, err)
	var sum uint256.Int
	for i := range holders {
		sum.Add(&sum, &holders[i].Balance)
	}
	return toUint64(e.t, &sum)
}

// Listing returns seller's listed quantity and unit price of tokenID.
// The last value is false when there is no listing.
func (e *TestEnv) Listing(seller, tokenID string) (qty, price uint64, ok bool) {
	e.t.Helper()
	o, ok, err := e.Query().GetMarketData(seller, tokenID)
	require.NoError(e.t, err)
	if !ok {
		return 0, 0, false
	}
	return toUint64(e.t, &o.Quantity), toUint64(e.t, &o.UnitPrice), true
}

// Bid returns bidder's open quantity and unit price on tokenID.
// The last value is false when there is no bid.
func (e *TestEnv) Bid(bidder, tokenID string) (qty, price uint64, ok bool) {
	e.t.Helper()
	o, ok, err := e.Query().GetBidMarketData(bidder, tokenID)
	require.NoError(e.t, err)
	if !ok {
		return 0, 0, false
	}
	return toUint64(e.t, &o.Quantity), toUint64(e.t, &o.UnitPrice), true
}

// Events returns every committed event in log order.
func (e *TestEnv) Events() []tx.Event {
	return e.sink.All()
}

// Payments returns every payment instruction handed to the payment handler.
func (e *TestEnv) Payments() []tx.PaymentInstruction {
	return e.payments.all()
}

// TakePayments returns the recorded payment instructions and clears them.
func (e *TestEnv) TakePayments() []tx.PaymentInstruction {
	return e.payments.take()
}

// Clock returns the environment clock.
func (e *TestEnv) Clock() *ManualClock {
	return e.clock
}

// Now returns the current clock reading without stepping it.
func (e *TestEnv) Now() time.Time {
	return e.clock.Peek()
}

// AdvanceTime moves the clock forward by d.
func (e *TestEnv) AdvanceTime(d time.Duration) {
	e.clock.Advance(d)
}

func toUint64(t *testing.T, v *uint256.Int) uint64 {
	t.Helper()
	require.True(t, v.IsUint64(), "value %s overflows uint64", v.Dec())
	return v.Uint64()
}

// paymentRecorder collects payment instructions in arrival order.
type paymentRecorder struct {
	mu  sync.Mutex
	got []tx.PaymentInstruction
}

func (r *paymentRecorder) HandlePayments(p []tx.PaymentInstruction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, p...)
}

func (r *paymentRecorder) all() []tx.PaymentInstruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tx.PaymentInstruction(nil), r.got...)
}

func (r *paymentRecorder) take() []tx.PaymentInstruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.got
	r.got = nil
	return out
}
