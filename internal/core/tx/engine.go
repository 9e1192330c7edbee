package tx

import (
	"strings"
	"sync"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Default engine parameters
const (
	// DefaultCooldown is the minimum gap between two whitelisted purchases by one buyer
	DefaultCooldown = 30 * time.Second

	// DefaultBidFee is the flat, non-refundable fee escrowed with every bid
	DefaultBidFee = 1000
)

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// BidFee is the flat fee added to every bid's required escrow
	BidFee uint256.Int

	// Cooldown is the whitelisted-purchase cooldown window
	Cooldown time.Duration
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BidFee:   *uint256.NewInt(DefaultBidFee),
		Cooldown: DefaultCooldown,
	}
}

// Clock supplies the engine's notion of now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Observer is notified after every Apply, committed or not.
type Observer interface {
	ObserveApply(txType string, result Result, elapsed time.Duration)
}

// ReadView provides read access to ledger state
type ReadView interface {
	// Read reads a ledger entry. Absent entries return (nil, nil).
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k keylet.Keylet) (bool, error)

	// ForEach iterates over entries whose key bytes start with prefix, in key order.
	// If fn returns false, iteration stops early
	ForEach(prefix []byte, fn func(k keylet.Keylet, data []byte) bool) error
}

// LedgerView provides read/write access to ledger state
type LedgerView interface {
	ReadView

	// Insert adds a new entry
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Applied indicates if the transaction was applied to the ledger
	Applied bool

	// Metadata contains the changes made by the transaction
	Metadata *Metadata

	// Events are the log records appended by the transaction
	Events []Event

	// Payments are the payment instructions requested by the transaction
	Payments []PaymentInstruction

	// Message is a human-readable result message
	Message string
}

// Metadata tracks changes made by a transaction
type Metadata struct {
	AffectedEntries   []AffectedEntry `json:"AffectedEntries"`
	TransactionResult string          `json:"TransactionResult"`
}

// AffectedEntry describes one entry created, modified, or deleted
type AffectedEntry struct {
	NodeType  string `json:"NodeType"`
	EntryType string `json:"EntryType"`
	Token     string `json:"Token,omitempty"`
	Account   string `json:"Account,omitempty"`
}

// Engine processes transactions against a ledger. Apply calls are
// serialized; each one either commits every effect or none.
type Engine struct {
	mu       sync.Mutex
	view     LedgerView
	config   EngineConfig
	clock    Clock
	events   EventSink
	payments PaymentHandler
	observer Observer
	log      *zap.Logger
}

// EngineOption customizes an Engine
type EngineOption func(*Engine)

// WithClock sets the clock used for cooldown checks
func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithEventSink sets where committed events are appended
func WithEventSink(s EventSink) EngineOption {
	return func(e *Engine) { e.events = s }
}

// WithPaymentHandler sets who executes payment instructions
func WithPaymentHandler(h PaymentHandler) EngineOption {
	return func(e *Engine) { e.payments = h }
}

// WithObserver sets an apply observer, used for metrics
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates a new transaction engine
func NewEngine(view LedgerView, config EngineConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		view:   view,
		config: config,
		clock:  systemClock{},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// View returns the engine's base view. Reads through it see committed state only.
func (e *Engine) View() ReadView {
	return e.view
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Apply processes a transaction and applies it to the ledger
func (e *Engine) Apply(tx Transaction) ApplyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res := e.apply(tx)

	if e.observer != nil {
		e.observer.ObserveApply(tx.GetCommon().TransactionType, res.Result, time.Since(start))
	}

	if res.Applied {
		e.log.Debug("transaction applied",
			zap.String("type", tx.GetCommon().TransactionType),
			zap.String("account", tx.GetCommon().Account),
			zap.Int("events", len(res.Events)),
			zap.Int("payments", len(res.Payments)),
		)
	} else {
		e.log.Debug("transaction rejected",
			zap.String("type", tx.GetCommon().TransactionType),
			zap.String("account", tx.GetCommon().Account),
			zap.String("result", res.Result.String()),
		)
	}
	return res
}

func (e *Engine) apply(tx Transaction) ApplyResult {
	// Step 1: Preflight checks (syntax validation)
	result := e.preflight(tx)
	if !result.IsSuccess() {
		return ApplyResult{
			Result:  result,
			Message: result.Message(),
		}
	}

	appliable, ok := tx.(Appliable)
	if !ok {
		return ApplyResult{
			Result:  TemUNKNOWN,
			Message: TemUNKNOWN.Message(),
		}
	}

	// Step 2: Apply against a staging table
	table := NewApplyStateTable(e.view)
	common := tx.GetCommon()
	ctx := &ApplyContext{
		View:   table,
		Caller: common.Account,
		Value:  common.Value,
		Now:    e.clock.Now(),
		Config: e.config,
	}

	result = appliable.Apply(ctx)
	if !result.IsSuccess() {
		return ApplyResult{
			Result:  result,
			Message: result.Message(),
		}
	}

	// Step 3: Commit
	metadata, err := table.Apply()
	if err != nil {
		e.log.Error("failed to commit transaction",
			zap.String("type", common.TransactionType),
			zap.Error(err),
		)
		return ApplyResult{
			Result:  TefINTERNAL,
			Message: "failed to commit: " + err.Error(),
		}
	}
	metadata.TransactionResult = result.String()

	// Step 4: Hand side effects to the external collaborators
	if e.events != nil && len(ctx.events) > 0 {
		if err := e.events.Append(ctx.events); err != nil {
			e.log.Error("failed to append events", zap.Error(err))
		}
	}
	if e.payments != nil && len(ctx.payments) > 0 {
		e.payments.HandlePayments(ctx.payments)
	}

	return ApplyResult{
		Result:   result,
		Applied:  true,
		Metadata: metadata,
		Events:   ctx.events,
		Payments: ctx.payments,
		Message:  result.Message(),
	}
}

func (e *Engine) preflight(tx Transaction) Result {
	common := tx.GetCommon()

	// Account is required
	if common.Account == "" {
		return TemBAD_SRC_ACCOUNT
	}

	// TransactionType is required
	if common.TransactionType == "" {
		return TemINVALID
	}

	// Transaction-specific validation
	if err := tx.Validate(); err != nil {
		return parseValidationError(err)
	}

	return TesSUCCESS
}

// parseValidationError extracts a result code from a validation error message.
// If the error message starts with a known code followed by a colon or space
// (e.g. "temINVALID_QUANTITY: ..."), that code is returned; otherwise temINVALID.
func parseValidationError(err error) Result {
	msg := err.Error()
	code := msg
	if i := strings.IndexAny(msg, ": "); i >= 0 {
		code = msg[:i]
	}
	if r, ok := ResultFromName(code); ok {
		return r
	}
	return TemINVALID
}
