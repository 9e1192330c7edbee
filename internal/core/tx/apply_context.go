package tx

import (
	"time"

	"github.com/holiman/uint256"
)

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// View provides read/write access to ledger state (the ApplyStateTable)
	View LedgerView

	// Caller is the account the transaction runs as
	Caller string

	// Value is the payment attached to the call
	Value uint256.Int

	// Now is the engine clock reading taken once per transaction
	Now time.Time

	// Config holds engine configuration (bid fee, cooldown)
	Config EngineConfig

	events   []Event
	payments []PaymentInstruction
}

// Emit queues an event. Events reach the sink only if the transaction succeeds.
func (ctx *ApplyContext) Emit(eventType string, fields ...string) {
	ctx.events = append(ctx.events, Event{Type: eventType, Fields: fields})
}

// Pay queues a payment instruction. A zero amount is dropped.
func (ctx *ApplyContext) Pay(reason PaymentReason, to, token string, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	ctx.payments = append(ctx.payments, PaymentInstruction{
		Reason: reason,
		To:     to,
		Token:  token,
		Amount: *amount.Clone(),
	})
}

// Events returns the events queued so far.
func (ctx *ApplyContext) Events() []Event {
	return ctx.events
}

// Payments returns the payment instructions queued so far.
func (ctx *ApplyContext) Payments() []PaymentInstruction {
	return ctx.payments
}
