package testing

import (
	"strings"

	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the transaction engine result code (e.g., "tesSUCCESS").
	Code string

	// Success indicates whether the transaction was successfully applied.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Events are the records the transaction appended.
	Events []tx.Event

	// Payments are the instructions the transaction emitted.
	Payments []tx.PaymentInstruction
}

func newTxResult(res tx.ApplyResult) TxResult {
	return TxResult{
		Code:     res.Result.String(),
		Success:  res.Applied,
		Message:  res.Message,
		Events:   res.Events,
		Payments: res.Payments,
	}
}

// IsMalformed reports a tem code: the transaction failed validation.
func (r TxResult) IsMalformed() bool {
	return strings.HasPrefix(r.Code, "tem")
}

// IsRejected reports a tec code: the transaction was well formed but the
// ledger state refused it.
func (r TxResult) IsRejected() bool {
	return strings.HasPrefix(r.Code, "tec")
}

// EventTypes lists the types of r.Events in order.
func (r TxResult) EventTypes() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
