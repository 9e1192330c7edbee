package tx

import (
	"github.com/holiman/uint256"
)

// PaymentReason says why a payment was requested.
type PaymentReason string

const (
	PaymentSale     PaymentReason = "sale"
	PaymentRoyalty  PaymentReason = "royalty"
	PaymentTreasury PaymentReason = "treasury"
	PaymentRefund   PaymentReason = "refund"
)

// PaymentInstruction asks the host to pay To the given Amount. Instructions
// are requests, not confirmations: a failed payout never rolls back the
// ledger mutation that produced it.
type PaymentInstruction struct {
	Reason PaymentReason `json:"reason"`
	To     string        `json:"to"`
	Token  string        `json:"token"`
	Amount uint256.Int   `json:"amount"`
}

// PaymentHandler receives the instructions of every committed transaction.
type PaymentHandler interface {
	HandlePayments(payments []PaymentInstruction)
}
