// Package relationaldb keeps the payout journal in a SQL database.
//
// Every payment instruction handed to the payout dispatcher gets a row
// here before any attempt is made to pay it, so instructions survive a
// restart even when the payer is down.
package relationaldb

import (
	"context"
	"time"
)

// PayoutStatus is the lifecycle state of a journaled payout.
type PayoutStatus string

const (
	// StatusPending payouts are recorded and owed but not yet confirmed.
	StatusPending PayoutStatus = "pending"
	StatusPaid    PayoutStatus = "paid"
	StatusFailed  PayoutStatus = "failed"
)

// Valid reports whether s is a known status.
func (s PayoutStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	}
	return false
}

// Payout is one journaled payment instruction. Amount is a decimal string
// so 256-bit values fit on every driver.
type Payout struct {
	ID        string       `json:"id"`
	Reason    string       `json:"reason"`
	Recipient string       `json:"recipient"`
	Token     string       `json:"token"`
	Amount    string       `json:"amount"`
	Status    PayoutStatus `json:"status"`
	Attempts  int          `json:"attempts"`
	LastError string       `json:"last_error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PayoutFilter selects payouts for List. Zero fields match everything.
type PayoutFilter struct {
	Status    PayoutStatus
	Recipient string
	Limit     int
}

// PayoutRepository handles payout journal operations
type PayoutRepository interface {
	// Record inserts p as pending.
	Record(ctx context.Context, p *Payout) error
	MarkPaid(ctx context.Context, id string, attempts int) error
	MarkFailed(ctx context.Context, id string, attempts int, cause string) error
	Get(ctx context.Context, id string) (*Payout, error)
	List(ctx context.Context, filter PayoutFilter) ([]Payout, error)
	// Outstanding counts payouts per status.
	Outstanding(ctx context.Context) (map[PayoutStatus]int64, error)

	Ping(ctx context.Context) error
	Close() error
}
