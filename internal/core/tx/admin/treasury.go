package admin

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeSetTreasury, func() tx.Transaction {
		return &SetTreasury{BaseTx: *tx.NewBaseTx(tx.TypeSetTreasury, "")}
	})
}

// SetTreasury sets the account paid the platform share of every sale.
// An empty Treasury falls back to paying the contract owner.
type SetTreasury struct {
	tx.BaseTx

	Treasury string `json:"Treasury,omitempty"`
}

// NewSetTreasury creates a new SetTreasury transaction
func NewSetTreasury(account, treasury string) *SetTreasury {
	return &SetTreasury{
		BaseTx:   *tx.NewBaseTx(tx.TypeSetTreasury, account),
		Treasury: treasury,
	}
}

// TxType returns the transaction type
func (s *SetTreasury) TxType() tx.Type {
	return tx.TypeSetTreasury
}

// Apply applies the SetTreasury transaction
func (s *SetTreasury) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.SetTreasury(ctx, s.Treasury)
}
