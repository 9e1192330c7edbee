package admin

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeInit, func() tx.Transaction {
		return &Init{BaseTx: *tx.NewBaseTx(tx.TypeInit, "")}
	})
}

// Init bootstraps the contract by recording its owner. It succeeds once.
type Init struct {
	tx.BaseTx

	// Owner becomes the contract owner
	Owner string `json:"Owner"`
}

// NewInit creates a new Init transaction
func NewInit(account, owner string) *Init {
	return &Init{
		BaseTx: *tx.NewBaseTx(tx.TypeInit, account),
		Owner:  owner,
	}
}

// TxType returns the transaction type
func (i *Init) TxType() tx.Type {
	return tx.TypeInit
}

// Validate validates the Init transaction
func (i *Init) Validate() error {
	if err := i.BaseTx.Validate(); err != nil {
		return err
	}
	if i.Owner == "" {
		return ErrOwnerRequired
	}
	return nil
}

// Apply applies the Init transaction
func (i *Init) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.Init(ctx, i.Owner)
}
