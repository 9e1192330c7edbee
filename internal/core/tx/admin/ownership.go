package admin

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeTransferOwnership, func() tx.Transaction {
		return &TransferOwnership{BaseTx: *tx.NewBaseTx(tx.TypeTransferOwnership, "")}
	})
	tx.Register(tx.TypeRenounceOwnership, func() tx.Transaction {
		return &RenounceOwnership{BaseTx: *tx.NewBaseTx(tx.TypeRenounceOwnership, "")}
	})
}

// TransferOwnership hands the contract to a new owner.
type TransferOwnership struct {
	tx.BaseTx

	NewOwner string `json:"NewOwner"`
}

// NewTransferOwnership creates a new TransferOwnership transaction
func NewTransferOwnership(account, newOwner string) *TransferOwnership {
	return &TransferOwnership{
		BaseTx:   *tx.NewBaseTx(tx.TypeTransferOwnership, account),
		NewOwner: newOwner,
	}
}

// TxType returns the transaction type
func (t *TransferOwnership) TxType() tx.Type {
	return tx.TypeTransferOwnership
}

// Validate validates the TransferOwnership transaction
func (t *TransferOwnership) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.NewOwner == "" {
		return ErrNewOwnerRequired
	}
	return nil
}

// Apply applies the TransferOwnership transaction
func (t *TransferOwnership) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.TransferOwnership(ctx, t.NewOwner)
}

// RenounceOwnership leaves the contract without an owner.
type RenounceOwnership struct {
	tx.BaseTx
}

// NewRenounceOwnership creates a new RenounceOwnership transaction
func NewRenounceOwnership(account string) *RenounceOwnership {
	return &RenounceOwnership{BaseTx: *tx.NewBaseTx(tx.TypeRenounceOwnership, account)}
}

// TxType returns the transaction type
func (r *RenounceOwnership) TxType() tx.Type {
	return tx.TypeRenounceOwnership
}

// Apply applies the RenounceOwnership transaction
func (r *RenounceOwnership) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.RenounceOwnership(ctx)
}
