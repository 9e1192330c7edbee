package token

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeTransferFrom, func() tx.Transaction {
		return &TransferFrom{BaseTx: *tx.NewBaseTx(tx.TypeTransferFrom, "")}
	})
	tx.Register(tx.TypeBatchTransferFrom, func() tx.Transaction {
		return &BatchTransferFrom{BaseTx: *tx.NewBaseTx(tx.TypeBatchTransferFrom, "")}
	})
}

// TransferFrom moves Quantity units of Token from Owner to NewOwner. The
// submitting account must be Owner or Owner's escrow delegate, and listed
// units cannot move.
type TransferFrom struct {
	tx.BaseTx

	Owner    string      `json:"Owner"`
	NewOwner string      `json:"NewOwner"`
	Token    string      `json:"Token"`
	Quantity uint256.Int `json:"Quantity"`
}

// NewTransferFrom creates a new TransferFrom transaction
func NewTransferFrom(account, owner, newOwner, token string, qty *uint256.Int) *TransferFrom {
	t := &TransferFrom{
		BaseTx:   *tx.NewBaseTx(tx.TypeTransferFrom, account),
		Owner:    owner,
		NewOwner: newOwner,
		Token:    token,
	}
	t.Quantity.Set(qty)
	return t
}

// TxType returns the transaction type
func (t *TransferFrom) TxType() tx.Type {
	return tx.TypeTransferFrom
}

// Validate validates the TransferFrom transaction
func (t *TransferFrom) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Owner == "" {
		return ErrOwnerRequired
	}
	if t.NewOwner == "" {
		return ErrNewOwnerRequired
	}
	if err := tx.ValidateToken(t.Token); err != nil {
		return err
	}
	if t.Quantity.IsZero() {
		return ErrInvalidQuantity
	}
	return nil
}

// Apply applies the TransferFrom transaction
func (t *TransferFrom) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.Transfer(ctx, t.Owner, t.NewOwner, t.Token, &t.Quantity)
}

// BatchTransferFrom transfers several tokens from Owner to NewOwner. Either
// every pair is applied or none is.
type BatchTransferFrom struct {
	tx.BaseTx

	Owner      string        `json:"Owner"`
	NewOwner   string        `json:"NewOwner"`
	Tokens     []string      `json:"Tokens"`
	Quantities []uint256.Int `json:"Quantities"`
}

// NewBatchTransferFrom creates a new BatchTransferFrom transaction
func NewBatchTransferFrom(account, owner, newOwner string, tokens []string, qtys []uint256.Int) *BatchTransferFrom {
	return &BatchTransferFrom{
		BaseTx:     *tx.NewBaseTx(tx.TypeBatchTransferFrom, account),
		Owner:      owner,
		NewOwner:   newOwner,
		Tokens:     tokens,
		Quantities: qtys,
	}
}

// TxType returns the transaction type
func (b *BatchTransferFrom) TxType() tx.Type {
	return tx.TypeBatchTransferFrom
}

// Validate validates the BatchTransferFrom transaction
func (b *BatchTransferFrom) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if b.Owner == "" {
		return ErrOwnerRequired
	}
	if b.NewOwner == "" {
		return ErrNewOwnerRequired
	}
	if len(b.Tokens) != len(b.Quantities) {
		return ErrLengthMismatch
	}
	if len(b.Tokens) == 0 {
		return ErrEmptyBatch
	}
	for i := range b.Tokens {
		if err := tx.ValidateToken(b.Tokens[i]); err != nil {
			return err
		}
		if b.Quantities[i].IsZero() {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Apply applies the BatchTransferFrom transaction
func (b *BatchTransferFrom) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.BatchTransfer(ctx, b.Owner, b.NewOwner, b.Tokens, b.Quantities)
}
