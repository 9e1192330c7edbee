package token

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeBurn, func() tx.Transaction {
		return &Burn{BaseTx: *tx.NewBaseTx(tx.TypeBurn, "")}
	})
}

// Burn destroys Quantity units of Token held by Owner, who must be the
// submitting account. Supply drops by the same amount.
type Burn struct {
	tx.BaseTx

	Owner    string      `json:"Owner"`
	Token    string      `json:"Token"`
	Quantity uint256.Int `json:"Quantity"`
}

// NewBurn creates a new Burn transaction
func NewBurn(account, owner, token string, qty *uint256.Int) *Burn {
	b := &Burn{
		BaseTx: *tx.NewBaseTx(tx.TypeBurn, account),
		Owner:  owner,
		Token:  token,
	}
	b.Quantity.Set(qty)
	return b
}

// TxType returns the transaction type
func (b *Burn) TxType() tx.Type {
	return tx.TypeBurn
}

// Validate validates the Burn transaction
func (b *Burn) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if b.Owner == "" {
		return ErrOwnerRequired
	}
	if err := tx.ValidateToken(b.Token); err != nil {
		return err
	}
	if b.Quantity.IsZero() {
		return ErrInvalidQuantity
	}
	return nil
}

// Apply applies the Burn transaction
func (b *Burn) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.Burn(ctx, b.Owner, b.Token, &b.Quantity)
}
