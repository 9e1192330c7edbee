package listing

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeBuy, func() tx.Transaction {
		return &Buy{BaseTx: *tx.NewBaseTx(tx.TypeBuy, "")}
	})
}

// Buy purchases Quantity units from Seller's listing of Token. The attached
// Value must equal Quantity times the listed unit price.
type Buy struct {
	tx.BaseTx

	Seller   string      `json:"Seller"`
	Token    string      `json:"Token"`
	Quantity uint256.Int `json:"Quantity"`
}

// NewBuy creates a new Buy transaction
func NewBuy(account, seller, token string, qty, value *uint256.Int) *Buy {
	b := &Buy{
		BaseTx: *tx.NewBaseTx(tx.TypeBuy, account),
		Seller: seller,
		Token:  token,
	}
	b.Quantity.Set(qty)
	b.SetValue(value)
	return b
}

// TxType returns the transaction type
func (b *Buy) TxType() tx.Type {
	return tx.TypeBuy
}

// Validate validates the Buy transaction. Quantity is checked at apply
// time, after the listing lookup.
func (b *Buy) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if b.Seller == "" {
		return ErrSellerRequired
	}
	if err := tx.ValidateToken(b.Token); err != nil {
		return err
	}
	return nil
}

// Apply applies the Buy transaction
func (b *Buy) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.Buy(ctx, b.Seller, b.Token, &b.Quantity)
}
