package listing

import (
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeUpdateMarketData, func() tx.Transaction {
		return &UpdateMarketData{BaseTx: *tx.NewBaseTx(tx.TypeUpdateMarketData, "")}
	})
	tx.Register(tx.TypeDeleteMarketData, func() tx.Transaction {
		return &DeleteMarketData{BaseTx: *tx.NewBaseTx(tx.TypeDeleteMarketData, "")}
	})
}

// UpdateMarketData lists Quantity units of Token at UnitPrice each,
// replacing the seller's previous listing of that token. A zero quantity
// keeps the listing open with nothing to sell.
type UpdateMarketData struct {
	tx.BaseTx

	Seller    string      `json:"Seller"`
	Token     string      `json:"Token"`
	Quantity  uint256.Int `json:"Quantity"`
	UnitPrice uint256.Int `json:"UnitPrice"`
}

// NewUpdateMarketData creates a new UpdateMarketData transaction
func NewUpdateMarketData(account, seller, token string, qty, price *uint256.Int) *UpdateMarketData {
	u := &UpdateMarketData{
		BaseTx: *tx.NewBaseTx(tx.TypeUpdateMarketData, account),
		Seller: seller,
		Token:  token,
	}
	u.Quantity.Set(qty)
	u.UnitPrice.Set(price)
	return u
}

// TxType returns the transaction type
func (u *UpdateMarketData) TxType() tx.Type {
	return tx.TypeUpdateMarketData
}

// Validate validates the UpdateMarketData transaction
func (u *UpdateMarketData) Validate() error {
	if err := u.BaseTx.Validate(); err != nil {
		return err
	}
	if u.Seller == "" {
		return ErrSellerRequired
	}
	if err := tx.ValidateToken(u.Token); err != nil {
		return err
	}
	return nil
}

// Apply applies the UpdateMarketData transaction
func (u *UpdateMarketData) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.UpdateMarketData(ctx, u.Seller, u.Token, &u.Quantity, &u.UnitPrice)
}

// DeleteMarketData closes the seller's listing of Token.
type DeleteMarketData struct {
	tx.BaseTx

	Seller string `json:"Seller"`
	Token  string `json:"Token"`
}

// NewDeleteMarketData creates a new DeleteMarketData transaction
func NewDeleteMarketData(account, seller, token string) *DeleteMarketData {
	return &DeleteMarketData{
		BaseTx: *tx.NewBaseTx(tx.TypeDeleteMarketData, account),
		Seller: seller,
		Token:  token,
	}
}

// TxType returns the transaction type
func (d *DeleteMarketData) TxType() tx.Type {
	return tx.TypeDeleteMarketData
}

// Validate validates the DeleteMarketData transaction
func (d *DeleteMarketData) Validate() error {
	if err := d.BaseTx.Validate(); err != nil {
		return err
	}
	if d.Seller == "" {
		return ErrSellerRequired
	}
	if err := tx.ValidateToken(d.Token); err != nil {
		return err
	}
	return nil
}

// Apply applies the DeleteMarketData transaction
func (d *DeleteMarketData) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.DeleteMarketData(ctx, d.Seller, d.Token)
}
