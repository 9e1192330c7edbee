// Package bid implements the bid side of the market: escrowed buy offers
// that token holders can fill.
package bid

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

var (
	ErrBidderRequired  = errors.New("temMALFORMED: Bidder is required")
	ErrInvalidQuantity = errors.New("temINVALID_QUANTITY: Quantity must be positive")
	ErrZeroPrice       = errors.New("temBAD_AMOUNT: UnitPrice must be positive")
)

func init() {
	tx.Register(tx.TypeAddBidMarketData, func() tx.Transaction {
		return &AddBidMarketData{BaseTx: *tx.NewBaseTx(tx.TypeAddBidMarketData, "")}
	})
	tx.Register(tx.TypeDeleteBidMarketData, func() tx.Transaction {
		return &DeleteBidMarketData{BaseTx: *tx.NewBaseTx(tx.TypeDeleteBidMarketData, "")}
	})
	tx.Register(tx.TypeAcceptBidMarketData, func() tx.Transaction {
		return &AcceptBidMarketData{BaseTx: *tx.NewBaseTx(tx.TypeAcceptBidMarketData, "")}
	})
}

// AddBidMarketData opens a bid for Quantity units of Token at UnitPrice.
// Value must cover Quantity × UnitPrice plus the flat bid fee.
type AddBidMarketData struct {
	tx.BaseTx

	Bidder    string      `json:"Bidder"`
	Token     string      `json:"Token"`
	Quantity  uint256.Int `json:"Quantity"`
	UnitPrice uint256.Int `json:"UnitPrice"`
}

// NewAddBidMarketData creates a new AddBidMarketData transaction
func NewAddBidMarketData(account, bidder, token string, qty, price, value *uint256.Int) *AddBidMarketData {
	a := &AddBidMarketData{
		BaseTx: *tx.NewBaseTx(tx.TypeAddBidMarketData, account),
		Bidder: bidder,
		Token:  token,
	}
	a.Quantity.Set(qty)
	a.UnitPrice.Set(price)
	a.SetValue(value)
	return a
}

// TxType returns the transaction type
func (a *AddBidMarketData) TxType() tx.Type {
	return tx.TypeAddBidMarketData
}

// Validate validates the AddBidMarketData transaction
func (a *AddBidMarketData) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if a.Bidder == "" {
		return ErrBidderRequired
	}
	if err := tx.ValidateToken(a.Token); err != nil {
		return err
	}
	if a.Quantity.IsZero() {
		return ErrInvalidQuantity
	}
	if a.UnitPrice.IsZero() {
		return ErrZeroPrice
	}
	return nil
}

// Apply applies the AddBidMarketData transaction
func (a *AddBidMarketData) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.AddBid(ctx, a.Bidder, a.Token, &a.Quantity, &a.UnitPrice)
}

// DeleteBidMarketData cancels the bidder's bid on Token. The escrowed price
// is refunded; the fee is not.
type DeleteBidMarketData struct {
	tx.BaseTx

	Bidder string `json:"Bidder"`
	Token  string `json:"Token"`
}

// NewDeleteBidMarketData creates a new DeleteBidMarketData transaction
func NewDeleteBidMarketData(account, bidder, token string) *DeleteBidMarketData {
	return &DeleteBidMarketData{
		BaseTx: *tx.NewBaseTx(tx.TypeDeleteBidMarketData, account),
		Bidder: bidder,
		Token:  token,
	}
}

// TxType returns the transaction type
func (d *DeleteBidMarketData) TxType() tx.Type {
	return tx.TypeDeleteBidMarketData
}

// Validate validates the DeleteBidMarketData transaction
func (d *DeleteBidMarketData) Validate() error {
	if err := d.BaseTx.Validate(); err != nil {
		return err
	}
	if d.Bidder == "" {
		return ErrBidderRequired
	}
	if err := tx.ValidateToken(d.Token); err != nil {
		return err
	}
	return nil
}

// Apply applies the DeleteBidMarketData transaction
func (d *DeleteBidMarketData) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.DeleteBid(ctx, d.Bidder, d.Token)
}

// AcceptBidMarketData sells Quantity units of Token into Bidder's bid. The
// submitting account is the seller.
type AcceptBidMarketData struct {
	tx.BaseTx

	Bidder   string      `json:"Bidder"`
	Token    string      `json:"Token"`
	Quantity uint256.Int `json:"Quantity"`
}

// NewAcceptBidMarketData creates a new AcceptBidMarketData transaction
func NewAcceptBidMarketData(account, bidder, token string, qty *uint256.Int) *AcceptBidMarketData {
	a := &AcceptBidMarketData{
		BaseTx: *tx.NewBaseTx(tx.TypeAcceptBidMarketData, account),
		Bidder: bidder,
		Token:  token,
	}
	a.Quantity.Set(qty)
	return a
}

// TxType returns the transaction type
func (a *AcceptBidMarketData) TxType() tx.Type {
	return tx.TypeAcceptBidMarketData
}

// Validate validates the AcceptBidMarketData transaction. Quantity is
// checked at apply time, after the bid lookup.
func (a *AcceptBidMarketData) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if a.Bidder == "" {
		return ErrBidderRequired
	}
	if err := tx.ValidateToken(a.Token); err != nil {
		return err
	}
	return nil
}

// Apply applies the AcceptBidMarketData transaction
func (a *AcceptBidMarketData) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.AcceptBid(ctx, a.Bidder, a.Token, &a.Quantity)
}
