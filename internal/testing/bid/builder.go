// Package bid provides builders for bid-side marketplace transactions and
// the scenario tests that exercise them.
package bid

import (
	"github.com/LeJamon/goMarketd/internal/core/tx"
	bidtx "github.com/LeJamon/goMarketd/internal/core/tx/bid"
	"github.com/holiman/uint256"
)

// AddBuilder provides a fluent interface for building AddBidMarketData transactions.
type AddBuilder struct {
	bidder string
	token  string
	qty    uint64
	price  uint64
	fee    uint64
	value  *uint256.Int
}

// Add creates a new AddBuilder for bidder offering price per unit for qty
// units of token. The attached value defaults to qty × price plus the
// default bid fee.
func Add(bidder, token string, qty, price uint64) *AddBuilder {
	return &AddBuilder{bidder: bidder, token: token, qty: qty, price: price, fee: tx.DefaultBidFee}
}

// Fee sets the bid fee used to compute the default attached value.
func (b *AddBuilder) Fee(fee uint64) *AddBuilder {
	b.fee = fee
	return b
}

// Paying overrides the attached value.
func (b *AddBuilder) Paying(value uint64) *AddBuilder {
	b.value = uint256.NewInt(value)
	return b
}

// Build constructs the AddBidMarketData transaction.
func (b *AddBuilder) Build() tx.Transaction {
	value := b.value
	if value == nil {
		value = new(uint256.Int).Mul(uint256.NewInt(b.qty), uint256.NewInt(b.price))
		value.Add(value, uint256.NewInt(b.fee))
	}
	return bidtx.NewAddBidMarketData(b.bidder, b.bidder, b.token, uint256.NewInt(b.qty), uint256.NewInt(b.price), value)
}

// Cancel builds a DeleteBidMarketData transaction submitted by bidder.
func Cancel(bidder, token string) tx.Transaction {
	return bidtx.NewDeleteBidMarketData(bidder, bidder, token)
}

// Accept builds an AcceptBidMarketData transaction in which seller fills
// qty units of bidder's bid on token.
func Accept(seller, bidder, token string, qty uint64) tx.Transaction {
	return bidtx.NewAcceptBidMarketData(seller, bidder, token, uint256.NewInt(qty))
}
