// Package listing provides builders for ask-side marketplace transactions
// and the scenario tests that exercise them.
package listing

import (
	"github.com/LeJamon/goMarketd/internal/core/tx"
	listingtx "github.com/LeJamon/goMarketd/internal/core/tx/listing"
	"github.com/holiman/uint256"
)

// ListBuilder provides a fluent interface for building UpdateMarketData transactions.
type ListBuilder struct {
	caller string
	seller string
	token  string
	qty    uint64
	price  uint64
}

// List creates a new ListBuilder for seller listing qty units of token.
// The seller submits the transaction unless By is called.
func List(seller, token string, qty uint64) *ListBuilder {
	return &ListBuilder{caller: seller, seller: seller, token: token, qty: qty}
}

// At sets the unit price.
func (b *ListBuilder) At(price uint64) *ListBuilder {
	b.price = price
	return b
}

// By sets the submitting account.
func (b *ListBuilder) By(caller string) *ListBuilder {
	b.caller = caller
	return b
}

// Build constructs the UpdateMarketData transaction.
func (b *ListBuilder) Build() tx.Transaction {
	return listingtx.NewUpdateMarketData(b.caller, b.seller, b.token, uint256.NewInt(b.qty), uint256.NewInt(b.price))
}

// Delist builds a DeleteMarketData transaction submitted by seller.
func Delist(seller, token string) tx.Transaction {
	return listingtx.NewDeleteMarketData(seller, seller, token)
}

// BuyBuilder provides a fluent interface for building Buy transactions.
type BuyBuilder struct {
	buyer  string
	seller string
	token  string
	qty    uint64
	value  *uint256.Int
}

// Buy creates a new BuyBuilder for buyer purchasing qty units of seller's
// listing of token. Without Paying or AtPrice the attached value is zero.
func Buy(buyer, seller, token string, qty uint64) *BuyBuilder {
	return &BuyBuilder{buyer: buyer, seller: seller, token: token, qty: qty}
}

// Paying sets the attached payment directly.
func (b *BuyBuilder) Paying(value uint64) *BuyBuilder {
	b.value = uint256.NewInt(value)
	return b
}

// AtPrice attaches exactly qty × unitPrice.
func (b *BuyBuilder) AtPrice(unitPrice uint64) *BuyBuilder {
	b.value = new(uint256.Int).Mul(uint256.NewInt(b.qty), uint256.NewInt(unitPrice))
	return b
}

// Build constructs the Buy transaction.
func (b *BuyBuilder) Build() tx.Transaction {
	value := b.value
	if value == nil {
		value = new(uint256.Int)
	}
	return listingtx.NewBuy(b.buyer, b.seller, b.token, uint256.NewInt(b.qty), value)
}

// EnableWhitelist builds an UpdateTokenPurchaseWhitelist transaction.
func EnableWhitelist(owner, token string, enabled bool) tx.Transaction {
	return listingtx.NewUpdateTokenPurchaseWhitelist(owner, token, enabled)
}

// Whitelist builds a whitelist addition for one buyer, or a bulk addition
// when more than one buyer is given.
func Whitelist(owner, token string, buyers ...string) tx.Transaction {
	if len(buyers) == 1 {
		return listingtx.NewAddUserPurchaseWhitelist(owner, token, buyers[0])
	}
	return listingtx.NewAddUserPurchaseWhitelistBulk(owner, token, buyers)
}

// Unwhitelist builds a RemoveUserPurchaseWhitelist transaction.
func Unwhitelist(owner, token, buyer string) tx.Transaction {
	return listingtx.NewRemoveUserPurchaseWhitelist(owner, token, buyer)
}

// Limit builds an UpdateTokenPurchaseLimits transaction. Zero removes the limit.
func Limit(owner, token string, max uint64) tx.Transaction {
	return listingtx.NewUpdateTokenPurchaseLimits(owner, token, uint256.NewInt(max))
}
