package market

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// BidOf returns bidder's bid on token, or nil when there is none.
func BidOf(v tx.ReadView, token, bidder string) (*entry.Bid, error) {
	return read[entry.Bid](v, keylet.Bid(token, bidder))
}

// AddBid opens a bid for qty units of token at price. ctx.Value must cover
// qty × price plus the flat bid fee; the fee and any excess are kept.
func AddBid(ctx *tx.ApplyContext, bidder, token string, qty, price *uint256.Int) tx.Result {
	if ctx.Caller != bidder {
		return tx.TecUNAUTHORIZED
	}
	if qty.IsZero() {
		return tx.TemINVALID_QUANTITY
	}
	exists, err := ctx.View.Exists(keylet.Bid(token, bidder))
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE_BID
	}
	escrow, r := cost(qty, price)
	if !r.IsSuccess() {
		return r
	}
	required, overflow := new(uint256.Int).AddOverflow(escrow, &ctx.Config.BidFee)
	if overflow {
		return tx.TemBAD_AMOUNT
	}
	if ctx.Value.Lt(required) {
		return tx.TecPAYMENT_MISMATCH
	}
	if err := put(ctx.View, keylet.Bid(token, bidder), &entry.Bid{Quantity: *qty, UnitPrice: *price}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventBidAdd, bidder, token, qty.Dec(), price.Dec())
	return tx.TesSUCCESS
}

// DeleteBid cancels bidder's bid on token and refunds the escrowed price.
// The bid fee is not refunded.
func DeleteBid(ctx *tx.ApplyContext, bidder, token string) tx.Result {
	if ctx.Caller != bidder {
		return tx.TecUNAUTHORIZED
	}
	b, err := BidOf(ctx.View, token, bidder)
	if err != nil {
		return tx.TefINTERNAL
	}
	if b == nil {
		return tx.TecNOT_BID
	}
	refund, r := cost(&b.Quantity, &b.UnitPrice)
	if !r.IsSuccess() {
		return r
	}
	if err := ctx.View.Erase(keylet.Bid(token, bidder)); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Pay(tx.PaymentRefund, bidder, token, refund)
	ctx.Emit(tx.EventBidDelete, bidder, token, refund.Dec())
	return tx.TesSUCCESS
}

// AcceptBid fills qty units of bidder's bid on token from ctx.Caller's
// unlisted balance. A bid filled to zero is removed.
func AcceptBid(ctx *tx.ApplyContext, bidder, token string, qty *uint256.Int) tx.Result {
	seller := ctx.Caller
	if seller == bidder {
		return tx.TemDST_IS_SRC
	}
	b, err := BidOf(ctx.View, token, bidder)
	if err != nil {
		return tx.TefINTERNAL
	}
	if b == nil {
		return tx.TecNOT_BID
	}
	if qty.IsZero() {
		return tx.TemINVALID_QUANTITY
	}
	if qty.Gt(&b.Quantity) {
		return tx.TecOVER_BID
	}
	l, err := ListingOf(ctx.View, token, seller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if l != nil {
		avail, err := Available(ctx.View, token, seller)
		if err != nil {
			return tx.TefINTERNAL
		}
		if qty.Gt(avail) {
			return tx.TecINSUFFICIENT_ACTIVE_BALANCE
		}
	}
	total, r := cost(qty, &b.UnitPrice)
	if !r.IsSuccess() {
		return r
	}
	if r := Settle(ctx, seller, bidder, token, qty, total); !r.IsSuccess() {
		return r
	}

	b.Quantity.Sub(&b.Quantity, qty)
	if b.Quantity.IsZero() {
		err = ctx.View.Erase(keylet.Bid(token, bidder))
	} else {
		err = put(ctx.View, keylet.Bid(token, bidder), b)
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventBidAccept, seller, bidder, token, qty.Dec(), total.Dec())
	return tx.TesSUCCESS
}
