package market

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// ListingOf returns seller's listing of token, or nil when there is none.
func ListingOf(v tx.ReadView, token, seller string) (*entry.Listing, error) {
	return read[entry.Listing](v, keylet.Listing(token, seller))
}

// UpdateMarketData lists qty units of token at price on behalf of seller,
// replacing any existing listing.
func UpdateMarketData(ctx *tx.ApplyContext, seller, token string, qty, price *uint256.Int) tx.Result {
	if ctx.Caller != seller {
		return tx.TecUNAUTHORIZED
	}
	return list(ctx, seller, token, qty, price)
}

func list(ctx *tx.ApplyContext, seller, token string, qty, price *uint256.Int) tx.Result {
	bal, err := BalanceOf(ctx.View, token, seller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if qty.Gt(bal) {
		return tx.TecINSUFFICIENT_FUNDS
	}
	restricted, err := WhitelistEnabled(ctx.View, token)
	if err != nil {
		return tx.TefINTERNAL
	}
	if restricted {
		creator, _, err := CreatorOf(ctx.View, token)
		if err != nil {
			return tx.TefINTERNAL
		}
		if creator != seller {
			return tx.TecCREATOR_ONLY
		}
	}
	l := &entry.Listing{Quantity: *qty, UnitPrice: *price}
	if err := put(ctx.View, keylet.Listing(token, seller), l); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventMarketUpdate, seller, token, qty.Dec(), price.Dec())
	return tx.TesSUCCESS
}

// DeleteMarketData removes seller's listing of token.
func DeleteMarketData(ctx *tx.ApplyContext, seller, token string) tx.Result {
	if ctx.Caller != seller {
		return tx.TecUNAUTHORIZED
	}
	exists, err := ctx.View.Exists(keylet.Listing(token, seller))
	if err != nil {
		return tx.TefINTERNAL
	}
	if !exists {
		return tx.TecNOT_LISTED
	}
	if err := ctx.View.Erase(keylet.Listing(token, seller)); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventMarketDelete, seller, token)
	return tx.TesSUCCESS
}

// MintToAndSell mints token to owner and lists qty units at price in one
// step. With a non-nil royalty the token is minted royalty-aware.
func MintToAndSell(ctx *tx.ApplyContext, owner, token string, supply, qty, price *uint256.Int, royalty *uint8) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	var r tx.Result
	if royalty != nil {
		r = MintWithRoyalty(ctx, owner, token, supply, *royalty)
	} else {
		r = Mint(ctx, owner, token, supply)
	}
	if !r.IsSuccess() {
		return r
	}
	return list(ctx, owner, token, qty, price)
}

// Buy purchases qty units of seller's listing of token for ctx.Caller.
// ctx.Value must equal qty × unit price exactly.
func Buy(ctx *tx.ApplyContext, seller, token string, qty *uint256.Int) tx.Result {
	buyer := ctx.Caller
	if buyer == seller {
		return tx.TemDST_IS_SRC
	}
	l, err := ListingOf(ctx.View, token, seller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if l == nil {
		return tx.TecNOT_LISTED
	}
	if qty.IsZero() {
		return tx.TemINVALID_QUANTITY
	}

	restricted, err := WhitelistEnabled(ctx.View, token)
	if err != nil {
		return tx.TefINTERNAL
	}
	if restricted {
		ok, err := IsWhitelisted(ctx.View, token, buyer)
		if err != nil {
			return tx.TefINTERNAL
		}
		if !ok {
			return tx.TecNOT_WHITELISTED
		}
		last, found, err := LastPurchaseOf(ctx.View, buyer)
		if err != nil {
			return tx.TefINTERNAL
		}
		if found && ctx.Now.Sub(last) <= ctx.Config.Cooldown {
			return tx.TecCOOLDOWN_ACTIVE
		}
	}

	limit, err := PurchaseLimitOf(ctx.View, token)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !limit.IsZero() && qty.Gt(limit) {
		return tx.TecLIMIT_EXCEEDED
	}
	if qty.Gt(&l.Quantity) {
		return tx.TecOVER_LISTED
	}
	total, r := cost(qty, &l.UnitPrice)
	if !r.IsSuccess() {
		return r
	}
	if !ctx.Value.Eq(total) {
		return tx.TecPAYMENT_MISMATCH
	}

	if r := Settle(ctx, seller, buyer, token, qty, total); !r.IsSuccess() {
		return r
	}
	l.Quantity.Sub(&l.Quantity, qty)
	if err := put(ctx.View, keylet.Listing(token, seller), l); err != nil {
		return tx.TefINTERNAL
	}
	if restricted {
		if err := put(ctx.View, keylet.LastPurchase(buyer), &entry.LastPurchase{UnixNano: ctx.Now.UnixNano()}); err != nil {
			return tx.TefINTERNAL
		}
	}
	ctx.Emit(tx.EventBuy, seller, buyer, token, qty.Dec(), total.Dec())
	return tx.TesSUCCESS
}
