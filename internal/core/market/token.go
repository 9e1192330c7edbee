package market

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// Mint creates token with supply units owned by owner, who becomes its creator.
func Mint(ctx *tx.ApplyContext, owner, token string, supply *uint256.Int) tx.Result {
	_, minted, err := CreatorOf(ctx.View, token)
	if err != nil {
		return tx.TefINTERNAL
	}
	if minted {
		return tx.TecALREADY_EXISTS
	}
	if err := put(ctx.View, keylet.Creator(token), &entry.Creator{Account: owner}); err != nil {
		return tx.TefINTERNAL
	}
	if err := setBalance(ctx.View, token, owner, supply); err != nil {
		return tx.TefINTERNAL
	}
	if err := setSupply(ctx.View, token, supply); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventMint, owner, token, supply.Dec())
	return tx.TesSUCCESS
}

// MintWithRoyalty mints token and registers a royalty paid to owner on
// every sale.
func MintWithRoyalty(ctx *tx.ApplyContext, owner, token string, supply *uint256.Int, royalty uint8) tx.Result {
	if royalty > entry.MaxRoyalty {
		return tx.TemBAD_ROYALTY
	}
	if r := Mint(ctx, owner, token, supply); !r.IsSuccess() {
		return r
	}
	if err := put(ctx.View, keylet.Royalty(token), &entry.Royalty{Percent: royalty}); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Available returns the part of owner's balance not committed to a listing.
func Available(v tx.ReadView, token, owner string) (*uint256.Int, error) {
	bal, err := BalanceOf(v, token, owner)
	if err != nil {
		return nil, err
	}
	l, err := ListingOf(v, token, owner)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return bal, nil
	}
	if l.Quantity.Gt(bal) {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(bal, &l.Quantity), nil
}

// checkUnlisted fails unless owner holds qty units outside any listing.
func checkUnlisted(v tx.ReadView, token, owner string, qty *uint256.Int) tx.Result {
	avail, err := Available(v, token, owner)
	if err != nil {
		return tx.TefINTERNAL
	}
	if qty.Gt(avail) {
		return tx.TecINSUFFICIENT_FUNDS
	}
	return tx.TesSUCCESS
}

// Transfer moves qty of token from owner to newOwner on behalf of
// ctx.Caller, who must be owner or owner's delegate. Listed units cannot be
// transferred.
func Transfer(ctx *tx.ApplyContext, owner, newOwner, token string, qty *uint256.Int) tx.Result {
	ok, err := CanMove(ctx.View, ctx.Caller, owner)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !ok {
		return tx.TecUNAUTHORIZED
	}
	if newOwner == "" {
		return tx.TemMALFORMED
	}
	if qty.IsZero() {
		return tx.TemINVALID_QUANTITY
	}
	if r := checkUnlisted(ctx.View, token, owner, qty); !r.IsSuccess() {
		return r
	}
	if r := move(ctx.View, token, owner, newOwner, qty); !r.IsSuccess() {
		return r
	}
	ctx.Emit(tx.EventTransfer, owner, newOwner, token, qty.Dec())
	return tx.TesSUCCESS
}

// BatchTransfer applies Transfer to each (token, quantity) pair. The pairs
// share one staging table, so a failing pair discards the whole batch.
func BatchTransfer(ctx *tx.ApplyContext, owner, newOwner string, tokens []string, qtys []uint256.Int) tx.Result {
	if len(tokens) != len(qtys) {
		return tx.TemLENGTH_MISMATCH
	}
	for i := range tokens {
		if r := Transfer(ctx, owner, newOwner, tokens[i], &qtys[i]); !r.IsSuccess() {
			return r
		}
	}
	return tx.TesSUCCESS
}

// Burn destroys qty of ctx.Caller's unlisted balance of token and lowers
// the token's supply.
func Burn(ctx *tx.ApplyContext, account, token string, qty *uint256.Int) tx.Result {
	if ctx.Caller != account {
		return tx.TecUNAUTHORIZED
	}
	if qty.IsZero() {
		return tx.TemINVALID_QUANTITY
	}
	if r := checkUnlisted(ctx.View, token, account, qty); !r.IsSuccess() {
		return r
	}
	if r := debit(ctx.View, token, account, qty); !r.IsSuccess() {
		return r
	}
	supply, err := SupplyOf(ctx.View, token)
	if err != nil {
		return tx.TefINTERNAL
	}
	next, underflow := new(uint256.Int).SubOverflow(supply, qty)
	if underflow {
		return tx.TefINTERNAL
	}
	if err := setSupply(ctx.View, token, next); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventBurn, account, token, qty.Dec())
	return tx.TesSUCCESS
}
