package market

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// OwnerOf returns the contract owner. The second value is false before Init
// and after the owner renounced.
func OwnerOf(v tx.ReadView) (string, bool, error) {
	o, err := read[entry.Ownership](v, keylet.Ownership())
	if err != nil || o == nil || o.Owner == "" {
		return "", false, err
	}
	return o.Owner, true, nil
}

// TreasuryOf returns the configured treasury account, if any.
func TreasuryOf(v tx.ReadView) (string, bool, error) {
	t, err := read[entry.Treasury](v, keylet.Treasury())
	if err != nil || t == nil || t.Account == "" {
		return "", false, err
	}
	return t.Account, true, nil
}

// PayoutTreasury resolves who receives treasury shares: the treasury
// account, else the contract owner.
func PayoutTreasury(v tx.ReadView) (string, bool, error) {
	if t, ok, err := TreasuryOf(v); err != nil || ok {
		return t, ok, err
	}
	return OwnerOf(v)
}

// RequireOwner fails with tecUNAUTHORIZED unless ctx.Caller is the contract owner.
func RequireOwner(ctx *tx.ApplyContext) tx.Result {
	owner, ok, err := OwnerOf(ctx.View)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !ok || owner != ctx.Caller {
		return tx.TecUNAUTHORIZED
	}
	return tx.TesSUCCESS
}

// Init records the contract owner. It succeeds exactly once.
func Init(ctx *tx.ApplyContext, owner string) tx.Result {
	o, err := read[entry.Ownership](ctx.View, keylet.Ownership())
	if err != nil {
		return tx.TefINTERNAL
	}
	if o != nil && o.Initialized {
		return tx.TecALREADY_EXISTS
	}
	if err := put(ctx.View, keylet.Ownership(), &entry.Ownership{Owner: owner, Initialized: true}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventInit, owner)
	return tx.TesSUCCESS
}

// TransferOwnership hands the contract to newOwner.
func TransferOwnership(ctx *tx.ApplyContext, newOwner string) tx.Result {
	if newOwner == "" {
		return tx.TemMALFORMED
	}
	return setOwner(ctx, newOwner)
}

// RenounceOwnership leaves the contract without an owner. Init cannot be
// replayed afterwards. A treasury must be set first: with neither owner
// nor treasury the treasury share of every sale would have no payee, and
// nobody could set one later.
func RenounceOwnership(ctx *tx.ApplyContext) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	if _, ok, err := TreasuryOf(ctx.View); err != nil {
		return tx.TefINTERNAL
	} else if !ok {
		return tx.TecNO_TREASURY
	}
	return setOwner(ctx, "")
}

func setOwner(ctx *tx.ApplyContext, newOwner string) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	if err := put(ctx.View, keylet.Ownership(), &entry.Ownership{Owner: newOwner, Initialized: true}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventOwnershipTransferred, ctx.Caller, newOwner)
	return tx.TesSUCCESS
}

// SetTreasury sets the treasury account. An empty account clears it so the
// owner receives treasury shares again.
func SetTreasury(ctx *tx.ApplyContext, account string) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	var err error
	if account == "" {
		err = erase(ctx.View, keylet.Treasury())
	} else {
		err = put(ctx.View, keylet.Treasury(), &entry.Treasury{Account: account})
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventTreasurySet, account)
	return tx.TesSUCCESS
}
