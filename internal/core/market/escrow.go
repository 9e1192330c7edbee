package market

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// ErrInvalidSelfCheck is returned by CheckAccess when an account asks about
// its own grant.
var ErrInvalidSelfCheck = errors.New("temINVALID_SELF_CHECK: cannot check access to own account")

// DelegateOf returns grantor's escrow delegate.
func DelegateOf(v tx.ReadView, grantor string) (string, bool, error) {
	g, err := read[entry.EscrowGrant](v, keylet.EscrowGrant(grantor))
	if err != nil || g == nil {
		return "", false, err
	}
	return g.Delegate, true, nil
}

// CheckAccess reports whether caller is account's delegate.
func CheckAccess(v tx.ReadView, caller, account string) (bool, error) {
	if caller == account {
		return false, ErrInvalidSelfCheck
	}
	d, ok, err := DelegateOf(v, account)
	if err != nil {
		return false, err
	}
	return ok && d == caller, nil
}

// CanMove reports whether caller may move owner's funds.
func CanMove(v tx.ReadView, caller, owner string) (bool, error) {
	if caller == owner {
		return true, nil
	}
	return CheckAccess(v, caller, owner)
}

// GrantAccess makes delegate the sole escrow recipient of ctx.Caller,
// replacing any earlier grant.
func GrantAccess(ctx *tx.ApplyContext, delegate string) tx.Result {
	if delegate == ctx.Caller {
		return tx.TemMALFORMED
	}
	if err := put(ctx.View, keylet.EscrowGrant(ctx.Caller), &entry.EscrowGrant{Delegate: delegate}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventGrantAccess, ctx.Caller, delegate)
	return tx.TesSUCCESS
}

// RevokeAccess removes ctx.Caller's grant. Revoking with no grant succeeds.
func RevokeAccess(ctx *tx.ApplyContext) tx.Result {
	if err := erase(ctx.View, keylet.EscrowGrant(ctx.Caller)); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventRevokeAccess, ctx.Caller)
	return tx.TesSUCCESS
}
