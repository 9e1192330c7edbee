package market

import (
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// Whitelist status strings returned by WhitelistStatus.
const (
	StatusWhitelisted    = "whitelisted"
	StatusNotWhitelisted = "not whitelisted"
)

// WhitelistEnabled reports whether purchases of token are restricted.
func WhitelistEnabled(v tx.ReadView, token string) (bool, error) {
	w, err := read[entry.TokenWhitelist](v, keylet.TokenWhitelist(token))
	if err != nil || w == nil {
		return false, err
	}
	return w.Enabled, nil
}

// IsWhitelisted reports whether buyer may purchase a whitelisted token.
func IsWhitelisted(v tx.ReadView, token, buyer string) (bool, error) {
	u, err := read[entry.UserWhitelist](v, keylet.UserWhitelist(token, buyer))
	if err != nil || u == nil {
		return false, err
	}
	return u.Whitelisted, nil
}

// WhitelistStatus renders IsWhitelisted as a status string.
func WhitelistStatus(v tx.ReadView, token, buyer string) (string, error) {
	ok, err := IsWhitelisted(v, token, buyer)
	if err != nil {
		return "", err
	}
	if ok {
		return StatusWhitelisted, nil
	}
	return StatusNotWhitelisted, nil
}

// PurchaseLimitOf returns the per-purchase cap of token; zero means none.
func PurchaseLimitOf(v tx.ReadView, token string) (*uint256.Int, error) {
	l, err := read[entry.PurchaseLimit](v, keylet.PurchaseLimit(token))
	if err != nil {
		return nil, err
	}
	if l == nil {
		return new(uint256.Int), nil
	}
	return &l.Max, nil
}

// LastPurchaseOf returns the time of buyer's last whitelisted purchase.
func LastPurchaseOf(v tx.ReadView, buyer string) (time.Time, bool, error) {
	l, err := read[entry.LastPurchase](v, keylet.LastPurchase(buyer))
	if err != nil || l == nil {
		return time.Time{}, false, err
	}
	return time.Unix(0, l.UnixNano), true, nil
}

// UpdateTokenPurchaseWhitelist turns purchase restriction of token on or off.
func UpdateTokenPurchaseWhitelist(ctx *tx.ApplyContext, token string, enabled bool) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	if err := put(ctx.View, keylet.TokenWhitelist(token), &entry.TokenWhitelist{Enabled: enabled}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventWhitelistUpdate, token, boolField(enabled))
	return tx.TesSUCCESS
}

// AddUserPurchaseWhitelist allows each buyer to purchase token.
func AddUserPurchaseWhitelist(ctx *tx.ApplyContext, token string, buyers ...string) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	for _, buyer := range buyers {
		if err := put(ctx.View, keylet.UserWhitelist(token, buyer), &entry.UserWhitelist{Whitelisted: true}); err != nil {
			return tx.TefINTERNAL
		}
		ctx.Emit(tx.EventWhitelistAdd, token, buyer)
	}
	return tx.TesSUCCESS
}

// RemoveUserPurchaseWhitelist drops buyer from token's whitelist.
func RemoveUserPurchaseWhitelist(ctx *tx.ApplyContext, token, buyer string) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	if err := erase(ctx.View, keylet.UserWhitelist(token, buyer)); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventWhitelistRemove, token, buyer)
	return tx.TesSUCCESS
}

// UpdateTokenPurchaseLimits caps a single purchase of token at max units.
// Zero removes the cap.
func UpdateTokenPurchaseLimits(ctx *tx.ApplyContext, token string, max *uint256.Int) tx.Result {
	if r := RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	var err error
	if max.IsZero() {
		err = erase(ctx.View, keylet.PurchaseLimit(token))
	} else {
		err = put(ctx.View, keylet.PurchaseLimit(token), &entry.PurchaseLimit{Max: *max})
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(tx.EventLimitUpdate, token, max.Dec())
	return tx.TesSUCCESS
}

func boolField(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
