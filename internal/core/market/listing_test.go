package market

import (
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/stretchr/testify/require"
)

func TestBuyChecksInOrder(t *testing.T) {
	ctx := newCtx(t, "buyer")
	bootstrap(t, ctx, "seller", "T1", 10)

	require.Equal(t, tx.TemDST_IS_SRC, Buy(withCaller(ctx, "seller"), "seller", "T1", n(1)))
	require.Equal(t, tx.TecNOT_LISTED, Buy(ctx, "seller", "T1", n(0)))

	requireOK(t, UpdateMarketData(withCaller(ctx, "seller"), "seller", "T1", n(5), n(10)))
	require.Equal(t, tx.TemINVALID_QUANTITY, Buy(ctx, "seller", "T1", n(0)))
	require.Equal(t, tx.TecOVER_LISTED, Buy(ctx, "seller", "T1", n(6)))

	ctx.Value.SetUint64(19)
	require.Equal(t, tx.TecPAYMENT_MISMATCH, Buy(ctx, "seller", "T1", n(2)))
	ctx.Value.SetUint64(21)
	require.Equal(t, tx.TecPAYMENT_MISMATCH, Buy(ctx, "seller", "T1", n(2)))

	ctx.Value.SetUint64(20)
	requireOK(t, Buy(ctx, "seller", "T1", n(2)))
	l, err := ListingOf(ctx.View, "T1", "seller")
	require.NoError(t, err)
	require.Equal(t, uint64(3), l.Quantity.Uint64())
}

func TestBuyZeroQuantityListingFails(t *testing.T) {
	ctx := newCtx(t, "buyer")
	bootstrap(t, ctx, "seller", "T1", 10)
	requireOK(t, UpdateMarketData(withCaller(ctx, "seller"), "seller", "T1", n(1), n(1)))

	ctx.Value.SetUint64(1)
	requireOK(t, Buy(ctx, "seller", "T1", n(1)))

	l, err := ListingOf(ctx.View, "T1", "seller")
	require.NoError(t, err)
	require.NotNil(t, l, "listing persists at zero")
	require.True(t, l.Quantity.IsZero())
	require.Equal(t, tx.TecOVER_LISTED, Buy(ctx, "seller", "T1", n(1)))
}

func TestWhitelistAndCooldown(t *testing.T) {
	ctx := newCtx(t, "buyer")
	bootstrap(t, ctx, "seller", "T1", 10)
	requireOK(t, UpdateMarketData(withCaller(ctx, "seller"), "seller", "T1", n(10), n(1)))

	admin := withCaller(ctx, "admin")
	requireOK(t, UpdateTokenPurchaseWhitelist(admin, "T1", true))
	require.Equal(t, tx.TecUNAUTHORIZED, UpdateTokenPurchaseWhitelist(ctx, "T1", false))

	ctx.Value.SetUint64(1)
	require.Equal(t, tx.TecNOT_WHITELISTED, Buy(ctx, "seller", "T1", n(1)))

	requireOK(t, AddUserPurchaseWhitelist(admin, "T1", "buyer"))
	status, err := WhitelistStatus(ctx.View, "T1", "buyer")
	require.NoError(t, err)
	require.Equal(t, StatusWhitelisted, status)

	requireOK(t, Buy(ctx, "seller", "T1", n(1)))
	last, ok, err := LastPurchaseOf(ctx.View, "buyer")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, last.Equal(epoch))

	ctx.Now = epoch.Add(30 * time.Second)
	require.Equal(t, tx.TecCOOLDOWN_ACTIVE, Buy(ctx, "seller", "T1", n(1)))
	ctx.Now = epoch.Add(30*time.Second + time.Nanosecond)
	requireOK(t, Buy(ctx, "seller", "T1", n(1)))

	requireOK(t, RemoveUserPurchaseWhitelist(admin, "T1", "buyer"))
	status, err = WhitelistStatus(ctx.View, "T1", "buyer")
	require.NoError(t, err)
	require.Equal(t, StatusNotWhitelisted, status)
}

func TestPurchaseLimitAppliesWithoutWhitelist(t *testing.T) {
	ctx := newCtx(t, "buyer")
	bootstrap(t, ctx, "seller", "T1", 10)
	requireOK(t, UpdateMarketData(withCaller(ctx, "seller"), "seller", "T1", n(10), n(1)))
	requireOK(t, UpdateTokenPurchaseLimits(withCaller(ctx, "admin"), "T1", n(2)))

	ctx.Value.SetUint64(3)
	require.Equal(t, tx.TecLIMIT_EXCEEDED, Buy(ctx, "seller", "T1", n(3)))
	ctx.Value.SetUint64(2)
	requireOK(t, Buy(ctx, "seller", "T1", n(2)))

	requireOK(t, UpdateTokenPurchaseLimits(withCaller(ctx, "admin"), "T1", n(0)))
	ctx.Value.SetUint64(3)
	requireOK(t, Buy(ctx, "seller", "T1", n(3)))
}

func TestListingRequiresCreatorWhenWhitelisted(t *testing.T) {
	ctx := newCtx(t, "creator")
	bootstrap(t, ctx, "creator", "T1", 10)
	requireOK(t, Transfer(ctx, "creator", "reseller", "T1", n(5)))
	requireOK(t, UpdateTokenPurchaseWhitelist(withCaller(ctx, "admin"), "T1", true))

	require.Equal(t, tx.TecCREATOR_ONLY, UpdateMarketData(withCaller(ctx, "reseller"), "reseller", "T1", n(1), n(1)))
	requireOK(t, UpdateMarketData(ctx, "creator", "T1", n(1), n(1)))
	require.Equal(t, tx.TecUNAUTHORIZED, UpdateMarketData(ctx, "reseller", "T1", n(1), n(1)))
	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, UpdateMarketData(ctx, "creator", "T1", n(6), n(1)))
}

func TestDeleteMarketData(t *testing.T) {
	ctx := newCtx(t, "seller")
	bootstrap(t, ctx, "seller", "T1", 10)
	require.Equal(t, tx.TecNOT_LISTED, DeleteMarketData(ctx, "seller", "T1"))
	requireOK(t, UpdateMarketData(ctx, "seller", "T1", n(1), n(1)))
	require.Equal(t, tx.TecUNAUTHORIZED, DeleteMarketData(withCaller(ctx, "x"), "seller", "T1"))
	requireOK(t, DeleteMarketData(ctx, "seller", "T1"))

	l, err := ListingOf(ctx.View, "T1", "seller")
	require.NoError(t, err)
	require.Nil(t, l)
}

func TestMintToAndSell(t *testing.T) {
	ctx := newCtx(t, "admin")
	requireOK(t, Init(ctx, "admin"))
	royalty := uint8(5)
	requireOK(t, MintToAndSell(ctx, "artist", "T1", n(10), n(4), n(3), &royalty))

	l, err := ListingOf(ctx.View, "T1", "artist")
	require.NoError(t, err)
	require.Equal(t, uint64(4), l.Quantity.Uint64())
	r, err := RoyaltyOf(ctx.View, "T1")
	require.NoError(t, err)
	require.Equal(t, uint8(5), r)

	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, MintToAndSell(ctx, "artist", "T2", n(1), n(2), n(3), nil))
	require.Equal(t, tx.TecUNAUTHORIZED, MintToAndSell(withCaller(ctx, "x"), "x", "T3", n(1), n(1), n(1), nil))
}
