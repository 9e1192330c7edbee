package market

import (
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newCtx returns an apply context over a fresh in-memory ledger.
func newCtx(t *testing.T, caller string) *tx.ApplyContext {
	t.Helper()
	l, err := ledger.New(memory.NewDB(), 0)
	require.NoError(t, err)
	return &tx.ApplyContext{
		View:   tx.NewApplyStateTable(l),
		Caller: caller,
		Now:    epoch,
		Config: tx.DefaultEngineConfig(),
	}
}

func n(v uint64) *uint256.Int { return uint256.NewInt(v) }

func requireOK(t *testing.T, r tx.Result) {
	t.Helper()
	require.Equal(t, tx.TesSUCCESS, r, "got %s", r)
}

func balance(t *testing.T, ctx *tx.ApplyContext, token, account string) uint64 {
	t.Helper()
	b, err := BalanceOf(ctx.View, token, account)
	require.NoError(t, err)
	return b.Uint64()
}

// bootstrap makes admin the contract owner and mints token to holder.
func bootstrap(t *testing.T, ctx *tx.ApplyContext, holder, token string, supply uint64) {
	t.Helper()
	caller := ctx.Caller
	ctx.Caller = "admin"
	requireOK(t, Init(ctx, "admin"))
	requireOK(t, Mint(ctx, holder, token, n(supply)))
	ctx.Caller = caller
}

func TestSplit(t *testing.T) {
	s := Split(n(100), 10)
	require.Equal(t, uint64(85), s.ForOwner.Uint64())
	require.Equal(t, uint64(10), s.ForArtist.Uint64())
	require.Equal(t, uint64(5), s.ForTreasury.Uint64())

	s = Split(n(1), 0)
	require.True(t, s.ForOwner.IsZero())
	require.True(t, s.ForArtist.IsZero())
	require.Equal(t, uint64(1), s.ForTreasury.Uint64())
}

func TestSplitSumsExactly(t *testing.T) {
	totals := []*uint256.Int{n(0), n(1), n(7), n(99), n(101), n(12345), new(uint256.Int).SetAllOne()}
	for _, total := range totals {
		for r := uint8(0); r <= 90; r++ {
			s := Split(total, r)
			sum := new(uint256.Int).Add(&s.ForOwner, &s.ForArtist)
			sum.Add(sum, &s.ForTreasury)
			require.True(t, sum.Eq(total), "total %s royalty %d", total.Dec(), r)
			require.False(t, s.ForOwner.Gt(total))
		}
	}
}

func TestMint(t *testing.T) {
	ctx := newCtx(t, "admin")
	requireOK(t, Mint(ctx, "alice", "T1", n(100)))
	require.Equal(t, uint64(100), balance(t, ctx, "T1", "alice"))

	creator, ok, err := CreatorOf(ctx.View, "T1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", creator)

	require.Equal(t, tx.TecALREADY_EXISTS, Mint(ctx, "bob", "T1", n(5)))
	require.Equal(t, tx.TecALREADY_EXISTS, MintWithRoyalty(ctx, "bob", "T1", n(5), 3))
	require.Equal(t, tx.TemBAD_ROYALTY, MintWithRoyalty(ctx, "bob", "T2", n(5), 91))

	requireOK(t, MintWithRoyalty(ctx, "bob", "T2", n(5), 90))
	r, err := RoyaltyOf(ctx.View, "T2")
	require.NoError(t, err)
	require.Equal(t, uint8(90), r)

	supply, err := SupplyOf(ctx.View, "T1")
	require.NoError(t, err)
	require.Equal(t, uint64(100), supply.Uint64())
}

func TestTransferRespectsListing(t *testing.T) {
	ctx := newCtx(t, "alice")
	bootstrap(t, ctx, "alice", "T1", 10)
	requireOK(t, UpdateMarketData(ctx, "alice", "T1", n(8), n(1)))

	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, Transfer(ctx, "alice", "bob", "T1", n(3)))
	requireOK(t, Transfer(ctx, "alice", "bob", "T1", n(2)))
	require.Equal(t, uint64(8), balance(t, ctx, "T1", "alice"))
	require.Equal(t, uint64(2), balance(t, ctx, "T1", "bob"))
	require.Equal(t, tx.TemINVALID_QUANTITY, Transfer(ctx, "alice", "bob", "T1", n(0)))
	require.Equal(t, tx.TemMALFORMED, Transfer(ctx, "alice", "", "T1", n(1)))
}

func TestTransferByDelegate(t *testing.T) {
	ctx := newCtx(t, "carol")
	bootstrap(t, ctx, "alice", "T1", 10)

	require.Equal(t, tx.TecUNAUTHORIZED, Transfer(ctx, "alice", "carol", "T1", n(1)))

	ctx.Caller = "alice"
	requireOK(t, GrantAccess(ctx, "carol"))
	require.Equal(t, tx.TemMALFORMED, GrantAccess(ctx, "alice"))

	ctx.Caller = "carol"
	requireOK(t, Transfer(ctx, "alice", "dave", "T1", n(4)))
	require.Equal(t, uint64(4), balance(t, ctx, "T1", "dave"))

	ok, err := CheckAccess(ctx.View, "carol", "alice")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = CheckAccess(ctx.View, "alice", "alice")
	require.ErrorIs(t, err, ErrInvalidSelfCheck)

	ctx.Caller = "alice"
	requireOK(t, RevokeAccess(ctx))
	requireOK(t, RevokeAccess(ctx))
	ctx.Caller = "carol"
	require.Equal(t, tx.TecUNAUTHORIZED, Transfer(ctx, "alice", "dave", "T1", n(1)))
}

func TestBurnLowersSupply(t *testing.T) {
	ctx := newCtx(t, "alice")
	bootstrap(t, ctx, "alice", "T1", 10)

	require.Equal(t, tx.TecUNAUTHORIZED, Burn(ctx, "bob", "T1", n(1)))
	requireOK(t, Burn(ctx, "alice", "T1", n(4)))
	require.Equal(t, uint64(6), balance(t, ctx, "T1", "alice"))
	supply, err := SupplyOf(ctx.View, "T1")
	require.NoError(t, err)
	require.Equal(t, uint64(6), supply.Uint64())

	requireOK(t, UpdateMarketData(ctx, "alice", "T1", n(6), n(1)))
	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, Burn(ctx, "alice", "T1", n(1)))
}

func TestSettlePaysThreeWays(t *testing.T) {
	ctx := newCtx(t, "admin")
	requireOK(t, Init(ctx, "admin"))
	requireOK(t, MintWithRoyalty(ctx, "artist", "T1", n(10), 10))
	requireOK(t, Transfer(withCaller(ctx, "artist"), "artist", "seller", "T1", n(5)))

	requireOK(t, Settle(ctx, "seller", "buyer", "T1", n(2), n(1000)))
	require.Equal(t, uint64(3), balance(t, ctx, "T1", "seller"))
	require.Equal(t, uint64(2), balance(t, ctx, "T1", "buyer"))

	pays := ctx.Payments()
	require.Len(t, pays, 3)
	require.Equal(t, tx.PaymentSale, pays[0].Reason)
	require.Equal(t, "seller", pays[0].To)
	require.Equal(t, uint64(850), pays[0].Amount.Uint64())
	require.Equal(t, "artist", pays[1].To)
	require.Equal(t, uint64(100), pays[1].Amount.Uint64())
	require.Equal(t, "admin", pays[2].To)
	require.Equal(t, uint64(50), pays[2].Amount.Uint64())

	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, Settle(ctx, "seller", "buyer", "T1", n(4), n(1)))
}

func TestSettleWithoutTreasury(t *testing.T) {
	ctx := newCtx(t, "admin")
	requireOK(t, Mint(ctx, "seller", "T1", n(10)))
	require.Equal(t, tx.TecNO_TREASURY, Settle(ctx, "seller", "buyer", "T1", n(1), n(100)))
}

func TestTreasuryOverridesOwner(t *testing.T) {
	ctx := newCtx(t, "admin")
	requireOK(t, Init(ctx, "admin"))
	requireOK(t, SetTreasury(ctx, "vault"))
	to, ok, err := PayoutTreasury(ctx.View)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "vault", to)

	requireOK(t, SetTreasury(ctx, ""))
	to, _, err = PayoutTreasury(ctx.View)
	require.NoError(t, err)
	require.Equal(t, "admin", to)
}

func TestOwnership(t *testing.T) {
	ctx := newCtx(t, "admin")
	requireOK(t, Init(ctx, "admin"))
	require.Equal(t, tx.TecALREADY_EXISTS, Init(ctx, "mallory"))

	ctx.Caller = "mallory"
	require.Equal(t, tx.TecUNAUTHORIZED, TransferOwnership(ctx, "mallory"))

	ctx.Caller = "admin"
	require.Equal(t, tx.TemMALFORMED, TransferOwnership(ctx, ""))
	requireOK(t, TransferOwnership(ctx, "heir"))
	require.Equal(t, tx.TecUNAUTHORIZED, RequireOwner(ctx))

	ctx.Caller = "heir"
	require.Equal(t, tx.TecNO_TREASURY, RenounceOwnership(ctx))
	requireOK(t, SetTreasury(ctx, "vault"))
	requireOK(t, RenounceOwnership(ctx))
	_, ok, err := OwnerOf(ctx.View)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, tx.TecALREADY_EXISTS, Init(ctx, "heir"))
}

func withCaller(ctx *tx.ApplyContext, caller string) *tx.ApplyContext {
	c := *ctx
	c.Caller = caller
	return &c
}
