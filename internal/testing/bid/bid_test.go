package bid_test

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	bidtx "github.com/LeJamon/goMarketd/internal/core/tx/bid"
	jtx "github.com/LeJamon/goMarketd/internal/testing"
	"github.com/LeJamon/goMarketd/internal/testing/bid"
	"github.com/LeJamon/goMarketd/internal/testing/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const price = 100

func setup(t *testing.T, opts ...jtx.EnvOption) *jtx.TestEnv {
	t.Helper()
	env := jtx.NewTestEnv(t, opts...)
	env.Init("admin")
	env.Mint("bob", "1", 10)
	return env
}

func TestBidPartialAccept(t *testing.T) {
	env := setup(t)

	result := env.Submit(bid.Add("carol", "1", 5, price).Build())
	jtx.RequireTxSuccess(t, result)
	assert.Equal(t, []string{tx.EventBidAdd, "carol", "1", "5", "100"}, result.Events[0].Record())
	assert.Empty(t, result.Payments)

	jtx.AssertBalanceChange(t, env, "1", "bob", -3, func() {
		jtx.AssertBalanceChange(t, env, "1", "carol", 3, func() {
			jtx.RequireTxSuccess(t, env.Submit(bid.Accept("bob", "carol", "1", 3)))
		})
	})
	jtx.RequireBid(t, env, "carol", "1", 2, price)
	jtx.RequirePayments(t, env,
		jtx.Pay(tx.PaymentSale, "bob", "1", 285),
		jtx.Pay(tx.PaymentTreasury, "admin", "1", 15),
	)

	// Filling the rest removes the bid.
	jtx.RequireTxSuccess(t, env.Submit(bid.Accept("bob", "carol", "1", 2)))
	jtx.RequireNoBid(t, env, "carol", "1")
	jtx.RequireBalance(t, env, "1", "carol", 5)
	jtx.RequireConserved(t, env, "1")
}

func TestBidEscrowIncludesFee(t *testing.T) {
	env := setup(t, jtx.WithBidFee(50))

	jtx.RequireTxFail(t, env.Submit(bid.Add("carol", "1", 2, price).Fee(49).Build()), "tecPAYMENT_MISMATCH")
	jtx.RequireNoBid(t, env, "carol", "1")

	// Excess over price plus fee is accepted and kept.
	jtx.RequireTxSuccess(t, env.Submit(bid.Add("carol", "1", 2, price).Paying(10_000).Build()))
	jtx.RequireBid(t, env, "carol", "1", 2, price)
	jtx.RequireTxFail(t, env.Submit(bid.Add("carol", "1", 1, price).Fee(50).Build()), "tecDUPLICATE_BID")
}

func TestCancelBidRefundsPriceOnly(t *testing.T) {
	env := setup(t)
	jtx.RequireTxSuccess(t, env.Submit(bid.Add("carol", "1", 4, price).Build()))

	jtx.RequireTxFail(t, env.Submit(bidtx.NewDeleteBidMarketData("dave", "carol", "1")), "tecUNAUTHORIZED")

	result := env.Submit(bid.Cancel("carol", "1"))
	jtx.RequireTxSuccess(t, result)
	assert.Equal(t, []string{tx.EventBidDelete, "carol", "1", "400"}, result.Events[0].Record())
	jtx.RequirePayments(t, env, jtx.Pay(tx.PaymentRefund, "carol", "1", 400))
	jtx.RequireNoBid(t, env, "carol", "1")

	jtx.RequireTxFail(t, env.Submit(bid.Cancel("carol", "1")), "tecNOT_BID")

	// A cancelled bid can be placed again.
	jtx.RequireTxSuccess(t, env.Submit(bid.Add("carol", "1", 1, price).Build()))
}

func TestAcceptBidFailures(t *testing.T) {
	env := setup(t)
	jtx.RequireTxSuccess(t, env.Submit(bid.Add("carol", "1", 5, price).Build()))
	jtx.RequireTxSuccess(t, env.Submit(listing.List("bob", "1", 8).At(price).Build()))

	tests := []struct {
		name string
		tx   tx.Transaction
		code string
	}{
		{"self accept", bid.Accept("carol", "carol", "1", 1), "temDST_IS_SRC"},
		{"no bid", bid.Accept("bob", "dave", "1", 1), "tecNOT_BID"},
		{"over bid", bid.Accept("bob", "carol", "1", 6), "tecOVER_BID"},
		{"listed units", bid.Accept("bob", "carol", "1", 3), "tecINSUFFICIENT_ACTIVE_BALANCE"},
		{"no balance", bid.Accept("erin", "carol", "1", 1), "tecINSUFFICIENT_FUNDS"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jtx.AssertNoBalanceChange(t, env, "1", "carol", func() {
				jtx.RequireTxFail(t, env.Submit(tc.tx), tc.code)
			})
		})
	}
	jtx.RequireBid(t, env, "carol", "1", 5, price)

	// Two units are outside the listing.
	jtx.RequireTxSuccess(t, env.Submit(bid.Accept("bob", "carol", "1", 2)))
	jtx.RequireBid(t, env, "carol", "1", 3, price)
}

func TestBidMalformed(t *testing.T) {
	env := setup(t)

	jtx.RequireTxFail(t, env.Submit(bid.Add("carol", "1", 0, price).Build()), "temINVALID_QUANTITY")
	jtx.RequireTxFail(t, env.Submit(bid.Add("carol", "1", 1, 0).Build()), "temBAD_AMOUNT")
	result := env.Submit(bid.Add("", "1", 1, price).Build())
	assert.True(t, result.IsMalformed(), result.Code)
}

func TestBidQueriesForMissingKeys(t *testing.T) {
	env := setup(t)

	jtx.RequireNoBid(t, env, "carol", "1")
	jtx.RequireNoBid(t, env, "carol", "never-minted")

	bids, err := env.Query().Bids("1")
	require.NoError(t, err)
	assert.Empty(t, bids)

	jtx.RequireTxSuccess(t, env.Submit(bid.Add("carol", "1", 1, price).Build()))
	jtx.RequireTxSuccess(t, env.Submit(bid.Add("dave", "1", 2, 2*price).Build()))
	bids, err = env.Query().Bids("1")
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, "carol", bids[0].Account)
	assert.Equal(t, "dave", bids[1].Account)
}
