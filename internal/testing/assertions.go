package testing

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireBalance asserts that acct holds expected units of token.
func RequireBalance(t *testing.T, env *TestEnv, token, acct string, expected uint64) {
	t.Helper()
	actual := env.Balance(token, acct)
	require.Equal(t, expected, actual,
		"Account %s balance of token %s mismatch: expected %d, got %d",
		acct, token, expected, actual)
}

// RequireSupply asserts the outstanding supply of token.
func RequireSupply(t *testing.T, env *TestEnv, token string, expected uint64) {
	t.Helper()
	actual := env.Supply(token)
	require.Equal(t, expected, actual,
		"Token %s supply mismatch: expected %d, got %d", token, expected, actual)
}

// RequireConserved asserts that the balances of token sum to its supply.
func RequireConserved(t *testing.T, env *TestEnv, token string) {
	t.Helper()
	supply, held := env.Supply(token), env.Holdings(token)
	require.Equal(t, supply, held,
		"Token %s not conserved: supply %d, balances sum to %d", token, supply, held)
}

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, "tesSUCCESS", result.Code,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that a transaction result indicates failure with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expectedCode string) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expectedCode)
	require.Equal(t, expectedCode, result.Code,
		"Expected failure code %s, got %s: %s", expectedCode, result.Code, result.Message)
	require.Empty(t, result.Events, "A failed transaction must not emit events")
	require.Empty(t, result.Payments, "A failed transaction must not emit payments")
}

// RequireListing asserts seller's listing of token.
func RequireListing(t *testing.T, env *TestEnv, seller, token string, qty, price uint64) {
	t.Helper()
	gotQty, gotPrice, ok := env.Listing(seller, token)
	require.True(t, ok, "Expected %s to list token %s", seller, token)
	require.Equal(t, qty, gotQty, "Listing quantity mismatch")
	require.Equal(t, price, gotPrice, "Listing unit price mismatch")
}

// RequireNoListing asserts that seller has no listing of token.
func RequireNoListing(t *testing.T, env *TestEnv, seller, token string) {
	t.Helper()
	_, _, ok := env.Listing(seller, token)
	require.False(t, ok, "Expected no listing of token %s by %s", token, seller)
}

// RequireBid asserts bidder's open bid on token.
func RequireBid(t *testing.T, env *TestEnv, bidder, token string, qty, price uint64) {
	t.Helper()
	gotQty, gotPrice, ok := env.Bid(bidder, token)
	require.True(t, ok, "Expected %s to bid on token %s", bidder, token)
	require.Equal(t, qty, gotQty, "Bid quantity mismatch")
	require.Equal(t, price, gotPrice, "Bid unit price mismatch")
}

// RequireNoBid asserts that bidder has no bid on token.
func RequireNoBid(t *testing.T, env *TestEnv, bidder, token string) {
	t.Helper()
	_, _, ok := env.Bid(bidder, token)
	require.False(t, ok, "Expected no bid on token %s by %s", token, bidder)
}

// Pay builds an expected payment instruction.
func Pay(reason tx.PaymentReason, to, token string, amount uint64) tx.PaymentInstruction {
	return tx.PaymentInstruction{Reason: reason, To: to, Token: token, Amount: *U(amount)}
}

// RequirePayments asserts the payment instructions recorded since the last
// TakePayments, in order, and clears them.
func RequirePayments(t *testing.T, env *TestEnv, expected ...tx.PaymentInstruction) {
	t.Helper()
	got := env.TakePayments()
	require.Len(t, got, len(expected), "Payment count mismatch: %v", got)
	for i := range expected {
		assert.Equal(t, expected[i].Reason, got[i].Reason, "payment %d reason", i)
		assert.Equal(t, expected[i].To, got[i].To, "payment %d recipient", i)
		assert.Equal(t, expected[i].Token, got[i].Token, "payment %d token", i)
		assert.Equal(t, expected[i].Amount.Dec(), got[i].Amount.Dec(), "payment %d amount", i)
	}
}

// AssertBalanceChange asserts that fn changes acct's balance of token by delta.
func AssertBalanceChange(t *testing.T, env *TestEnv, token, acct string, delta int64, fn func()) {
	t.Helper()
	before := int64(env.Balance(token, acct))
	fn()
	after := int64(env.Balance(token, acct))
	assert.Equal(t, delta, after-before,
		"Account %s balance of token %s changed by %d, expected %d", acct, token, after-before, delta)
}

// AssertNoBalanceChange asserts that fn leaves acct's balance of token untouched.
func AssertNoBalanceChange(t *testing.T, env *TestEnv, token, acct string, fn func()) {
	t.Helper()
	AssertBalanceChange(t, env, token, acct, 0, fn)
}
