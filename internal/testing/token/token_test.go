package token_test

import (
	"strings"
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/escrow"
	tokentx "github.com/LeJamon/goMarketd/internal/core/tx/token"
	jtx "github.com/LeJamon/goMarketd/internal/testing"
	"github.com/LeJamon/goMarketd/internal/testing/token"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) *jtx.TestEnv {
	t.Helper()
	env := jtx.NewTestEnv(t)
	env.Init("admin")
	env.Mint("bob", "1", 10)
	env.Mint("bob", "2", 3)
	return env
}

func TestBatchTransferIsAtomic(t *testing.T) {
	env := setup(t)

	result := env.Submit(token.Transfer("bob", "carol").Units("1", 5).Units("2", 4).Build())
	jtx.RequireTxFail(t, result, "tecINSUFFICIENT_FUNDS")
	jtx.RequireBalance(t, env, "1", "bob", 10)
	jtx.RequireBalance(t, env, "1", "carol", 0)

	// Later pairs see the effect of earlier ones.
	jtx.RequireTxFail(t, env.Submit(token.Transfer("bob", "carol").Units("1", 6).Units("1", 6).Build()), "tecINSUFFICIENT_FUNDS")
	jtx.RequireBalance(t, env, "1", "carol", 0)

	result = env.Submit(token.Transfer("bob", "carol").Units("1", 5).Units("2", 3).Build())
	jtx.RequireTxSuccess(t, result)
	assert.Equal(t, []string{tx.EventTransfer, tx.EventTransfer}, result.EventTypes())
	jtx.RequireBalance(t, env, "1", "carol", 5)
	jtx.RequireBalance(t, env, "2", "carol", 3)
	jtx.RequireConserved(t, env, "1")
	jtx.RequireConserved(t, env, "2")
}

func TestBatchTransferMalformed(t *testing.T) {
	env := setup(t)

	result := env.Submit(tokentx.NewBatchTransferFrom("bob", "bob", "carol", []string{"1", "2"}, jtx.Us(1)))
	jtx.RequireTxFail(t, result, "temLENGTH_MISMATCH")

	result = env.Submit(tokentx.NewBatchTransferFrom("bob", "bob", "carol", nil, nil))
	jtx.RequireTxFail(t, result, "temMALFORMED")
}

func TestDelegateTransfers(t *testing.T) {
	env := setup(t)

	jtx.RequireTxFail(t, env.Submit(token.Transfer("bob", "carol").Units("1", 1).By("dave").Build()), "tecUNAUTHORIZED")

	jtx.RequireTxSuccess(t, env.Submit(escrow.NewGrantAccess("bob", "dave")))
	jtx.AssertBalanceChange(t, env, "1", "carol", 2, func() {
		jtx.RequireTxSuccess(t, env.Submit(token.Transfer("bob", "carol").Units("1", 2).By("dave").Build()))
	})
	jtx.RequireTxFail(t, env.Submit(token.Transfer("bob", "carol").Units("1", 1).By("erin").Build()), "tecUNAUTHORIZED")

	// A new grant replaces the old one.
	jtx.RequireTxSuccess(t, env.Submit(escrow.NewGrantAccess("bob", "erin")))
	jtx.RequireTxFail(t, env.Submit(token.Transfer("bob", "carol").Units("1", 1).By("dave").Build()), "tecUNAUTHORIZED")
	jtx.RequireTxSuccess(t, env.Submit(token.Transfer("bob", "carol").Units("1", 1).By("erin").Build()))

	jtx.RequireTxSuccess(t, env.Submit(escrow.NewRevokeAccess("bob")))
	jtx.RequireTxFail(t, env.Submit(token.Transfer("bob", "carol").Units("1", 1).By("erin").Build()), "tecUNAUTHORIZED")

	jtx.RequireTxFail(t, env.Submit(escrow.NewGrantAccess("bob", "bob")), "temMALFORMED")
	jtx.RequireConserved(t, env, "1")
}

func TestBurn(t *testing.T) {
	env := setup(t)

	jtx.RequireTxFail(t, env.Submit(tokentx.NewBurn("carol", "bob", "1", jtx.U(1))), "tecUNAUTHORIZED")
	jtx.RequireTxFail(t, env.Submit(token.Burn("bob", "1", 11)), "tecINSUFFICIENT_FUNDS")

	result := env.Submit(token.Burn("bob", "1", 4))
	jtx.RequireTxSuccess(t, result)
	assert.Equal(t, []string{tx.EventBurn}, result.EventTypes())
	jtx.RequireBalance(t, env, "1", "bob", 6)
	jtx.RequireSupply(t, env, "1", 6)
	jtx.RequireConserved(t, env, "1")
}

func TestMintRules(t *testing.T) {
	env := setup(t)

	jtx.RequireTxFail(t, env.Submit(tokentx.NewMintTo("admin", "carol", "1", jtx.U(5))), "tecALREADY_EXISTS")
	jtx.RequireBalance(t, env, "1", "carol", 0)

	jtx.RequireTxFail(t, env.Submit(tokentx.NewMintToWithRoyalty("admin", "carol", "3", jtx.U(5), 91)), "temBAD_ROYALTY")
	jtx.RequireTxSuccess(t, env.Submit(tokentx.NewMintToWithRoyalty("admin", "carol", "3", jtx.U(5), 90)))

	info, ok, err := env.Query().Token("3")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "carol", info.Creator)
	assert.Equal(t, uint8(90), info.Royalty)
}

func TestTokenLengthLimit(t *testing.T) {
	env := setup(t)
	tail := strings.Repeat("a", 65536)

	jtx.RequireTxFail(t, env.Submit(tokentx.NewMintTo("admin", "B", "X"+tail, jtx.U(10))), "temMALFORMED")
	jtx.RequireSupply(t, env, "X"+tail, 0)
	jtx.RequireBalance(t, env, "X", tail+"B", 0)

	jtx.RequireTxFail(t, env.Submit(token.Transfer("bob", "carol").Units("1", 1).Units("X"+tail, 1).Build()), "temMALFORMED")
	jtx.RequireBalance(t, env, "1", "bob", 10)

	longest := strings.Repeat("t", keylet.MaxTokenLength)
	env.Mint("bob", longest, 4)
	jtx.RequireTxSuccess(t, env.Submit(token.Transfer("bob", "carol").Units(longest, 1).Build()))
	jtx.RequireBalance(t, env, longest, "carol", 1)
	jtx.RequireConserved(t, env, longest)

	jtx.RequireTxFail(t, env.Submit(tokentx.NewMintTo("admin", "bob", longest+"t", jtx.U(1))), "temMALFORMED")
}
