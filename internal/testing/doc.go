// Package testing provides test infrastructure for marketd transactions.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: a ledger, engine and event log wired together in memory
//   - ManualClock: a controllable clock for cooldown checks
//   - Amount helpers: U and Price for building uint256 quantities
//   - Assertions: helpers for balances, results, payments and supply
//
// Transaction builders for the token, listing and bid flows live in the token, listing
// and bid subpackages, next to their scenario tests.
//
// # Basic Usage
//
//	func TestSale(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    env.Init("admin")
//	    env.Mint("bob", "1", 10)
//
//	    result := env.Submit(listingtx.NewUpdateMarketData("bob", "bob", "1", testing.U(9), testing.U(100)))
//	    testing.RequireTxSuccess(t, result)
//	}
//
// # TestEnv
//
// TestEnv records every payment instruction the engine emits. Payments()
// returns them all; TakePayments() returns and clears them so each step of
// a scenario can be checked on its own.
//
//	env.Balance("1", "bob")      // balance as uint64
//	env.Supply("1")              // total supply as uint64
//	env.Events()                 // every committed event
//	env.AdvanceTime(31 * time.Second)
//
// # Assertions
//
//	testing.RequireBalance(t, env, "1", "bob", 7)
//	testing.RequireTxFail(t, result, "tecNOT_WHITELISTED")
//	testing.RequireConserved(t, env, "1")
//	testing.AssertBalanceChange(t, env, "1", "carol", 3, func() { ... })
package testing
