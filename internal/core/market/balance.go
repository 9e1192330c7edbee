package market

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// BalanceOf returns account's balance of token, zero when absent.
func BalanceOf(v tx.ReadView, token, account string) (*uint256.Int, error) {
	b, err := read[entry.Balance](v, keylet.Balance(token, account))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return new(uint256.Int), nil
	}
	return &b.Amount, nil
}

// SupplyOf returns the outstanding supply of token.
func SupplyOf(v tx.ReadView, token string) (*uint256.Int, error) {
	s, err := read[entry.Supply](v, keylet.Supply(token))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return new(uint256.Int), nil
	}
	return &s.Amount, nil
}

// CreatorOf returns the creator of token and whether the token was minted.
func CreatorOf(v tx.ReadView, token string) (string, bool, error) {
	c, err := read[entry.Creator](v, keylet.Creator(token))
	if err != nil || c == nil {
		return "", false, err
	}
	return c.Account, true, nil
}

// RoyaltyOf returns token's royalty percentage, zero when none was set.
func RoyaltyOf(v tx.ReadView, token string) (uint8, error) {
	r, err := read[entry.Royalty](v, keylet.Royalty(token))
	if err != nil || r == nil {
		return 0, err
	}
	return r.Percent, nil
}

func setBalance(v tx.LedgerView, token, account string, amount *uint256.Int) error {
	return put(v, keylet.Balance(token, account), &entry.Balance{Amount: *amount})
}

func setSupply(v tx.LedgerView, token string, amount *uint256.Int) error {
	return put(v, keylet.Supply(token), &entry.Supply{Amount: *amount})
}

// debit lowers account's balance by qty. Zero balances stay on the ledger.
func debit(v tx.LedgerView, token, account string, qty *uint256.Int) tx.Result {
	bal, err := BalanceOf(v, token, account)
	if err != nil {
		return tx.TefINTERNAL
	}
	next, underflow := new(uint256.Int).SubOverflow(bal, qty)
	if underflow {
		return tx.TecINSUFFICIENT_FUNDS
	}
	if err := setBalance(v, token, account, next); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

func credit(v tx.LedgerView, token, account string, qty *uint256.Int) tx.Result {
	bal, err := BalanceOf(v, token, account)
	if err != nil {
		return tx.TefINTERNAL
	}
	next, overflow := new(uint256.Int).AddOverflow(bal, qty)
	if overflow {
		return tx.TemBAD_AMOUNT
	}
	if err := setBalance(v, token, account, next); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// move shifts qty of token from one account to another with no
// authorization or reservation checks.
func move(v tx.LedgerView, token, from, to string, qty *uint256.Int) tx.Result {
	if r := debit(v, token, from, qty); !r.IsSuccess() {
		return r
	}
	return credit(v, token, to, qty)
}
