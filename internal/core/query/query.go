// Package query implements the read-only entry points. Every method reads
// committed state only.
package query

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

// ErrLengthMismatch is returned by BalanceOfBatch when tokens and accounts
// differ in length.
var ErrLengthMismatch = errors.New("temLENGTH_MISMATCH: tokens and accounts differ in length")

// Service answers read queries against a view.
type Service struct {
	view tx.ReadView
}

// New creates a query service over view.
func New(view tx.ReadView) *Service {
	return &Service{view: view}
}

// Order is a listing or bid as returned to clients.
type Order struct {
	Token     string      `json:"token"`
	Account   string      `json:"account"`
	Quantity  uint256.Int `json:"quantity"`
	UnitPrice uint256.Int `json:"unit_price"`
}

// Holding is one account's balance of a token.
type Holding struct {
	Account string      `json:"account"`
	Balance uint256.Int `json:"balance"`
}

// TokenInfo summarizes a minted token.
type TokenInfo struct {
	Token       string      `json:"token"`
	Creator     string      `json:"creator"`
	Royalty     uint8       `json:"royalty"`
	Supply      uint256.Int `json:"supply"`
	Whitelisted bool        `json:"whitelisted"`
	Limit       uint256.Int `json:"purchase_limit"`
}

// BalanceOf returns account's balance of token, zero when none.
func (s *Service) BalanceOf(token, account string) (*uint256.Int, error) {
	return market.BalanceOf(s.view, token, account)
}

// BalanceOfBatch returns the balance of each (tokens[i], accounts[i]) pair.
func (s *Service) BalanceOfBatch(tokens, accounts []string) ([]uint256.Int, error) {
	if len(tokens) != len(accounts) {
		return nil, ErrLengthMismatch
	}
	out := make([]uint256.Int, len(tokens))
	for i := range tokens {
		b, err := market.BalanceOf(s.view, tokens[i], accounts[i])
		if err != nil {
			return nil, err
		}
		out[i].Set(b)
	}
	return out, nil
}

// Token returns the summary of token, or false if it was never minted.
func (s *Service) Token(token string) (*TokenInfo, bool, error) {
	creator, ok, err := market.CreatorOf(s.view, token)
	if err != nil || !ok {
		return nil, false, err
	}
	info := &TokenInfo{Token: token, Creator: creator}
	if info.Royalty, err = market.RoyaltyOf(s.view, token); err != nil {
		return nil, false, err
	}
	supply, err := market.SupplyOf(s.view, token)
	if err != nil {
		return nil, false, err
	}
	info.Supply.Set(supply)
	if info.Whitelisted, err = market.WhitelistEnabled(s.view, token); err != nil {
		return nil, false, err
	}
	limit, err := market.PurchaseLimitOf(s.view, token)
	if err != nil {
		return nil, false, err
	}
	info.Limit.Set(limit)
	return info, true, nil
}

// TotalSupply returns minted minus burned units of token.
func (s *Service) TotalSupply(token string) (*uint256.Int, error) {
	return market.SupplyOf(s.view, token)
}

// CheckAccess reports whether caller is account's escrow delegate. Asking
// about one's own account is an error.
func (s *Service) CheckAccess(caller, account string) (bool, error) {
	return market.CheckAccess(s.view, caller, account)
}

// GetMarketData returns seller's listing of token. The second value is
// false when there is no listing.
func (s *Service) GetMarketData(seller, token string) (*Order, bool, error) {
	l, err := market.ListingOf(s.view, token, seller)
	if err != nil || l == nil {
		return nil, false, err
	}
	return &Order{Token: token, Account: seller, Quantity: l.Quantity, UnitPrice: l.UnitPrice}, true, nil
}

// GetBidMarketData returns bidder's bid on token. The second value is false
// when there is no bid.
func (s *Service) GetBidMarketData(bidder, token string) (*Order, bool, error) {
	b, err := market.BidOf(s.view, token, bidder)
	if err != nil || b == nil {
		return nil, false, err
	}
	return &Order{Token: token, Account: bidder, Quantity: b.Quantity, UnitPrice: b.UnitPrice}, true, nil
}

// GetUserPurchaseWhitelist returns "whitelisted" or "not whitelisted".
func (s *Service) GetUserPurchaseWhitelist(token, buyer string) (string, error) {
	return market.WhitelistStatus(s.view, token, buyer)
}

// Owner returns the contract owner, empty when uninitialized or renounced.
func (s *Service) Owner() (string, error) {
	o, _, err := market.OwnerOf(s.view)
	return o, err
}

// Treasury returns the account receiving treasury shares.
func (s *Service) Treasury() (string, error) {
	t, _, err := market.PayoutTreasury(s.view)
	return t, err
}

// Listings returns every listing of token ordered by seller.
func (s *Service) Listings(token string) ([]Order, error) {
	return s.orders(entry.TypeListing, token)
}

// Bids returns every open bid on token ordered by bidder.
func (s *Service) Bids(token string) ([]Order, error) {
	return s.orders(entry.TypeBid, token)
}

func (s *Service) orders(t entry.Type, token string) ([]Order, error) {
	var (
		out     []Order
		iterErr error
	)
	err := s.view.ForEach(keylet.TokenPrefix(t, token), func(k keylet.Keylet, data []byte) bool {
		if k.Token != token {
			return true
		}
		var e entry.Entry
		if e, iterErr = entry.New(t); iterErr != nil {
			return false
		}
		if iterErr = entry.Decode(data, e); iterErr != nil {
			return false
		}
		o := Order{Token: token, Account: k.Account}
		switch x := e.(type) {
		case *entry.Listing:
			o.Quantity, o.UnitPrice = x.Quantity, x.UnitPrice
		case *entry.Bid:
			o.Quantity, o.UnitPrice = x.Quantity, x.UnitPrice
		}
		out = append(out, o)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, iterErr
}

// Holders returns every non-zero balance of token ordered by account.
func (s *Service) Holders(token string) ([]Holding, error) {
	var (
		out     []Holding
		iterErr error
	)
	err := s.view.ForEach(keylet.TokenPrefix(entry.TypeBalance, token), func(k keylet.Keylet, data []byte) bool {
		if k.Token != token {
			return true
		}
		var b entry.Balance
		if iterErr = entry.Decode(data, &b); iterErr != nil {
			return false
		}
		if !b.Amount.IsZero() {
			out = append(out, Holding{Account: k.Account, Balance: b.Amount})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, iterErr
}
