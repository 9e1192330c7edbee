package entry

import (
	"errors"

	"github.com/holiman/uint256"
)

// MaxRoyalty is the highest royalty percentage a token may carry.
const MaxRoyalty = 90

// Balance is the quantity of one token held by one account.
type Balance struct {
	Amount uint256.Int `codec:"amount"`
}

func (b *Balance) Type() Type      { return TypeBalance }
func (b *Balance) Validate() error { return nil }

// Creator records the account a token was first minted to.
type Creator struct {
	Account string `codec:"account"`
}

func (c *Creator) Type() Type { return TypeCreator }

func (c *Creator) Validate() error {
	if c.Account == "" {
		return errors.New("creator account is required")
	}
	return nil
}

// Royalty is the share of every sale routed to the token's creator.
type Royalty struct {
	Percent uint8 `codec:"percent"`
}

func (r *Royalty) Type() Type { return TypeRoyalty }

func (r *Royalty) Validate() error {
	if r.Percent > MaxRoyalty {
		return errors.New("royalty exceeds 90 percent")
	}
	return nil
}

// Supply tracks minted minus burned quantity of a token.
type Supply struct {
	Amount uint256.Int `codec:"amount"`
}

func (s *Supply) Type() Type      { return TypeSupply }
func (s *Supply) Validate() error { return nil }

// EscrowGrant names the single delegate allowed to move the grantor's balances.
type EscrowGrant struct {
	Delegate string `codec:"delegate"`
}

func (e *EscrowGrant) Type() Type { return TypeEscrowGrant }

func (e *EscrowGrant) Validate() error {
	if e.Delegate == "" {
		return errors.New("delegate is required")
	}
	return nil
}

// Listing is an ask-side offer to sell up to Quantity units at UnitPrice each.
type Listing struct {
	Quantity  uint256.Int `codec:"quantity" json:"quantity"`
	UnitPrice uint256.Int `codec:"unit_price" json:"unit_price"`
}

func (l *Listing) Type() Type      { return TypeListing }
func (l *Listing) Validate() error { return nil }

// Bid is a buy-side offer whose payment is already escrowed.
type Bid struct {
	Quantity  uint256.Int `codec:"quantity" json:"quantity"`
	UnitPrice uint256.Int `codec:"unit_price" json:"unit_price"`
}

func (b *Bid) Type() Type { return TypeBid }

func (b *Bid) Validate() error {
	if b.Quantity.IsZero() {
		return errors.New("bid quantity must be positive")
	}
	return nil
}

// TokenWhitelist restricts listing and buying of a token when Enabled.
type TokenWhitelist struct {
	Enabled bool `codec:"enabled"`
}

func (w *TokenWhitelist) Type() Type      { return TypeTokenWhitelist }
func (w *TokenWhitelist) Validate() error { return nil }

// UserWhitelist marks a buyer as allowed to purchase a whitelisted token.
type UserWhitelist struct {
	Whitelisted bool `codec:"whitelisted"`
}

func (u *UserWhitelist) Type() Type      { return TypeUserWhitelist }
func (u *UserWhitelist) Validate() error { return nil }

// PurchaseLimit caps the quantity of a single purchase of a token.
type PurchaseLimit struct {
	Max uint256.Int `codec:"max"`
}

func (p *PurchaseLimit) Type() Type      { return TypePurchaseLimit }
func (p *PurchaseLimit) Validate() error { return nil }

// LastPurchase is the time of a buyer's most recent whitelisted purchase.
type LastPurchase struct {
	UnixNano int64 `codec:"unix_nano"`
}

func (l *LastPurchase) Type() Type      { return TypeLastPurchase }
func (l *LastPurchase) Validate() error { return nil }

// Ownership is the singleton holding the contract owner. Initialized stays
// true after renouncement so the contract cannot be re-initialized.
type Ownership struct {
	Owner       string `codec:"owner"`
	Initialized bool   `codec:"initialized"`
}

func (o *Ownership) Type() Type      { return TypeOwnership }
func (o *Ownership) Validate() error { return nil }

// Treasury is the singleton holding the account paid the platform share.
type Treasury struct {
	Account string `codec:"account"`
}

func (t *Treasury) Type() Type      { return TypeTreasury }
func (t *Treasury) Validate() error { return nil }
