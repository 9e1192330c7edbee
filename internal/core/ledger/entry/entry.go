package entry

import (
	"fmt"
)

// Type represents a ledger entry type. The low byte doubles as the storage
// prefix for every key of that type.
type Type uint16

// All known ledger entry types
const (
	// Account ledger
	TypeBalance Type = 0x0062 // 'b' (token, holder) quantity
	TypeCreator Type = 0x0063 // 'c' token creator, set at first mint
	TypeRoyalty Type = 0x0072 // 'r' token royalty percentage
	TypeSupply  Type = 0x0073 // 's' token outstanding supply

	// Delegation
	TypeEscrowGrant Type = 0x0065 // 'e' grantor -> delegate

	// Marketplace
	TypeListing        Type = 0x006c // 'l' ask-side listing
	TypeBid            Type = 0x006f // 'o' bid-side offer
	TypeTokenWhitelist Type = 0x0077 // 'w' per-token purchase whitelist flag
	TypeUserWhitelist  Type = 0x0075 // 'u' per-token buyer membership
	TypePurchaseLimit  Type = 0x0071 // 'q' per-token max quantity per purchase
	TypeLastPurchase   Type = 0x0074 // 't' buyer's last whitelisted purchase

	// Singletons
	TypeOwnership Type = 0x004f // 'O' contract owner
	TypeTreasury  Type = 0x0054 // 'T' treasury account
)

// AllTypes lists every entry type in prefix order.
var AllTypes = []Type{
	TypeOwnership, TypeTreasury,
	TypeBalance, TypeCreator, TypeEscrowGrant,
	TypeListing, TypeBid, TypePurchaseLimit,
	TypeRoyalty, TypeSupply, TypeLastPurchase,
	TypeUserWhitelist, TypeTokenWhitelist,
}

// Prefix returns the single-byte storage prefix for the type.
func (t Type) Prefix() byte {
	return byte(t)
}

// TypeFromPrefix maps a storage prefix back onto its entry type.
func TypeFromPrefix(p byte) (Type, bool) {
	for _, t := range AllTypes {
		if t.Prefix() == p {
			return t, true
		}
	}
	return 0, false
}

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeBalance:
		return "Balance"
	case TypeCreator:
		return "Creator"
	case TypeRoyalty:
		return "Royalty"
	case TypeSupply:
		return "Supply"
	case TypeEscrowGrant:
		return "EscrowGrant"
	case TypeListing:
		return "Listing"
	case TypeBid:
		return "Bid"
	case TypeTokenWhitelist:
		return "TokenWhitelist"
	case TypeUserWhitelist:
		return "UserWhitelist"
	case TypePurchaseLimit:
		return "PurchaseLimit"
	case TypeLastPurchase:
		return "LastPurchase"
	case TypeOwnership:
		return "Ownership"
	case TypeTreasury:
		return "Treasury"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}

// Entry defines the interface for all ledger entries
type Entry interface {
	Type() Type
	Validate() error
}
