package keylet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
)

// ErrMalformedKey is returned when stored key bytes cannot be parsed.
var ErrMalformedKey = errors.New("malformed keylet")

// MaxTokenLength is the longest token identifier, in bytes, that
// transactions and queries accept.
const MaxTokenLength = 1024

// Keylet represents an addressable location in the ledger state. It is a
// comparable value and is used directly as a map key; the byte form used by
// the store length-prefixes Token so no two (Token, Account) pairs collide.
type Keylet struct {
	Type    entry.Type
	Token   string
	Account string
}

// Bytes encodes the keylet as prefix | uvarint len(token) | token | account.
func (k Keylet) Bytes() []byte {
	out := make([]byte, 0, 1+binary.MaxVarintLen64+len(k.Token)+len(k.Account))
	out = append(out, k.Type.Prefix())
	out = binary.AppendUvarint(out, uint64(len(k.Token)))
	out = append(out, k.Token...)
	out = append(out, k.Account...)
	return out
}

// String renders the keylet for logs and metadata.
func (k Keylet) String() string {
	return fmt.Sprintf("%s(%q,%q)", k.Type, k.Token, k.Account)
}

// Parse decodes the byte form produced by Bytes.
func Parse(b []byte) (Keylet, error) {
	if len(b) < 2 {
		return Keylet{}, ErrMalformedKey
	}
	t, ok := entry.TypeFromPrefix(b[0])
	if !ok {
		return Keylet{}, fmt.Errorf("%w: unknown prefix %#x", ErrMalformedKey, b[0])
	}
	n, w := binary.Uvarint(b[1:])
	if w <= 0 || n > uint64(len(b)-1-w) {
		return Keylet{}, ErrMalformedKey
	}
	start := 1 + w
	end := start + int(n)
	return Keylet{
		Type:    t,
		Token:   string(b[start:end]),
		Account: string(b[end:]),
	}, nil
}

// TypePrefix returns the byte prefix shared by every key of type t.
func TypePrefix(t entry.Type) []byte {
	return []byte{t.Prefix()}
}

// TokenPrefix returns the byte prefix shared by every key of type t for token.
func TokenPrefix(t entry.Type, token string) []byte {
	k := Keylet{Type: t, Token: token}
	return k.Bytes()
}

// Balance returns the keylet for account's balance of token.
func Balance(token, account string) Keylet {
	return Keylet{Type: entry.TypeBalance, Token: token, Account: account}
}

// Creator returns the keylet for a token's creator record.
func Creator(token string) Keylet {
	return Keylet{Type: entry.TypeCreator, Token: token}
}

// Royalty returns the keylet for a token's royalty record.
func Royalty(token string) Keylet {
	return Keylet{Type: entry.TypeRoyalty, Token: token}
}

// Supply returns the keylet for a token's outstanding supply.
func Supply(token string) Keylet {
	return Keylet{Type: entry.TypeSupply, Token: token}
}

// EscrowGrant returns the keylet for grantor's delegate.
func EscrowGrant(grantor string) Keylet {
	return Keylet{Type: entry.TypeEscrowGrant, Account: grantor}
}

// Listing returns the keylet for seller's listing of token.
func Listing(token, seller string) Keylet {
	return Keylet{Type: entry.TypeListing, Token: token, Account: seller}
}

// Bid returns the keylet for bidder's bid on token.
func Bid(token, bidder string) Keylet {
	return Keylet{Type: entry.TypeBid, Token: token, Account: bidder}
}

// TokenWhitelist returns the keylet for a token's whitelist flag.
func TokenWhitelist(token string) Keylet {
	return Keylet{Type: entry.TypeTokenWhitelist, Token: token}
}

// UserWhitelist returns the keylet for buyer's whitelist membership on token.
func UserWhitelist(token, buyer string) Keylet {
	return Keylet{Type: entry.TypeUserWhitelist, Token: token, Account: buyer}
}

// PurchaseLimit returns the keylet for a token's per-purchase limit.
func PurchaseLimit(token string) Keylet {
	return Keylet{Type: entry.TypePurchaseLimit, Token: token}
}

// LastPurchase returns the keylet for buyer's last whitelisted purchase.
func LastPurchase(buyer string) Keylet {
	return Keylet{Type: entry.TypeLastPurchase, Account: buyer}
}

// Ownership returns the keylet for the singleton ownership entry.
func Ownership() Keylet {
	return Keylet{Type: entry.TypeOwnership}
}

// Treasury returns the keylet for the singleton treasury entry.
func Treasury() Keylet {
	return Keylet{Type: entry.TypeTreasury}
}
