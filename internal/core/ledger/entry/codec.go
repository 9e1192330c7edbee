package entry

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

var mh = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.Canonical = true
	return h
}()

// Encode serializes an entry after validating it.
func Encode(e Entry) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s entry: %w", e.Type(), err)
	}
	var out []byte
	if err := codec.NewEncoderBytes(&out, mh).Encode(e); err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	return out, nil
}

// Decode deserializes data into e.
func Decode(data []byte, e Entry) error {
	if err := codec.NewDecoderBytes(data, mh).Decode(e); err != nil {
		return fmt.Errorf("decode %s: %w", e.Type(), err)
	}
	return nil
}

// New returns an empty entry of type t.
func New(t Type) (Entry, error) {
	switch t {
	case TypeBalance:
		return &Balance{}, nil
	case TypeCreator:
		return &Creator{}, nil
	case TypeRoyalty:
		return &Royalty{}, nil
	case TypeSupply:
		return &Supply{}, nil
	case TypeEscrowGrant:
		return &EscrowGrant{}, nil
	case TypeListing:
		return &Listing{}, nil
	case TypeBid:
		return &Bid{}, nil
	case TypeTokenWhitelist:
		return &TokenWhitelist{}, nil
	case TypeUserWhitelist:
		return &UserWhitelist{}, nil
	case TypePurchaseLimit:
		return &PurchaseLimit{}, nil
	case TypeLastPurchase:
		return &LastPurchase{}, nil
	case TypeOwnership:
		return &Ownership{}, nil
	case TypeTreasury:
		return &Treasury{}, nil
	default:
		return nil, fmt.Errorf("unknown entry type %s", t)
	}
}
