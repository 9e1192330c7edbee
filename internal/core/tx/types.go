package tx

import (
	"fmt"
	"sort"
)

// Type represents a transaction type code
type Type uint16

// All transaction type codes, grouped by area
const (
	TypeInvalid Type = 0xFFFF // Invalid/unknown type

	// Ownership and administration
	TypeInit              Type = 1
	TypeTransferOwnership Type = 2
	TypeRenounceOwnership Type = 3
	TypeSetTreasury       Type = 4

	// Escrow delegation
	TypeGrantAccess  Type = 10
	TypeRevokeAccess Type = 11

	// Account ledger
	TypeMintTo            Type = 20
	TypeMintToWithRoyalty Type = 21
	TypeTransferFrom      Type = 22
	TypeBatchTransferFrom Type = 23
	TypeBurn              Type = 24

	// Ask side
	TypeUpdateMarketData         Type = 30
	TypeDeleteMarketData         Type = 31
	TypeBuy                      Type = 32
	TypeMintToAndSell            Type = 33
	TypeMintToAndSellWithRoyalty Type = 34

	// Whitelisting and limits
	TypeUpdateTokenPurchaseWhitelist Type = 40
	TypeAddUserPurchaseWhitelist     Type = 41
	TypeAddUserPurchaseWhitelistBulk Type = 42
	TypeRemoveUserPurchaseWhitelist  Type = 43
	TypeUpdateTokenPurchaseLimits    Type = 44

	// Bid side
	TypeAddBidMarketData    Type = 50
	TypeDeleteBidMarketData Type = 51
	TypeAcceptBidMarketData Type = 52
)

// typeNameMap maps transaction type names to their codes
var typeNameMap = map[string]Type{
	"Init":                         TypeInit,
	"TransferOwnership":            TypeTransferOwnership,
	"RenounceOwnership":            TypeRenounceOwnership,
	"SetTreasury":                  TypeSetTreasury,
	"GrantAccess":                  TypeGrantAccess,
	"RevokeAccess":                 TypeRevokeAccess,
	"MintTo":                       TypeMintTo,
	"MintToWithRoyalty":            TypeMintToWithRoyalty,
	"TransferFrom":                 TypeTransferFrom,
	"BatchTransferFrom":            TypeBatchTransferFrom,
	"Burn":                         TypeBurn,
	"UpdateMarketData":             TypeUpdateMarketData,
	"DeleteMarketData":             TypeDeleteMarketData,
	"Buy":                          TypeBuy,
	"MintToAndSell":                TypeMintToAndSell,
	"MintToAndSellWithRoyalty":     TypeMintToAndSellWithRoyalty,
	"UpdateTokenPurchaseWhitelist": TypeUpdateTokenPurchaseWhitelist,
	"AddUserPurchaseWhitelist":     TypeAddUserPurchaseWhitelist,
	"AddUserPurchaseWhitelistBulk": TypeAddUserPurchaseWhitelistBulk,
	"RemoveUserPurchaseWhitelist":  TypeRemoveUserPurchaseWhitelist,
	"UpdateTokenPurchaseLimits":    TypeUpdateTokenPurchaseLimits,
	"AddBidMarketData":             TypeAddBidMarketData,
	"DeleteBidMarketData":          TypeDeleteBidMarketData,
	"AcceptBidMarketData":          TypeAcceptBidMarketData,
}

var typeNames = func() map[Type]string {
	m := make(map[Type]string, len(typeNameMap))
	for name, t := range typeNameMap {
		m[t] = name
	}
	return m
}()

// String returns the string name of the transaction type
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", t)
}

// TypeFromName returns the transaction type for the given name
func TypeFromName(name string) (Type, bool) {
	t, ok := typeNameMap[name]
	return t, ok
}

// TypeNames returns every registered transaction type name.
func TypeNames() []string {
	names := make([]string, 0, len(typeNameMap))
	for name := range typeNameMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
