// Package token implements the account ledger transactions: minting,
// transfers and burning.
package token

import "errors"

var (
	ErrOwnerRequired    = errors.New("temMALFORMED: Owner is required")
	ErrNewOwnerRequired = errors.New("temMALFORMED: NewOwner is required")
	ErrInvalidQuantity  = errors.New("temINVALID_QUANTITY: Quantity must be positive")
	ErrBadRoyalty       = errors.New("temBAD_ROYALTY: Royalty must not exceed 90")
	ErrLengthMismatch   = errors.New("temLENGTH_MISMATCH: Tokens and Quantities differ in length")
	ErrEmptyBatch       = errors.New("temMALFORMED: Tokens is empty")
)
