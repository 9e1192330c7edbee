// Package admin implements the contract ownership and treasury transactions.
package admin

import "errors"

var (
	ErrOwnerRequired    = errors.New("temMALFORMED: Owner is required")
	ErrNewOwnerRequired = errors.New("temMALFORMED: NewOwner is required")
)
