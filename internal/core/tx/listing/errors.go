// Package listing implements the ask side of the market: fixed-price
// listings, purchases against them, and the purchase whitelist and limits
// that gate those purchases.
package listing

import "errors"

var (
	ErrSellerRequired = errors.New("temMALFORMED: Seller is required")
	ErrOwnerRequired  = errors.New("temMALFORMED: Owner is required")
	ErrBuyerRequired  = errors.New("temMALFORMED: Buyer is required")
	ErrBuyersEmpty    = errors.New("temMALFORMED: Buyers is empty")
	ErrBadRoyalty     = errors.New("temBAD_ROYALTY: Royalty must not exceed 90")
)
