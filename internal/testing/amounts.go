package testing

import (
	"github.com/holiman/uint256"
)

// U returns n as a uint256 quantity.
func U(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

// Price returns the total cost of qty units at unitPrice.
func Price(qty, unitPrice uint64) *uint256.Int {
	return new(uint256.Int).Mul(U(qty), U(unitPrice))
}

// BidEscrow returns the value a bid of qty units at unitPrice must carry
// under fee.
func BidEscrow(qty, unitPrice, fee uint64) *uint256.Int {
	return new(uint256.Int).Add(Price(qty, unitPrice), U(fee))
}

// Us converts a list of quantities for batch transactions.
func Us(ns ...uint64) []uint256.Int {
	out := make([]uint256.Int, len(ns))
	for i, n := range ns {
		out[i].SetUint64(n)
	}
	return out
}
