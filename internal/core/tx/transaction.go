package tx

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/holiman/uint256"
)

// Common errors
var (
	ErrMissingAccount         = errors.New("temBAD_SRC_ACCOUNT: Account is required")
	ErrInvalidTransactionType = errors.New("temINVALID: invalid transaction type")
	ErrMissingToken           = errors.New("temMALFORMED: Token is required")
	ErrTokenTooLong           = fmt.Errorf("temMALFORMED: Token exceeds %d bytes", keylet.MaxTokenLength)
)

// ValidateToken checks a token identifier named by a transaction.
func ValidateToken(token string) error {
	if token == "" {
		return ErrMissingToken
	}
	if len(token) > keylet.MaxTokenLength {
		return ErrTokenTooLong
	}
	return nil
}

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks the transaction in isolation, before any state is read.
	// Errors are prefixed with the result code they map to, e.g.
	// "temINVALID_QUANTITY: quantity must be positive".
	Validate() error
}

// Appliable is implemented by transaction types that can apply themselves to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Common contains fields common to all transaction types
type Common struct {
	// Account is the caller on whose authority the transaction runs.
	Account         string `json:"Account"`
	TransactionType string `json:"TransactionType"`

	// Value is the payment attached to the call. Only Buy and
	// AddBidMarketData read it.
	Value uint256.Int `json:"Value"`
}

// Validate checks the common fields
func (c *Common) Validate() error {
	if c.Account == "" {
		return ErrMissingAccount
	}
	if _, ok := TypeFromName(c.TransactionType); !ok {
		return ErrInvalidTransactionType
	}
	return nil
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account string) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}

// SetValue sets the attached payment.
func (c *Common) SetValue(v *uint256.Int) {
	c.Value.Set(v)
}
