// Package escrow implements escrow delegation: an account may name one
// delegate allowed to move its balances.
package escrow

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

var (
	ErrDelegateRequired = errors.New("temMALFORMED: Delegate is required")
	ErrDelegateIsSelf   = errors.New("temMALFORMED: cannot grant access to self")
)

func init() {
	tx.Register(tx.TypeGrantAccess, func() tx.Transaction {
		return &GrantAccess{BaseTx: *tx.NewBaseTx(tx.TypeGrantAccess, "")}
	})
	tx.Register(tx.TypeRevokeAccess, func() tx.Transaction {
		return &RevokeAccess{BaseTx: *tx.NewBaseTx(tx.TypeRevokeAccess, "")}
	})
}

// GrantAccess makes Delegate the caller's sole escrow delegate, replacing
// any earlier grant.
type GrantAccess struct {
	tx.BaseTx

	Delegate string `json:"Delegate"`
}

// NewGrantAccess creates a new GrantAccess transaction
func NewGrantAccess(account, delegate string) *GrantAccess {
	return &GrantAccess{
		BaseTx:   *tx.NewBaseTx(tx.TypeGrantAccess, account),
		Delegate: delegate,
	}
}

// TxType returns the transaction type
func (g *GrantAccess) TxType() tx.Type {
	return tx.TypeGrantAccess
}

// Validate validates the GrantAccess transaction
func (g *GrantAccess) Validate() error {
	if err := g.BaseTx.Validate(); err != nil {
		return err
	}
	if g.Delegate == "" {
		return ErrDelegateRequired
	}
	if g.Delegate == g.Account {
		return ErrDelegateIsSelf
	}
	return nil
}

// Apply applies the GrantAccess transaction
func (g *GrantAccess) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.GrantAccess(ctx, g.Delegate)
}

// RevokeAccess removes the caller's grant, if any.
type RevokeAccess struct {
	tx.BaseTx
}

// NewRevokeAccess creates a new RevokeAccess transaction
func NewRevokeAccess(account string) *RevokeAccess {
	return &RevokeAccess{BaseTx: *tx.NewBaseTx(tx.TypeRevokeAccess, account)}
}

// TxType returns the transaction type
func (r *RevokeAccess) TxType() tx.Type {
	return tx.TypeRevokeAccess
}

// Apply applies the RevokeAccess transaction
func (r *RevokeAccess) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.RevokeAccess(ctx)
}
