package token

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeMintTo, func() tx.Transaction {
		return &MintTo{BaseTx: *tx.NewBaseTx(tx.TypeMintTo, "")}
	})
	tx.Register(tx.TypeMintToWithRoyalty, func() tx.Transaction {
		return &MintToWithRoyalty{MintTo: MintTo{BaseTx: *tx.NewBaseTx(tx.TypeMintToWithRoyalty, "")}}
	})
}

// MintTo creates a new token with Supply units held by Owner.
// Only the contract owner may mint.
type MintTo struct {
	tx.BaseTx

	Owner  string      `json:"Owner"`
	Token  string      `json:"Token"`
	Supply uint256.Int `json:"Supply"`
}

// NewMintTo creates a new MintTo transaction
func NewMintTo(account, owner, token string, supply *uint256.Int) *MintTo {
	m := &MintTo{
		BaseTx: *tx.NewBaseTx(tx.TypeMintTo, account),
		Owner:  owner,
		Token:  token,
	}
	m.Supply.Set(supply)
	return m
}

// TxType returns the transaction type
func (m *MintTo) TxType() tx.Type {
	return tx.TypeMintTo
}

// Validate validates the MintTo transaction
func (m *MintTo) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}
	if m.Owner == "" {
		return ErrOwnerRequired
	}
	if err := tx.ValidateToken(m.Token); err != nil {
		return err
	}
	return nil
}

// Apply applies the MintTo transaction
func (m *MintTo) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := market.RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	return market.Mint(ctx, m.Owner, m.Token, &m.Supply)
}

// MintToWithRoyalty mints a token whose creator receives Royalty percent
// of every sale.
type MintToWithRoyalty struct {
	MintTo

	Royalty uint8 `json:"Royalty"`
}

// NewMintToWithRoyalty creates a new MintToWithRoyalty transaction
func NewMintToWithRoyalty(account, owner, token string, supply *uint256.Int, royalty uint8) *MintToWithRoyalty {
	m := &MintToWithRoyalty{
		MintTo: MintTo{
			BaseTx: *tx.NewBaseTx(tx.TypeMintToWithRoyalty, account),
			Owner:  owner,
			Token:  token,
		},
		Royalty: royalty,
	}
	m.Supply.Set(supply)
	return m
}

// TxType returns the transaction type
func (m *MintToWithRoyalty) TxType() tx.Type {
	return tx.TypeMintToWithRoyalty
}

// Validate validates the MintToWithRoyalty transaction
func (m *MintToWithRoyalty) Validate() error {
	if err := m.MintTo.Validate(); err != nil {
		return err
	}
	if m.Royalty > entry.MaxRoyalty {
		return ErrBadRoyalty
	}
	return nil
}

// Apply applies the MintToWithRoyalty transaction
func (m *MintToWithRoyalty) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := market.RequireOwner(ctx); !r.IsSuccess() {
		return r
	}
	return market.MintWithRoyalty(ctx, m.Owner, m.Token, &m.Supply, m.Royalty)
}
