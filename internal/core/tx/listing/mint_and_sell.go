package listing

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeMintToAndSell, func() tx.Transaction {
		return &MintToAndSell{BaseTx: *tx.NewBaseTx(tx.TypeMintToAndSell, "")}
	})
	tx.Register(tx.TypeMintToAndSellWithRoyalty, func() tx.Transaction {
		return &MintToAndSellWithRoyalty{MintToAndSell: MintToAndSell{BaseTx: *tx.NewBaseTx(tx.TypeMintToAndSellWithRoyalty, "")}}
	})
}

// MintToAndSell mints Token to Owner and lists Quantity units of it at
// UnitPrice in the same transaction. Only the contract owner may submit it.
type MintToAndSell struct {
	tx.BaseTx

	Owner     string      `json:"Owner"`
	Token     string      `json:"Token"`
	Supply    uint256.Int `json:"Supply"`
	Quantity  uint256.Int `json:"Quantity"`
	UnitPrice uint256.Int `json:"UnitPrice"`
}

// NewMintToAndSell creates a new MintToAndSell transaction
func NewMintToAndSell(account, owner, token string, supply, qty, price *uint256.Int) *MintToAndSell {
	m := &MintToAndSell{
		BaseTx: *tx.NewBaseTx(tx.TypeMintToAndSell, account),
		Owner:  owner,
		Token:  token,
	}
	m.Supply.Set(supply)
	m.Quantity.Set(qty)
	m.UnitPrice.Set(price)
	return m
}

// TxType returns the transaction type
func (m *MintToAndSell) TxType() tx.Type {
	return tx.TypeMintToAndSell
}

// Validate validates the MintToAndSell transaction
func (m *MintToAndSell) Validate() error {
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

// Apply applies the MintToAndSell transaction
func (m *MintToAndSell) Apply(ctx *tx.ApplyContext) tx.Result {
	return market.MintToAndSell(ctx, m.Owner, m.Token, &m.Supply, &m.Quantity, &m.UnitPrice, nil)
}

// MintToAndSellWithRoyalty is MintToAndSell for a royalty-bearing token.
type MintToAndSellWithRoyalty struct {
	MintToAndSell

	Royalty uint8 `json:"Royalty"`
}

// NewMintToAndSellWithRoyalty creates a new MintToAndSellWithRoyalty transaction
func NewMintToAndSellWithRoyalty(account, owner, token string, supply, qty, price *uint256.Int, royalty uint8) *MintToAndSellWithRoyalty {
	m := &MintToAndSellWithRoyalty{
		MintToAndSell: *NewMintToAndSell(account, owner, token, supply, qty, price),
		Royalty:       royalty,
	}
	m.BaseTx = *tx.NewBaseTx(tx.TypeMintToAndSellWithRoyalty, account)
	return m
}

// TxType returns the transaction type
func (m *MintToAndSellWithRoyalty) TxType() tx.Type {
	return tx.TypeMintToAndSellWithRoyalty
}

// Validate validates the MintToAndSellWithRoyalty transaction
func (m *MintToAndSellWithRoyalty) Validate() error {
	if err := m.MintToAndSell.Validate(); err != nil {
		return err
	}
	if m.Royalty > entry.MaxRoyalty {
		return ErrBadRoyalty
	}
	return nil
}

// Apply applies the MintToAndSellWithRoyalty transaction
func (m *MintToAndSellWithRoyalty) Apply(ctx *tx.ApplyContext) tx.Result {
	royalty := m.Royalty
	return market.MintToAndSell(ctx, m.Owner, m.Token, &m.Supply, &m.Quantity, &m.UnitPrice, &royalty)
}
