// Package token provides builders for token movement transactions and the
// scenario tests for transfer, delegation and burn.
package token

import (
	"github.com/LeJamon/goMarketd/internal/core/tx"
	tokentx "github.com/LeJamon/goMarketd/internal/core/tx/token"
	"github.com/holiman/uint256"
)

// TransferBuilder provides a fluent interface for building TransferFrom and
// BatchTransferFrom transactions.
type TransferBuilder struct {
	caller string
	owner  string
	to     string
	tokens []string
	qtys   []uint256.Int
}

// Transfer creates a new TransferBuilder moving units from owner to to.
// The owner submits the transaction unless By is called.
func Transfer(owner, to string) *TransferBuilder {
	return &TransferBuilder{caller: owner, owner: owner, to: to}
}

// Units adds qty units of token to the transfer.
func (b *TransferBuilder) Units(token string, qty uint64) *TransferBuilder {
	b.tokens = append(b.tokens, token)
	b.qtys = append(b.qtys, *uint256.NewInt(qty))
	return b
}

// By sets the submitting account, typically a delegate of the owner.
func (b *TransferBuilder) By(caller string) *TransferBuilder {
	b.caller = caller
	return b
}

// Build constructs a TransferFrom when exactly one token was added and a
// BatchTransferFrom otherwise.
func (b *TransferBuilder) Build() tx.Transaction {
	if len(b.tokens) == 1 {
		return tokentx.NewTransferFrom(b.caller, b.owner, b.to, b.tokens[0], &b.qtys[0])
	}
	return tokentx.NewBatchTransferFrom(b.caller, b.owner, b.to, b.tokens, b.qtys)
}

// Burn builds a Burn transaction submitted by owner.
func Burn(owner, token string, qty uint64) tx.Transaction {
	return tokentx.NewBurn(owner, owner, token, uint256.NewInt(qty))
}
