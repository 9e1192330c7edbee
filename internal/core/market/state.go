// Package market implements the token ledger and marketplace operations on
// top of a tx.LedgerView. Every exported mutator returns a tx.Result and
// leaves rollback to the caller's staging table.
package market

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// entryPtr constrains a pointer-to-entry type so read can allocate T.
type entryPtr[T any] interface {
	*T
	entry.Entry
}

// read loads and decodes k. It returns nil when the entry is absent.
func read[T any, P entryPtr[T]](v tx.ReadView, k keylet.Keylet) (P, error) {
	data, err := v.Read(k)
	if err != nil || data == nil {
		return nil, err
	}
	e := P(new(T))
	if err := entry.Decode(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// put encodes e and inserts or updates it at k.
func put(v tx.LedgerView, k keylet.Keylet, e entry.Entry) error {
	data, err := entry.Encode(e)
	if err != nil {
		return err
	}
	exists, err := v.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return v.Update(k, data)
	}
	return v.Insert(k, data)
}

// erase removes k if present.
func erase(v tx.LedgerView, k keylet.Keylet) error {
	exists, err := v.Exists(k)
	if err != nil || !exists {
		return err
	}
	return v.Erase(k)
}
