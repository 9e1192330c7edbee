// Package ledger holds the persistent ledger state: a LedgerView over a
// key-value database, fronted by an LRU read cache.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/database"
)

// Ledger is the committed state. It implements tx.LedgerView and
// tx.Committer; the engine only ever writes to it through Commit.
type Ledger struct {
	mu    sync.RWMutex
	db    database.DB
	cache *EntryCache
}

// New returns a Ledger over db with a read cache of cacheSize entries.
func New(db database.DB, cacheSize int) (*Ledger, error) {
	cache, err := NewEntryCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db, cache: cache}, nil
}

// DB returns the underlying database
func (l *Ledger) DB() database.DB {
	return l.db
}

// Cache returns the read cache
func (l *Ledger) Cache() *EntryCache {
	return l.cache
}

// Read reads a ledger entry. Absent entries return (nil, nil).
func (l *Ledger) Read(k keylet.Keylet) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.read(k)
}

func (l *Ledger) read(k keylet.Keylet) ([]byte, error) {
	if data, ok := l.cache.Get(k); ok {
		return data, nil
	}

	data, err := l.db.Read(context.Background(), k.Bytes())
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", k, err)
	}
	l.cache.Add(k, data)
	return data, nil
}

// Exists checks if an entry exists
func (l *Ledger) Exists(k keylet.Keylet) (bool, error) {
	data, err := l.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Insert adds a new entry
func (l *Ledger) Insert(k keylet.Keylet, data []byte) error {
	return l.Commit([]tx.Change{{Action: tx.ActionInsert, Key: k, Data: data}})
}

// Update modifies an existing entry
func (l *Ledger) Update(k keylet.Keylet, data []byte) error {
	return l.Commit([]tx.Change{{Action: tx.ActionModify, Key: k, Data: data}})
}

// Erase removes an entry
func (l *Ledger) Erase(k keylet.Keylet) error {
	return l.Commit([]tx.Change{{Action: tx.ActionErase, Key: k}})
}

// Commit writes changes as a single database batch, then refreshes the cache.
func (l *Ledger) Commit(changes []tx.Change) error {
	if len(changes) == 0 {
		return nil
	}

	ops := make([]database.BatchOperation, 0, len(changes))
	for _, c := range changes {
		switch c.Action {
		case tx.ActionInsert, tx.ActionModify:
			ops = append(ops, database.Put(c.Key.Bytes(), c.Data))
		case tx.ActionErase:
			ops = append(ops, database.Del(c.Key.Bytes()))
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.db.Batch(context.Background(), ops); err != nil {
		// The batch may or may not have landed; drop cached copies so the
		// next read goes to the database.
		for _, c := range changes {
			l.cache.Remove(c.Key)
		}
		return fmt.Errorf("%w: %v", database.ErrBatchOperationFailed, err)
	}

	for _, c := range changes {
		if c.Action == tx.ActionErase {
			l.cache.Remove(c.Key)
		} else {
			l.cache.Add(c.Key, c.Data)
		}
	}
	return nil
}

// ForEach iterates over entries whose key bytes start with prefix, in key order.
func (l *Ledger) ForEach(prefix []byte, fn func(k keylet.Keylet, data []byte) bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	it, err := l.db.Iterator(context.Background(), prefix, database.PrefixEnd(prefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		k, err := keylet.Parse(it.Key())
		if err != nil {
			// Keys outside the entry namespace (e.g. the event log) are skipped.
			continue
		}
		if !fn(k, it.Value()) {
			break
		}
	}
	return it.Error()
}
