// Package memory provides an in-process DB implementation, used for tests
// and for running the engine without persistence.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/LeJamon/goMarketd/internal/storage/database"
)

type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewDB() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, database.ErrDBClosed
	}
	val, ok := m.data[string(key)]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	return bytes.Clone(val), nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}
	m.data[string(key)] = bytes.Clone(value)
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}
	delete(m.data, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}

	// Validate first so a bad op leaves the map untouched.
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			m.data[string(op.Key)] = bytes.Clone(op.Value)
		case database.BatchDelete:
			delete(m.data, string(op.Key))
		}
	}
	return nil
}

// Iterator takes a snapshot of the matching keys; writes made after the
// call are not observed.
func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, database.ErrDBClosed
	}

	keys := make([]string, 0)
	for k := range m.data {
		kb := []byte(k)
		if start != nil && bytes.Compare(kb, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(kb, end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = bytes.Clone(m.data[k])
	}
	return &Iterator{keys: keys, values: values, pos: -1}, nil
}

// Close marks the database closed and drops its contents.
func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}

type Iterator struct {
	keys   []string
	values [][]byte
	pos    int
}

func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		it.pos = len(it.keys)
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.keys) {
		return nil
	}
	return []byte(it.keys[it.pos])
}

func (it *Iterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.values) {
		return nil
	}
	return it.values[it.pos]
}

func (it *Iterator) Error() error {
	return nil
}

func (it *Iterator) Close() error {
	return nil
}
