package database

import (
	"context"
)

// DB defines the basic operations any database implementation must support
type DB interface {
	// Basic operations
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch operations are applied atomically: either every operation
	// lands or none does.
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iteration over [start, end). A nil end iterates to the last key.
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Iterator allows traversing over database entries
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Manager opens named databases under a common root and owns their lifetime.
type Manager interface {
	OpenDB(name string) (DB, error)
	CloseDB(name string) error
	Close() error
}

// BatchOperation represents a single operation in a batch
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)

// Put returns a BatchPut operation for key.
func Put(key, value []byte) BatchOperation {
	return BatchOperation{Type: BatchPut, Key: key, Value: value}
}

// Del returns a BatchDelete operation for key.
func Del(key []byte) BatchOperation {
	return BatchOperation{Type: BatchDelete, Key: key}
}

// PrefixEnd returns the smallest key strictly greater than every key that
// starts with prefix, or nil if no such key exists.
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
