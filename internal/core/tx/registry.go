package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory builds an empty transaction of one type.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]Factory)
)

// Register associates a factory with a transaction type. Transaction
// packages call it from init; registering a type twice panics.
func Register(t Type, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[t]; dup {
		panic(fmt.Sprintf("tx: duplicate registration of %s", t))
	}
	registry[t] = f
}

// NewFromType creates a new transaction of the given type
func NewFromType(txType Type) (Transaction, error) {
	registryMu.RLock()
	f, ok := registry[txType]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, txType)
	}
	return f(), nil
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	// First, unmarshal to get the TransactionType
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionType, raw.TransactionType)
	}

	// Create the appropriate transaction type
	tx, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}

	// Unmarshal into the specific type
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, err
	}

	return tx, nil
}
