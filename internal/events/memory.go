package events

import (
	"sync"

	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// MemorySink keeps the event log in memory.
type MemorySink struct {
	mu     sync.RWMutex
	events []tx.Event
}

// NewMemorySink returns an empty in-memory log.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Append(events []tx.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		m.events = append(m.events, tx.Event{Type: e.Type, Fields: append([]string(nil), e.Fields...)})
	}
	return nil
}

func (m *MemorySink) Get(index uint64) (tx.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index >= uint64(len(m.events)) {
		return tx.Event{}, ErrOutOfRange
	}
	return m.events[index], nil
}

func (m *MemorySink) Len() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.events)), nil
}

// All returns a copy of every event.
func (m *MemorySink) All() []tx.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]tx.Event(nil), m.events...)
}
