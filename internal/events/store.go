package events

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/ugorji/go/codec"
)

// Key layout inside the ledger database. Neither prefix is an entry type.
const (
	eventPrefix   = 'E'
	counterPrefix = 'N'
)

var (
	counterKey = []byte{counterPrefix}
	mh         = &codec.MsgpackHandle{}
)

// StoreSink persists the event log in a key-value database. Each event is
// stored under E | index (8 bytes, big endian) and the length under N.
type StoreSink struct {
	mu  sync.Mutex
	db  database.DB
	len uint64
}

// NewStoreSink opens the log kept in db.
func NewStoreSink(db database.DB) (*StoreSink, error) {
	s := &StoreSink{db: db}
	raw, err := db.Read(context.Background(), counterKey)
	switch {
	case errors.Is(err, database.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("read event counter: %w", err)
	case len(raw) != 8:
		return nil, fmt.Errorf("corrupt event counter (%d bytes)", len(raw))
	default:
		s.len = binary.BigEndian.Uint64(raw)
	}
	return s, nil
}

func eventKey(index uint64) []byte {
	k := make([]byte, 9)
	k[0] = eventPrefix
	binary.BigEndian.PutUint64(k[1:], index)
	return k
}

// Append writes events and the new length in one batch.
func (s *StoreSink) Append(events []tx.Event) error {
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := make([]database.BatchOperation, 0, len(events)+1)
	next := s.len
	for _, e := range events {
		var data []byte
		if err := codec.NewEncoderBytes(&data, mh).Encode(e.Record()); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		ops = append(ops, database.Put(eventKey(next), data))
		next++
	}
	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, next)
	ops = append(ops, database.Put(counterKey, counter))

	if err := s.db.Batch(context.Background(), ops); err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	s.len = next
	return nil
}

func (s *StoreSink) Get(index uint64) (tx.Event, error) {
	s.mu.Lock()
	n := s.len
	s.mu.Unlock()
	if index >= n {
		return tx.Event{}, ErrOutOfRange
	}

	raw, err := s.db.Read(context.Background(), eventKey(index))
	if err != nil {
		return tx.Event{}, fmt.Errorf("read event %d: %w", index, err)
	}
	var rec []string
	if err := codec.NewDecoderBytes(raw, mh).Decode(&rec); err != nil {
		return tx.Event{}, fmt.Errorf("decode event %d: %w", index, err)
	}
	if len(rec) == 0 {
		return tx.Event{}, fmt.Errorf("event %d is empty", index)
	}
	return tx.Event{Type: rec[0], Fields: rec[1:]}, nil
}

func (s *StoreSink) Len() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.len, nil
}
