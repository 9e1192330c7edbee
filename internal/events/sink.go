// Package events holds the append-only event log and its mirrors.
//
// The engine appends the events of each committed transaction to a Sink.
// A Sink is indexed from zero and never rewritten; mirrors (NATS, websocket
// clients) receive the same events on a best-effort basis.
package events

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"go.uber.org/zap"
)

// ErrOutOfRange is returned by Get for an index at or past Len.
var ErrOutOfRange = errors.New("event index out of range")

// Sink is the readable event log.
type Sink interface {
	tx.EventSink
	// Get returns the event at index.
	Get(index uint64) (tx.Event, error)
	// Len returns the number of events appended so far.
	Len() (uint64, error)
}

// Fanout appends to a primary Sink and mirrors every appended batch to
// secondary sinks. Mirror failures are logged and never fail the append.
type Fanout struct {
	Sink
	mirrors []tx.EventSink
	log     *zap.Logger
}

// NewFanout returns a Fanout over primary.
func NewFanout(primary Sink, log *zap.Logger, mirrors ...tx.EventSink) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{Sink: primary, mirrors: mirrors, log: log}
}

// AddMirror registers another mirror.
func (f *Fanout) AddMirror(m tx.EventSink) {
	f.mirrors = append(f.mirrors, m)
}

// Append implements tx.EventSink.
func (f *Fanout) Append(events []tx.Event) error {
	if err := f.Sink.Append(events); err != nil {
		return err
	}
	for _, m := range f.mirrors {
		if err := m.Append(events); err != nil {
			f.log.Warn("event mirror failed", zap.Error(err), zap.Int("events", len(events)))
		}
	}
	return nil
}
