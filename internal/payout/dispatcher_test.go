package payout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/relationaldb"
	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJournal struct {
	mu      sync.Mutex
	payouts map[string]*relationaldb.Payout
	failing bool
}

func newMemJournal() *memJournal {
	return &memJournal{payouts: make(map[string]*relationaldb.Payout)}
}

func (j *memJournal) Record(_ context.Context, p *relationaldb.Payout) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failing {
		return errors.New("journal down")
	}
	cp := *p
	j.payouts[p.ID] = &cp
	return nil
}

func (j *memJournal) set(id string, status relationaldb.PayoutStatus, attempts int, cause string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	p, ok := j.payouts[id]
	if !ok {
		return relationaldb.ErrPayoutNotFound
	}
	p.Status, p.Attempts, p.LastError = status, attempts, cause
	return nil
}

func (j *memJournal) MarkPaid(_ context.Context, id string, attempts int) error {
	return j.set(id, relationaldb.StatusPaid, attempts, "")
}

func (j *memJournal) MarkFailed(_ context.Context, id string, attempts int, cause string) error {
	return j.set(id, relationaldb.StatusFailed, attempts, cause)
}

func (j *memJournal) Get(_ context.Context, id string) (*relationaldb.Payout, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	p, ok := j.payouts[id]
	if !ok {
		return nil, relationaldb.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

func (j *memJournal) List(_ context.Context, f relationaldb.PayoutFilter) ([]relationaldb.Payout, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []relationaldb.Payout
	for _, p := range j.payouts {
		if f.Status == "" || p.Status == f.Status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (j *memJournal) Outstanding(context.Context) (map[relationaldb.PayoutStatus]int64, error) {
	return nil, nil
}

func (j *memJournal) Ping(context.Context) error { return nil }
func (j *memJournal) Close() error               { return nil }

type observed struct {
	mu    sync.Mutex
	calls []string
}

func (o *observed) ObservePayout(reason, status string, attempts int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, fmt.Sprintf("%s/%s/%d", reason, status, attempts))
}

func fastConfig() Config {
	return Config{
		Workers:         2,
		QueueSize:       16,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  50 * time.Millisecond,
	}
}

func sequentialIDs() Option {
	var n int64
	return WithIDGenerator(func() string {
		return fmt.Sprintf("p%d", atomic.AddInt64(&n, 1))
	})
}

func sale(to string, amount uint64) tx.PaymentInstruction {
	return tx.PaymentInstruction{Reason: tx.PaymentSale, To: to, Token: "7", Amount: *uint256.NewInt(amount)}
}

func TestDispatcherPaysAndJournals(t *testing.T) {
	ctrl := gomock.NewController(t)
	payer := NewMockPayer(ctrl)
	journal := newMemJournal()
	obs := &observed{}

	payer.EXPECT().Pay(gomock.Any(), "p1", sale("bob", 950)).Return(nil)
	payer.EXPECT().Pay(gomock.Any(), "p2", sale("carol", 50)).Return(nil)

	d := NewDispatcher(context.Background(), payer, journal, fastConfig(), sequentialIDs(), WithObserver(obs))
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 950), sale("carol", 50)})
	d.Stop()

	p, err := journal.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusPaid, p.Status)
	assert.Equal(t, "950", p.Amount)
	assert.Equal(t, "bob", p.Recipient)
	assert.ElementsMatch(t, []string{"sale/paid/1", "sale/paid/1"}, obs.calls)
}

func TestDispatcherRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	payer := NewMockPayer(ctrl)
	journal := newMemJournal()

	gomock.InOrder(
		payer.EXPECT().Pay(gomock.Any(), "p1", gomock.Any()).Return(errors.New("busy")).Times(2),
		payer.EXPECT().Pay(gomock.Any(), "p1", gomock.Any()).Return(nil),
	)

	d := NewDispatcher(context.Background(), payer, journal, fastConfig(), sequentialIDs())
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 1)})
	d.Stop()

	p, err := journal.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusPaid, p.Status)
	assert.Equal(t, 3, p.Attempts)
}

func TestDispatcherMarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	payer := NewMockPayer(ctrl)
	journal := newMemJournal()
	obs := &observed{}

	payer.EXPECT().Pay(gomock.Any(), "p1", gomock.Any()).Return(errors.New("unreachable")).MinTimes(1)

	d := NewDispatcher(context.Background(), payer, journal, fastConfig(), sequentialIDs(), WithObserver(obs))
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 1)})
	d.Stop()

	p, err := journal.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusFailed, p.Status)
	assert.Contains(t, p.LastError, "unreachable")
	require.Len(t, obs.calls, 1)
	assert.Contains(t, obs.calls[0], "sale/failed/")
}

func TestJournalPayerLeavesPayoutOwed(t *testing.T) {
	journal := newMemJournal()
	obs := &observed{}

	d := NewDispatcher(context.Background(), NewJournalPayer(nil), journal, fastConfig(), sequentialIDs(), WithObserver(obs))
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 5)})
	d.Stop()

	p, err := journal.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusPending, p.Status)
	assert.Equal(t, []string{"sale/pending/1"}, obs.calls)
}

func TestDispatcherPaysWhenJournalIsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	payer := NewMockPayer(ctrl)
	journal := newMemJournal()
	journal.failing = true

	payer.EXPECT().Pay(gomock.Any(), "p1", gomock.Any()).Return(nil)

	d := NewDispatcher(context.Background(), payer, journal, fastConfig(), sequentialIDs())
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 5)})
	d.Stop()
}

func TestResumeRequeuesPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	payer := NewMockPayer(ctrl)
	journal := newMemJournal()
	require.NoError(t, journal.Record(context.Background(), &relationaldb.Payout{
		ID: "old", Reason: "royalty", Recipient: "carol", Token: "7", Amount: "100", Status: relationaldb.StatusPending,
	}))
	require.NoError(t, journal.Record(context.Background(), &relationaldb.Payout{
		ID: "done", Reason: "sale", Recipient: "bob", Token: "7", Amount: "900", Status: relationaldb.StatusPaid,
	}))

	want := tx.PaymentInstruction{Reason: tx.PaymentRoyalty, To: "carol", Token: "7", Amount: *uint256.NewInt(100)}
	payer.EXPECT().Pay(gomock.Any(), "old", want).Return(nil)

	d := NewDispatcher(context.Background(), payer, journal, fastConfig())
	n, err := d.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	d.Stop()

	p, err := journal.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusPaid, p.Status)
}

func TestFullQueueLeavesPayoutPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	payer := NewMockPayer(ctrl)
	journal := newMemJournal()

	started := make(chan struct{})
	release := make(chan struct{})
	payer.EXPECT().Pay(gomock.Any(), "p1", gomock.Any()).DoAndReturn(
		func(context.Context, string, tx.PaymentInstruction) error {
			close(started)
			<-release
			return nil
		})
	payer.EXPECT().Pay(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	config := fastConfig()
	config.Workers, config.QueueSize = 1, 1
	d := NewDispatcher(context.Background(), payer, journal, config, sequentialIDs())

	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 1)})
	<-started

	// The only worker is busy and the queue holds one task; the caller must
	// not wait for room.
	returned := make(chan struct{})
	go func() {
		d.HandlePayments([]tx.PaymentInstruction{sale("carol", 2), sale("dave", 3)})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("HandlePayments blocked on a full queue")
	}
	close(release)
	d.Stop()

	all, err := journal.List(context.Background(), relationaldb.PayoutFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	pending, err := journal.List(context.Background(), relationaldb.PayoutFilter{Status: relationaldb.StatusPending})
	require.NoError(t, err)
	require.NotEmpty(t, pending)

	ctrl2 := gomock.NewController(t)
	payer2 := NewMockPayer(ctrl2)
	for _, p := range pending {
		payer2.EXPECT().Pay(gomock.Any(), p.ID, gomock.Any()).Return(nil)
	}
	d2 := NewDispatcher(context.Background(), payer2, journal, fastConfig())
	n, err := d2.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(pending), n)
	d2.Stop()

	paid, err := journal.List(context.Background(), relationaldb.PayoutFilter{Status: relationaldb.StatusPaid})
	require.NoError(t, err)
	assert.Len(t, paid, 3)
}

func TestWebhookPayer(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body webhookBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, webhookBody{ID: "p1", Reason: "sale", To: "bob", Token: "7", Amount: "950"}, body)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	journal := newMemJournal()
	d := NewDispatcher(context.Background(), NewWebhookPayer(srv.URL, time.Second), journal, fastConfig(), sequentialIDs())
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 950)})
	d.Stop()

	p, err := journal.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusPaid, p.Status)
	assert.Equal(t, 2, p.Attempts)
}

func TestWebhookPayerClientErrorIsFinal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown recipient", http.StatusBadRequest)
	}))
	defer srv.Close()

	journal := newMemJournal()
	d := NewDispatcher(context.Background(), NewWebhookPayer(srv.URL, time.Second), journal, fastConfig(), sequentialIDs())
	d.HandlePayments([]tx.PaymentInstruction{sale("bob", 950)})
	d.Stop()

	p, err := journal.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusFailed, p.Status)
	assert.Equal(t, 1, p.Attempts)
	assert.Contains(t, p.LastError, "unknown recipient")
}
