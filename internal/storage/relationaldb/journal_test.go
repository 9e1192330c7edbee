package relationaldb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockJournal(t *testing.T) (*Journal, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	j := NewJournal(db, time.Second)
	j.now = func() time.Time { return time.Unix(1700000000, 0) }
	t.Cleanup(func() { db.Close() })
	return j, mock
}

func TestRecordInsertsPending(t *testing.T) {
	j, mock := newMockJournal(t)
	ts := time.Unix(1700000000, 0).UnixNano()
	mock.ExpectExec("INSERT INTO payouts").
		WithArgs("p1", "sale", "bob", "7", "950", "pending", 0, "", ts, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := &Payout{ID: "p1", Reason: "sale", Recipient: "bob", Token: "7", Amount: "950"}
	require.NoError(t, j.Record(context.Background(), p))
	assert.Equal(t, StatusPending, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	j, mock := newMockJournal(t)
	err := j.Record(context.Background(), &Payout{ID: "p1", Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFails(t *testing.T) {
	j, mock := newMockJournal(t)
	mock.ExpectExec("INSERT INTO payouts").WillReturnError(fmt.Errorf("pop"))

	err := j.Record(context.Background(), &Payout{ID: "p1"})
	require.Error(t, err)
	assert.Regexp(t, "record: failed to insert payout.*pop", err.Error())
	var dbErr *DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, ErrorTypeQuery, dbErr.Type)
}

func TestMarkPaidUnknownID(t *testing.T) {
	j, mock := newMockJournal(t)
	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs("paid", 1, "", sqlmock.AnyArg(), "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := j.MarkPaid(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, ErrPayoutNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailedRecordsCause(t *testing.T) {
	j, mock := newMockJournal(t)
	mock.ExpectExec("UPDATE payouts SET status").
		WithArgs("failed", 3, "timeout", sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, j.MarkFailed(context.Background(), "p1", 3, "timeout"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBuildsFilter(t *testing.T) {
	j, mock := newMockJournal(t)
	ts := time.Unix(1700000000, 0).UnixNano()
	rows := sqlmock.NewRows([]string{"id", "reason", "recipient", "token", "amount", "status", "attempts", "last_error", "created_at", "updated_at"}).
		AddRow("p1", "royalty", "carol", "7", "100", "failed", 5, "down", ts, ts)
	mock.ExpectQuery(`SELECT .* FROM payouts WHERE status = \$1 AND recipient = \$2 ORDER BY created_at, id LIMIT \$3`).
		WithArgs("failed", "carol", 10).
		WillReturnRows(rows)

	out, err := j.List(context.Background(), PayoutFilter{Status: StatusFailed, Recipient: "carol", Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "down", out[0].LastError)
	assert.Equal(t, 5, out[0].Attempts)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), out[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissing(t *testing.T) {
	j, mock := newMockJournal(t)
	mock.ExpectQuery("SELECT .* FROM payouts WHERE id").
		WithArgs("p9").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := j.Get(context.Background(), "p9")
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestConfigValidate(t *testing.T) {
	c := NewConfig()
	c.Driver = "sqlite3"
	require.NoError(t, c.Validate())
	assert.Equal(t, DriverSQLite, c.Driver)

	c = PostgresConfig("postgres://localhost/marketd")
	require.NoError(t, c.Validate())

	c = NewConfig()
	c.Driver = "mysql"
	assert.ErrorIs(t, c.Validate(), ErrInvalidDriver)

	c = NewConfig()
	c.DSN = ""
	assert.ErrorIs(t, c.Validate(), ErrMissingDSN)

	c = NewConfig()
	c.MaxIdleConns = 10
	assert.ErrorIs(t, c.Validate(), ErrMaxIdleExceedsMaxOpen)
}

func TestSQLiteJournalE2E(t *testing.T) {
	ctx := context.Background()
	cfg := SQLiteConfig("file:" + filepath.Join(t.TempDir(), "payouts.db"))
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	j, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer j.Close()

	for i, to := range []string{"bob", "carol", "treasury"} {
		require.NoError(t, j.Record(ctx, &Payout{
			ID: fmt.Sprintf("p%d", i), Reason: "sale", Recipient: to, Token: "7", Amount: "10",
		}))
	}
	require.NoError(t, j.MarkPaid(ctx, "p0", 1))
	require.NoError(t, j.MarkFailed(ctx, "p1", 4, "unreachable"))

	p, err := j.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, p.Status)
	assert.Equal(t, "unreachable", p.LastError)

	pending, err := j.List(ctx, PayoutFilter{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "treasury", pending[0].Recipient)

	counts, err := j.Outstanding(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[PayoutStatus]int64{StatusPaid: 1, StatusFailed: 1, StatusPending: 1}, counts)

	// Reopening keeps the journal.
	require.NoError(t, j.Close())
	j, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer j.Close()
	all, err := j.List(ctx, PayoutFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
