package relationaldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

// Journal implements PayoutRepository over database/sql. The schema and
// statements are shared by SQLite and PostgreSQL: both accept $N
// placeholders and timestamps are stored as unix nanoseconds.
type Journal struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS payouts (
		id TEXT PRIMARY KEY,
		reason TEXT NOT NULL,
		recipient TEXT NOT NULL,
		token TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payouts_status ON payouts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_payouts_recipient ON payouts(recipient)`,
}

const payoutColumns = "id, reason, recipient, token, amount, status, attempts, last_error, created_at, updated_at"

// Open connects to the configured database and initializes the schema.
func Open(ctx context.Context, config *Config) (*Journal, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigurationError("open", "invalid configuration", err)
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, NewConnectionError("open", "failed to open database connection", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	j := NewJournal(db, config.DefaultTimeout)
	if err := j.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := j.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// NewJournal wraps an open connection. InitSchema must have run against
// the database at least once.
func NewJournal(db *sql.DB, timeout time.Duration) *Journal {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Journal{db: db, timeout: timeout, now: time.Now}
}

// InitSchema creates the payout table and its indexes if missing.
func (j *Journal) InitSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	for _, query := range schema {
		if _, err := j.db.ExecContext(ctx, query); err != nil {
			return NewSchemaError("init_schema", "failed to execute schema query", err)
		}
	}
	return nil
}

func (j *Journal) Record(ctx context.Context, p *Payout) error {
	if p.Status == "" {
		p.Status = StatusPending
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, p.Status)
	}
	now := j.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO payouts (`+payoutColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Reason, p.Recipient, p.Token, p.Amount, string(p.Status), p.Attempts, p.LastError,
		p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano())
	if err != nil {
		return NewQueryError("record", "failed to insert payout", err)
	}
	return nil
}

func (j *Journal) MarkPaid(ctx context.Context, id string, attempts int) error {
	return j.setStatus(ctx, "mark_paid", id, StatusPaid, attempts, "")
}

func (j *Journal) MarkFailed(ctx context.Context, id string, attempts int, cause string) error {
	return j.setStatus(ctx, "mark_failed", id, StatusFailed, attempts, cause)
}

func (j *Journal) setStatus(ctx context.Context, op, id string, status PayoutStatus, attempts int, cause string) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	res, err := j.db.ExecContext(ctx,
		`UPDATE payouts SET status = $1, attempts = $2, last_error = $3, updated_at = $4 WHERE id = $5`,
		string(status), attempts, cause, j.now().UTC().UnixNano(), id)
	if err != nil {
		return NewQueryError(op, "failed to update payout", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewQueryError(op, "failed to read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrPayoutNotFound)
	}
	return nil
}

func (j *Journal) Get(ctx context.Context, id string) (*Payout, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	row := j.db.QueryRowContext(ctx, `SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id)
	p, err := scanPayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPayoutNotFound
	}
	if err != nil {
		return nil, NewQueryError("get", "failed to query payout", err)
	}
	return p, nil
}

func (j *Journal) List(ctx context.Context, filter PayoutFilter) ([]Payout, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Recipient != "" {
		args = append(args, filter.Recipient)
		where = append(where, fmt.Sprintf("recipient = $%d", len(args)))
	}

	query := `SELECT ` + payoutColumns + ` FROM payouts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewQueryError("list", "failed to query payouts", err)
	}
	defer rows.Close()

	var out []Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, NewQueryError("list", "failed to scan payout", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("list", "failed to iterate payouts", err)
	}
	return out, nil
}

func (j *Journal) Outstanding(ctx context.Context) (map[PayoutStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	rows, err := j.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM payouts GROUP BY status`)
	if err != nil {
		return nil, NewQueryError("outstanding", "failed to count payouts", err)
	}
	defer rows.Close()

	out := make(map[PayoutStatus]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, NewQueryError("outstanding", "failed to scan count", err)
		}
		out[PayoutStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("outstanding", "failed to iterate counts", err)
	}
	return out, nil
}

// Ping tests the database connection
func (j *Journal) Ping(ctx context.Context) error {
	if j.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if err := j.db.PingContext(ctx); err != nil {
		return NewConnectionError("ping", "database ping failed", err)
	}
	return nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	if err != nil {
		return NewConnectionError("close", "failed to close database connection", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPayout(s scanner) (*Payout, error) {
	var (
		p                Payout
		status           string
		created, updated int64
	)
	err := s.Scan(&p.ID, &p.Reason, &p.Recipient, &p.Token, &p.Amount, &status,
		&p.Attempts, &p.LastError, &created, &updated)
	if err != nil {
		return nil, err
	}
	p.Status = PayoutStatus(status)
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return &p, nil
}
