package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// Executor runs parameterized statements against a DBTX and decodes result
// rows. Arguments are always passed to the driver as bound positional
// parameters; nothing is ever interpolated into the query text.
//
// An Executor built with NewExecutor is backed by the connection pool; the
// one handed to a WithTx callback is bound to that transaction's connection.
type Executor struct {
	db   DBTX
	root *sql.DB // nil when transaction-bound
	dec  *decoder
}

// Option configures an Executor.
type Option func(*options)

type options struct {
	allowedTags []string
}

// WithAllowedHTMLTags sets the markup allow-list applied to every decoded
// string column. Without it all markup is stripped.
func WithAllowedHTMLTags(tags ...string) Option {
	return func(o *options) {
		o.allowedTags = tags
	}
}

// NewExecutor builds an Executor over the given pool.
func NewExecutor(db *sql.DB, opts ...Option) *Executor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Executor{db: db, root: db, dec: newDecoder(o.allowedTags)}
}

// Query runs a parameterized select and returns the statement handle.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (*Statement, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return newStatement(rows, e.dec)
}

// SelectAll runs a select and drains every decoded row.
func (e *Executor) SelectAll(ctx context.Context, query string, args ...any) ([]Record, error) {
	stmt, err := e.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return stmt.All()
}

// SelectSingle runs a select and returns the first decoded row, or
// (nil, nil) when the result set is empty. Absence is not an error.
func (e *Executor) SelectSingle(ctx context.Context, query string, args ...any) (Record, error) {
	stmt, err := e.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.Next()
}

// Exec runs a mutating statement and returns the number of affected rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// LastInsertedID returns the identifier generated by the most recent insert
// on this executor's connection. The value is connection-scoped, so it is
// only reliable inside WithTx and must be read before any further statement.
func (e *Executor) LastInsertedID(ctx context.Context) (int64, error) {
	var id int64
	if err := e.db.QueryRowContext(ctx, `SELECT LASTVAL()`).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// InTx reports whether the executor is bound to an open transaction.
func (e *Executor) InTx() bool {
	return e.root == nil
}

// WithTx runs fn with a transaction-bound executor sharing this executor's
// decoder. Commits when fn returns nil, rolls back on error or panic. When
// already inside a transaction, fn runs on the current one.
func (e *Executor) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Executor) error) error {
	if e.InTx() {
		return fn(ctx, e)
	}
	return WithTx(ctx, e.root, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &Executor{db: tx, dec: e.dec})
	})
}
