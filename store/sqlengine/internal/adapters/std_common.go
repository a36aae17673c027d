package adapters

import (
	"context"
	"database/sql"
)

// stdQuerier is the common surface of *sql.DB, *sql.Tx, *sqlx.DB, and *sqlx.Tx.
type stdQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func stdQuery(ctx context.Context, q stdQuerier, query string, args []any) (DBRows, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func stdExec(ctx context.Context, q stdQuerier, query string, args []any) (DBResult, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// stdRows wraps standard library sql.Rows to implement the DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdTx wraps *sql.Tx and *sqlx.Tx.
type stdTx struct {
	tx interface {
		stdQuerier
		Commit() error
		Rollback() error
	}
}

func (t *stdTx) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	return stdQuery(ctx, t.tx, query, args)
}

func (t *stdTx) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return stdExec(ctx, t.tx, query, args)
}

func (t *stdTx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t *stdTx) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}
