package adapters

import "context"

// Querier runs SQL statements with positional arguments.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the engine.
type DBAdapter interface {
	Querier
	BeginTx(ctx context.Context) (TxAdapter, error)
}

// TxAdapter is a running database transaction.
type TxAdapter interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
