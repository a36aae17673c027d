package sqlengine

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/stanleyamo/library-management-system/store"
)

// SQLSTATE codes PostgreSQL uses when it aborts a transaction in favour of a concurrent one.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

const logMsgLockContention = "lock contention, reporting a concurrency conflict"

// isLockContention reports whether err means the database gave way to a concurrent writer.
// Such statements succeed when the unit of work is run again.
func isLockContention(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == sqlStateSerializationFailure || pqErr.Code == sqlStateDeadlockDetected
	}

	return false
}

// driverError wraps a failed driver call. Lock contention becomes store.ErrConcurrencyConflict,
// which the command handlers retry; anything else is logged and joined with sentinel.
func (e *Engine) driverError(ctx context.Context, sentinel, err error, msg string, args ...any) error {
	if isLockContention(err) {
		e.logInfo(ctx, logMsgLockContention, append([]any{logAttrError, err.Error()}, args...)...)
		return errors.Join(store.ErrConcurrencyConflict, err)
	}

	e.logError(ctx, msg, err, args...)

	return errors.Join(sentinel, err)
}
