package store

import (
	"errors"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvariantViolation is returned when a copy count would leave [0, TotalCopies].
	ErrInvariantViolation = errors.New("copy count would leave the range [0, total copies]")

	// ErrConcurrencyConflict is returned when a conditional status transition matched no row.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrNilDatabaseConnection is returned when an engine is built without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrUnsupportedDialect is returned for SQL dialects the engine has no schema for.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrBuildingQueryFailed is returned when a SQL statement cannot be built.
	ErrBuildingQueryFailed = errors.New("building the sql query failed")

	// ErrQueryingFailed is returned when a SQL statement fails to execute.
	ErrQueryingFailed = errors.New("querying the database failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be decoded.
	ErrScanningDBRowFailed = errors.New("scanning the database row failed")

	// ErrRowsAffectedFailed is returned when the affected row count cannot be read.
	ErrRowsAffectedFailed = errors.New("reading the affected rows failed")

	// ErrTransactionFailed is returned when a unit of work cannot begin, commit, or roll back.
	ErrTransactionFailed = errors.New("database transaction failed")
)
