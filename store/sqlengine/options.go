package sqlengine

import (
	"database/sql"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

const (
	// DialectPostgres selects PostgreSQL SQL and DDL. It is the default.
	DialectPostgres = "postgres"

	// DialectSQLite selects SQLite SQL and DDL.
	DialectSQLite = "sqlite3"
)

var (
	// ErrInvalidTableNamePrefix is returned for prefixes that are not plain lowercase identifiers.
	ErrInvalidTableNamePrefix = errors.New("table name prefix must match [a-z_][a-z0-9_]*")

	// ErrNilIDGenerator is returned when WithIDGenerator receives nil.
	ErrNilIDGenerator = errors.New("id generator must not be nil")
)

var tableNamePrefixPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithDialect selects the SQL dialect. Only DialectPostgres and DialectSQLite are supported.
func WithDialect(dialect string) Option {
	return func(e *Engine) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
			e.dialect = dialect
			return nil
		default:
			return store.ErrUnsupportedDialect
		}
	}
}

// WithTableNamePrefix prefixes the books, transactions, and fines tables, e.g. "lib_".
func WithTableNamePrefix(prefix string) Option {
	return func(e *Engine) error {
		if !tableNamePrefixPattern.MatchString(prefix) {
			return ErrInvalidTableNamePrefix
		}

		e.tables = newTableNames(prefix)

		return nil
	}
}

// WithIDGenerator replaces uuid.New, e.g. for deterministic ids in tests.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) error {
		if fn == nil {
			return ErrNilIDGenerator
		}

		e.newID = fn

		return nil
	}
}

// WithPGXReplica routes eventually consistent reads to a replica pool.
func WithPGXReplica(replica *pgxpool.Pool) Option {
	return func(e *Engine) error {
		if replica == nil {
			return store.ErrNilDatabaseConnection
		}

		e.replica = adapters.NewPGXAdapter(replica)

		return nil
	}
}

// WithSQLReplica routes eventually consistent reads to a replica sql.DB.
func WithSQLReplica(replica *sql.DB) Option {
	return func(e *Engine) error {
		if replica == nil {
			return store.ErrNilDatabaseConnection
		}

		e.replica = adapters.NewSQLAdapter(replica)

		return nil
	}
}

// WithSQLXReplica routes eventually consistent reads to a replica sqlx.DB.
func WithSQLXReplica(replica *sqlx.DB) Option {
	return func(e *Engine) error {
		if replica == nil {
			return store.ErrNilDatabaseConnection
		}

		e.replica = adapters.NewSQLXAdapter(replica)

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: concurrency conflicts and invariant violations (production-safe)
// Warn level: non-critical issues like rollback or cleanup failures
// Error level: database failures that cause operation failures.
func WithLogger(logger store.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, which correlates log records with active traces.
func WithContextualLogger(logger store.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives operation durations, database errors, and concurrency conflicts.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine; every store operation becomes a span.
func WithTracing(collector store.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}
