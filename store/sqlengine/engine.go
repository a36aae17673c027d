package sqlengine

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

// Engine is a store.Engine on top of a SQL database.
type Engine struct {
	db               adapters.DBAdapter
	replica          adapters.Querier
	dialect          string
	tables           tableNames
	newID            func() uuid.UUID
	logger           store.Logger
	contextualLogger store.ContextualLogger
	metricsCollector store.MetricsCollector
	tracingCollector store.TracingCollector
}

type tableNames struct {
	books        string
	transactions string
	fines        string
}

func newTableNames(prefix string) tableNames {
	return tableNames{
		books:        prefix + "books",
		transactions: prefix + "transactions",
		fines:        prefix + "fines",
	}
}

// NewEngineFromPGXPool creates an Engine using a pgx Pool. Only DialectPostgres is allowed.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	e, err := newEngine(adapters.NewPGXAdapter(db), options)
	if err != nil {
		return nil, err
	}

	if e.dialect != DialectPostgres {
		return nil, store.ErrUnsupportedDialect
	}

	return e, nil
}

// NewEngineFromSQLDB creates an Engine using a sql.DB, e.g. with the lib/pq or go-sqlite3 driver.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options)
}

// NewEngineFromSQLX creates an Engine using a sqlx.DB.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options)
}

func newEngine(db adapters.DBAdapter, options []Option) (*Engine, error) {
	e := &Engine{
		db:      db,
		dialect: DialectPostgres,
		tables:  newTableNames(""),
		newID:   uuid.New,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Dialect returns the configured SQL dialect.
func (e *Engine) Dialect() string {
	return e.dialect
}

// Catalog returns the Catalog Store; each call runs in its own database transaction.
func (e *Engine) Catalog() store.CatalogStore {
	return catalog{s: session{engine: e}}
}

// Ledger returns the Ledger Store; each call runs in its own database transaction.
func (e *Engine) Ledger() store.LedgerStore {
	return ledger{s: session{engine: e}}
}

// Fines returns the Fine Store; each call runs in its own database transaction.
func (e *Engine) Fines() store.FineStore {
	return fines{s: session{engine: e}}
}

// Atomically runs fn inside one database transaction. The transaction commits only
// when fn returns nil; otherwise it is rolled back and fn's error is returned unchanged.
func (e *Engine) Atomically(ctx context.Context, fn store.UnitOfWorkFunc) error {
	return e.inTransaction(ctx, func(tx adapters.TxAdapter) error {
		return fn(ctx, unitOfWork{s: session{engine: e, tx: tx}})
	})
}

func (e *Engine) inTransaction(ctx context.Context, fn func(tx adapters.TxAdapter) error) error {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return e.driverError(ctx, store.ErrTransactionFailed, err, logMsgBeginTxFailed)
	}

	if err = fn(tx); err != nil {
		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			e.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
		}

		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.driverError(ctx, store.ErrTransactionFailed, err, logMsgCommitFailed)
	}

	return nil
}

func (e *Engine) builder() goqu.DialectWrapper {
	return goqu.Dialect(e.dialect)
}

// unitOfWork exposes the stores bound to one database transaction.
type unitOfWork struct {
	s session
}

func (u unitOfWork) Catalog() store.CatalogStore { return catalog(u) }
func (u unitOfWork) Ledger() store.LedgerStore   { return ledger(u) }
func (u unitOfWork) Fines() store.FineStore      { return fines(u) }

// session routes statements either to the transaction of a running unit of work,
// or, for standalone store calls, to the primary (writes) or an optional replica (reads).
type session struct {
	engine *Engine
	tx     adapters.TxAdapter
}

// reader picks the connection for a read-only statement.
func (s session) reader(ctx context.Context) adapters.Querier {
	if s.tx != nil {
		return s.tx
	}

	if s.engine.replica != nil && store.GetConsistencyLevel(ctx) == store.EventualConsistency {
		return s.engine.replica
	}

	return s.engine.db
}

// write runs fn on the unit of work's transaction, or on a transaction of its own.
func (s session) write(ctx context.Context, fn func(q adapters.Querier) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	return s.engine.inTransaction(ctx, func(tx adapters.TxAdapter) error {
		return fn(tx)
	})
}

func (s session) nextID() uuid.UUID {
	return s.engine.newID()
}

// Compile-time check to ensure Engine implements store.Engine.
var _ store.Engine = (*Engine)(nil)
