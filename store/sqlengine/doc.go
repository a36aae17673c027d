// Package sqlengine provides a SQL implementation of store.Engine for PostgreSQL and SQLite.
//
// Statements are built with goqu and executed through one of three connection
// adapters (pgx, sql.DB, sqlx). Every write that depends on the current state of a
// row is a single conditional statement, so two concurrent writers cannot both win:
//   - copy counts move with UPDATE ... WHERE available_copies + delta BETWEEN 0 AND total_copies
//   - transactions close with UPDATE ... WHERE status = 'active'
//   - fines settle with UPDATE ... WHERE status = 'pending'
//
// A statement that matches no row is reported as store.ErrInvariantViolation or
// store.ErrConcurrencyConflict after a follow-up read has ruled out store.ErrNotFound.
//
// Lock contention is reported as store.ErrConcurrencyConflict as well, so callers retry it:
// SQLite SQLITE_BUSY and SQLITE_LOCKED, PostgreSQL SQLSTATE 40001 and 40P01.
// With several SQLite connections, open the database with _txlock=immediate and a busy
// timeout so that writers queue at BEGIN instead of failing on lock upgrade.
//
// Storage format: ids and calendar dates are text, money is integer cents, timestamps
// are RFC 3339 text, and an auto-increment seq column keeps insertion order.
//
// Usage examples:
//
//	// PostgreSQL through pgx
//	pool, _ := pgxpool.New(ctx, dsn)
//	engine, _ := sqlengine.NewEngineFromPGXPool(pool)
//
//	// SQLite through database/sql, with observability
//	db, _ := sql.Open("sqlite3", "file:library.db?_busy_timeout=5000&_txlock=immediate")
//	engine, _ := sqlengine.NewEngineFromSQLDB(
//		db,
//		sqlengine.WithDialect(sqlengine.DialectSQLite),
//		sqlengine.WithContextualLogger(logger),
//		sqlengine.WithMetrics(metrics),
//		sqlengine.WithTracing(tracing),
//	)
//
//	_ = engine.Migrate(ctx)
package sqlengine
