// Package adapters provide database adapter implementations for the SQL store engine.
//
// This package implements the adapter pattern to support pgxpool.Pool, sql.DB, and
// sqlx.DB behind one DBAdapter interface. Every adapter can begin a transaction; the
// transaction adapter offers the same Query and Exec methods plus Commit and Rollback.
package adapters
