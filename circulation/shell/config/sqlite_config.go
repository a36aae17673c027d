package config

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// SQLiteDSN turns a file path into a go-sqlite3 DSN with a busy timeout, foreign keys on, and
// write transactions that take the database lock at BEGIN.
// A path that already carries query parameters is returned unchanged.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}

	return "file:" + path + "?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
}

// NewSQLiteDB opens and pings an embedded SQLite database.
// SQLite allows one writer at a time; the pool is limited to a single connection.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
