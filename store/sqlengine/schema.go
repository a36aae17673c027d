package sqlengine

import (
	"context"
	"fmt"
)

const (
	seqColumnPostgres = "seq BIGSERIAL PRIMARY KEY"
	seqColumnSQLite   = "seq INTEGER PRIMARY KEY AUTOINCREMENT"
)

// Migrate creates the books, transactions, and fines tables and their indexes if
// they do not exist yet. It is safe to run on every start.
func (e *Engine) Migrate(ctx context.Context) error {
	return e.observe(ctx, opMigrate, nil, func(ctx context.Context) error {
		for _, ddl := range e.schema() {
			if _, err := e.exec(ctx, e.db, opMigrate, rawSQL(ddl)); err != nil {
				return err
			}
		}

		e.logInfo(ctx, logMsgOperation+logMsgMigrated, logAttrDialect, e.dialect)

		return nil
	})
}

func (e *Engine) schema() []string {
	seq := seqColumnPostgres
	if e.dialect == DialectSQLite {
		seq = seqColumnSQLite
	}

	t := e.tables

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s,
	id TEXT NOT NULL UNIQUE,
	isbn TEXT NOT NULL,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	genre TEXT NOT NULL DEFAULT '',
	published_year INTEGER NOT NULL DEFAULT 0,
	publisher TEXT NOT NULL DEFAULT '',
	call_number TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	cover_image TEXT NOT NULL DEFAULT '',
	total_copies INTEGER NOT NULL CHECK (total_copies >= 1),
	available_copies INTEGER NOT NULL,
	search_key TEXT NOT NULL,
	CHECK (available_copies BETWEEN 0 AND total_copies)
)`, t.books, seq),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_genre_idx ON %[1]s (genre)`, t.books),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s,
	id TEXT NOT NULL UNIQUE,
	book_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	borrow_date TEXT NOT NULL,
	due_date TEXT NOT NULL,
	return_date TEXT,
	status TEXT NOT NULL CHECK (status IN ('active', 'returned')),
	fine_cents BIGINT NOT NULL DEFAULT 0,
	extended_fee_cents BIGINT NOT NULL DEFAULT 0,
	renewal_count INTEGER NOT NULL DEFAULT 0
)`, t.transactions, seq),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_status_idx ON %[1]s (user_id, status)`, t.transactions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_book_status_idx ON %[1]s (book_id, status)`, t.transactions),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s,
	id TEXT NOT NULL UNIQUE,
	transaction_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	book_title TEXT NOT NULL DEFAULT '',
	amount_cents BIGINT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK (status IN ('pending', 'paid', 'waived')),
	due_date TEXT NOT NULL,
	return_date TEXT,
	created_at TEXT NOT NULL,
	paid_at TEXT,
	payment_method TEXT NOT NULL DEFAULT '',
	payment_reference TEXT NOT NULL DEFAULT '',
	waived_at TEXT,
	waived_by TEXT NOT NULL DEFAULT '',
	waiver_reason TEXT NOT NULL DEFAULT ''
)`, t.fines, seq),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_status_idx ON %[1]s (user_id, status)`, t.fines),
	}
}

// rawSQL lets hand-written DDL go through the same exec path as goqu datasets.
type rawSQL string

func (r rawSQL) ToSQL() (string, []any, error) {
	return string(r), nil, nil
}
