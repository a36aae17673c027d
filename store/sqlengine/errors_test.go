package sqlengine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func Test_IsLockContention(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "sqlite busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, expected: true},
		{name: "sqlite locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, expected: true},
		{name: "sqlite constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, expected: false},
		{name: "pgx serialization failure", err: &pgconn.PgError{Code: "40001"}, expected: true},
		{name: "pgx deadlock", err: &pgconn.PgError{Code: "40P01"}, expected: true},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, expected: false},
		{name: "pq serialization failure", err: &pq.Error{Code: "40001"}, expected: true},
		{name: "pq deadlock", err: &pq.Error{Code: "40P01"}, expected: true},
		{name: "wrapped", err: fmt.Errorf("update books: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), expected: true},
		{name: "plain error", err: errors.New("connection refused"), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isLockContention(tc.err))
		})
	}
}
