package sqlengine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

const (
	colSeq              = "seq"
	colID               = "id"
	colISBN             = "isbn"
	colTitle            = "title"
	colAuthor           = "author"
	colGenre            = "genre"
	colPublishedYear    = "published_year"
	colPublisher        = "publisher"
	colCallNumber       = "call_number"
	colDescription      = "description"
	colCoverImage       = "cover_image"
	colTotalCopies      = "total_copies"
	colAvailableCopies  = "available_copies"
	colSearchKey        = "search_key"
	colBookID           = "book_id"
	colUserID           = "user_id"
	colBorrowDate       = "borrow_date"
	colDueDate          = "due_date"
	colReturnDate       = "return_date"
	colStatus           = "status"
	colFineCents        = "fine_cents"
	colExtendedFeeCents = "extended_fee_cents"
	colRenewalCount     = "renewal_count"
	colTransactionID    = "transaction_id"
	colBookTitle        = "book_title"
	colAmountCents      = "amount_cents"
	colReason           = "reason"
	colCreatedAt        = "created_at"
	colPaidAt           = "paid_at"
	colPaymentMethod    = "payment_method"
	colPaymentReference = "payment_reference"
	colWaivedAt         = "waived_at"
	colWaivedBy         = "waived_by"
	colWaiverReason     = "waiver_reason"
)

// sqlBuilder is implemented by every goqu dataset.
type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// queryRows runs a SELECT and hands every row to scanRow.
func (e *Engine) queryRows(
	ctx context.Context,
	q adapters.Querier,
	action string,
	stmt sqlBuilder,
	scanRow func(rows adapters.DBRows) error,
) error {

	query, args, err := stmt.ToSQL()
	if err != nil {
		e.logError(ctx, logMsgBuildQueryFailed, err, logAttrAction, action)
		return errors.Join(store.ErrBuildingQueryFailed, err)
	}

	start := time.Now()
	rows, err := q.Query(ctx, query, args...)
	e.logQueryWithDuration(ctx, query, action, time.Since(start))

	if err != nil {
		return e.driverError(ctx, store.ErrQueryingFailed, err, logMsgDBQueryFailed, logAttrAction, action, logAttrQuery, query)
	}
	defer e.closeRows(ctx, rows)

	for rows.Next() {
		if err = scanRow(rows); err != nil {
			e.logError(ctx, logMsgScanRowFailed, err, logAttrAction, action)
			return errors.Join(store.ErrScanningDBRowFailed, err)
		}
	}

	if err = rows.Err(); err != nil {
		return e.driverError(ctx, store.ErrQueryingFailed, err, logMsgDBQueryFailed, logAttrAction, action, logAttrQuery, query)
	}

	return nil
}

// exec runs an INSERT, UPDATE, or DELETE and returns the number of affected rows.
func (e *Engine) exec(ctx context.Context, q adapters.Querier, action string, stmt sqlBuilder) (int64, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		e.logError(ctx, logMsgBuildQueryFailed, err, logAttrAction, action)
		return 0, errors.Join(store.ErrBuildingQueryFailed, err)
	}

	start := time.Now()
	result, err := q.Exec(ctx, query, args...)
	e.logQueryWithDuration(ctx, query, action, time.Since(start))

	if err != nil {
		return 0, e.driverError(ctx, store.ErrQueryingFailed, err, logMsgDBExecFailed, logAttrAction, action, logAttrQuery, query)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		e.logError(ctx, logMsgRowsAffectedFailed, err, logAttrAction, action)
		return 0, errors.Join(store.ErrRowsAffectedFailed, err)
	}

	return rowsAffected, nil
}

// closeRows closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern (escape character '\') matching term anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
