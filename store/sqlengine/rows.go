package sqlengine

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

var bookColumns = []any{
	colID, colISBN, colTitle, colAuthor, colGenre, colPublishedYear, colPublisher,
	colCallNumber, colDescription, colCoverImage, colTotalCopies, colAvailableCopies,
}

var transactionColumns = []any{
	colID, colBookID, colUserID, colBorrowDate, colDueDate, colReturnDate,
	colStatus, colFineCents, colExtendedFeeCents, colRenewalCount,
}

var fineColumns = []any{
	colID, colTransactionID, colUserID, colBookTitle, colAmountCents, colReason, colStatus,
	colDueDate, colReturnDate, colCreatedAt, colPaidAt, colPaymentMethod, colPaymentReference,
	colWaivedAt, colWaivedBy, colWaiverReason,
}

func bookRecord(b core.Book) goqu.Record {
	return goqu.Record{
		colID:              b.ID.String(),
		colISBN:            b.ISBN,
		colTitle:           b.Title,
		colAuthor:          b.Author,
		colGenre:           b.Genre,
		colPublishedYear:   b.PublishedYear,
		colPublisher:       b.Publisher,
		colCallNumber:      b.CallNumber,
		colDescription:     b.Description,
		colCoverImage:      b.CoverImage,
		colTotalCopies:     b.TotalCopies,
		colAvailableCopies: b.AvailableCopies,
		colSearchKey:       store.SearchKey(b),
	}
}

func scanBook(rows adapters.DBRows) (core.Book, error) {
	var b core.Book
	var id string

	err := rows.Scan(
		&id, &b.ISBN, &b.Title, &b.Author, &b.Genre, &b.PublishedYear, &b.Publisher,
		&b.CallNumber, &b.Description, &b.CoverImage, &b.TotalCopies, &b.AvailableCopies,
	)
	if err != nil {
		return core.Book{}, err
	}

	if b.ID, err = uuid.Parse(id); err != nil {
		return core.Book{}, err
	}

	return b, nil
}

func transactionRecord(tx core.Transaction) goqu.Record {
	return goqu.Record{
		colID:               tx.ID.String(),
		colBookID:           tx.BookID.String(),
		colUserID:           tx.UserID,
		colBorrowDate:       tx.BorrowDate.String(),
		colDueDate:          tx.DueDate.String(),
		colReturnDate:       nullableDate(tx.ReturnDate),
		colStatus:           string(tx.Status),
		colFineCents:        tx.Fine.Cents(),
		colExtendedFeeCents: tx.ExtendedFee.Cents(),
		colRenewalCount:     tx.RenewalCount,
	}
}

func scanTransaction(rows adapters.DBRows) (core.Transaction, error) {
	var tx core.Transaction
	var id, bookID, borrowDate, dueDate, status string
	var returnDate sql.NullString
	var fineCents, feeCents int64

	err := rows.Scan(&id, &bookID, &tx.UserID, &borrowDate, &dueDate, &returnDate, &status, &fineCents, &feeCents, &tx.RenewalCount)
	if err != nil {
		return core.Transaction{}, err
	}

	if tx.ID, err = uuid.Parse(id); err != nil {
		return core.Transaction{}, err
	}

	if tx.BookID, err = uuid.Parse(bookID); err != nil {
		return core.Transaction{}, err
	}

	if tx.BorrowDate, err = core.ParseDate(borrowDate); err != nil {
		return core.Transaction{}, err
	}

	if tx.DueDate, err = core.ParseDate(dueDate); err != nil {
		return core.Transaction{}, err
	}

	if tx.ReturnDate, err = parseNullableDate(returnDate); err != nil {
		return core.Transaction{}, err
	}

	if tx.Status, err = core.ParseTransactionStatus(status); err != nil {
		return core.Transaction{}, err
	}

	tx.Fine = core.MoneyFromCents(fineCents)
	tx.ExtendedFee = core.MoneyFromCents(feeCents)

	return tx, nil
}

func fineRecord(f core.Fine) goqu.Record {
	return goqu.Record{
		colID:               f.ID.String(),
		colTransactionID:    f.TransactionID.String(),
		colUserID:           f.UserID,
		colBookTitle:        f.BookTitle,
		colAmountCents:      f.Amount.Cents(),
		colReason:           f.Reason,
		colStatus:           string(f.Status),
		colDueDate:          f.DueDate.String(),
		colReturnDate:       nullableDate(f.ReturnDate),
		colCreatedAt:        formatTimestamp(f.CreatedAt),
		colPaidAt:           nullableTimestamp(f.PaidAt),
		colPaymentMethod:    f.PaymentMethod,
		colPaymentReference: f.PaymentReference,
		colWaivedAt:         nullableTimestamp(f.WaivedAt),
		colWaivedBy:         f.WaivedBy,
		colWaiverReason:     f.WaiverReason,
	}
}

func scanFine(rows adapters.DBRows) (core.Fine, error) {
	var f core.Fine
	var id, transactionID, status, dueDate, createdAt string
	var returnDate, paidAt, waivedAt sql.NullString
	var amountCents int64

	err := rows.Scan(
		&id, &transactionID, &f.UserID, &f.BookTitle, &amountCents, &f.Reason, &status,
		&dueDate, &returnDate, &createdAt, &paidAt, &f.PaymentMethod, &f.PaymentReference,
		&waivedAt, &f.WaivedBy, &f.WaiverReason,
	)
	if err != nil {
		return core.Fine{}, err
	}

	if f.ID, err = uuid.Parse(id); err != nil {
		return core.Fine{}, err
	}

	if f.TransactionID, err = uuid.Parse(transactionID); err != nil {
		return core.Fine{}, err
	}

	if f.Status, err = core.ParseFineStatus(status); err != nil {
		return core.Fine{}, err
	}

	if f.DueDate, err = core.ParseDate(dueDate); err != nil {
		return core.Fine{}, err
	}

	if f.ReturnDate, err = parseNullableDate(returnDate); err != nil {
		return core.Fine{}, err
	}

	if f.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Fine{}, err
	}

	if f.PaidAt, err = parseNullableTimestamp(paidAt); err != nil {
		return core.Fine{}, err
	}

	if f.WaivedAt, err = parseNullableTimestamp(waivedAt); err != nil {
		return core.Fine{}, err
	}

	f.Amount = core.MoneyFromCents(amountCents)

	return f, nil
}

func nullableDate(d *core.Date) any {
	if d == nil {
		return nil
	}

	return d.String()
}

func parseNullableDate(s sql.NullString) (*core.Date, error) {
	if !s.Valid {
		return nil, nil
	}

	d, err := core.ParseDate(s.String)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}

	return formatTimestamp(*t)
}

func parseNullableTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
