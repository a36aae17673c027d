package circulation

import (
	"context"
	"time"

	"github.com/stanleyamo/library-management-system/circulation/features/command/addbook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/borrowbook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/payfine"
	"github.com/stanleyamo/library-management-system/circulation/features/command/removebook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/renewloan"
	"github.com/stanleyamo/library-management-system/circulation/features/command/returnbook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/updatebook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/waivefine"
	"github.com/stanleyamo/library-management-system/circulation/features/query/checkavailability"
	"github.com/stanleyamo/library-management-system/circulation/features/query/finesummary"
	"github.com/stanleyamo/library-management-system/circulation/features/query/getbook"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listbooks"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listfines"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listtransactions"
	"github.com/stanleyamo/library-management-system/circulation/features/query/overdueloans"
	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// Service coordinates the catalog, the ledger, and the fines.
type Service struct {
	clock func() time.Time

	borrowBook shell.CommandHandler[borrowbook.Command, core.Transaction]
	returnBook shell.CommandHandler[returnbook.Command, core.Transaction]
	renewLoan  shell.CommandHandler[renewloan.Command, core.Transaction]
	payFine    shell.CommandHandler[payfine.Command, core.Fine]
	waiveFine  shell.CommandHandler[waivefine.Command, core.Fine]
	addBook    shell.CommandHandler[addbook.Command, core.Book]
	updateBook shell.CommandHandler[updatebook.Command, core.Book]
	removeBook shell.CommandHandler[removebook.Command, core.Book]

	listBooks         shell.QueryHandler[listbooks.Query, listbooks.BookList]
	getBook           shell.QueryHandler[getbook.Query, core.Book]
	checkAvailability shell.QueryHandler[checkavailability.Query, checkavailability.Availability]
	listTransactions  shell.QueryHandler[listtransactions.Query, listtransactions.Transactions]
	listFines         shell.QueryHandler[listfines.Query, listfines.Fines]
	fineSummary       shell.QueryHandler[finesummary.Query, finesummary.Summary]
	overdueLoans      shell.QueryHandler[overdueloans.Query, overdueloans.OverdueLoans]
}

// NewService builds every handler on top of engine.
func NewService(engine store.Engine, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	cfg := serviceConfig{clock: time.Now}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Service{clock: cfg.clock}
	b := builder{cfg: cfg}
	retry := cfg.retryOptions

	s.borrowBook = wireCommand[borrowbook.Command, core.Transaction](&b, borrowbook.NewCommandHandler(engine, borrowbook.WithRetryOptions(retry...)))
	s.returnBook = wireCommand[returnbook.Command, core.Transaction](&b, returnbook.NewCommandHandler(engine, returnbook.WithRetryOptions(retry...)))
	s.renewLoan = wireCommand[renewloan.Command, core.Transaction](&b, renewloan.NewCommandHandler(engine, renewloan.WithRetryOptions(retry...)))
	s.payFine = wireCommand[payfine.Command, core.Fine](&b, payfine.NewCommandHandler(engine, payfine.WithRetryOptions(retry...)))
	s.waiveFine = wireCommand[waivefine.Command, core.Fine](&b, waivefine.NewCommandHandler(engine, waivefine.WithRetryOptions(retry...)))
	s.addBook = wireCommand[addbook.Command, core.Book](&b, addbook.NewCommandHandler(engine, addbook.WithRetryOptions(retry...)))
	s.updateBook = wireCommand[updatebook.Command, core.Book](&b, updatebook.NewCommandHandler(engine, updatebook.WithRetryOptions(retry...)))
	s.removeBook = wireCommand[removebook.Command, core.Book](&b, removebook.NewCommandHandler(engine, removebook.WithRetryOptions(retry...)))

	s.listBooks = wireQuery[listbooks.Query, listbooks.BookList](&b, listbooks.NewQueryHandler(engine))
	s.getBook = wireQuery[getbook.Query, core.Book](&b, getbook.NewQueryHandler(engine))
	s.checkAvailability = wireQuery[checkavailability.Query, checkavailability.Availability](&b, checkavailability.NewQueryHandler(engine))
	s.listTransactions = wireQuery[listtransactions.Query, listtransactions.Transactions](&b, listtransactions.NewQueryHandler(engine))
	s.listFines = wireQuery[listfines.Query, listfines.Fines](&b, listfines.NewQueryHandler(engine))
	s.fineSummary = wireQuery[finesummary.Query, finesummary.Summary](&b, finesummary.NewQueryHandler(engine))
	s.overdueLoans = wireQuery[overdueloans.Query, overdueloans.OverdueLoans](&b, overdueloans.NewQueryHandler(engine))

	if b.err != nil {
		return nil, b.err
	}

	return s, nil
}

// builder keeps the first wiring error so NewService can check once.
type builder struct {
	cfg serviceConfig
	err error
}

func wireCommand[C shell.Command, R any](b *builder, handler shell.CommandHandler[C, R]) shell.CommandHandler[C, R] {
	if b.err != nil {
		return handler
	}

	wrapped, err := instrumentCommand(handler, b.cfg)
	if err != nil {
		b.err = err
		return handler
	}

	return wrapped
}

func wireQuery[Q shell.Query, R any](b *builder, handler shell.QueryHandler[Q, R]) shell.QueryHandler[Q, R] {
	if b.err != nil {
		return handler
	}

	wrapped, err := instrumentQuery(handler, b.cfg)
	if err != nil {
		b.err = err
		return handler
	}

	return wrapped
}

// Today returns the current business date.
func (s *Service) Today() core.Date {
	return core.DateOf(s.clock())
}

/*** Commands ***/

// BorrowBook lends one copy. A zero BorrowDate means today.
func (s *Service) BorrowBook(ctx context.Context, command borrowbook.Command) (core.Transaction, error) {
	if command.BorrowDate.IsZero() {
		command.BorrowDate = s.Today()
	}

	txn, _, err := s.borrowBook.Handle(ctx, command)

	return txn, err
}

// ReturnBook closes a loan and charges the overdue fine. A zero ReturnDate means today.
func (s *Service) ReturnBook(ctx context.Context, command returnbook.Command) (core.Transaction, error) {
	now := s.clock()

	if command.ReturnDate.IsZero() {
		command.ReturnDate = core.DateOf(now)
	}

	if command.RecordedAt.IsZero() {
		command.RecordedAt = now
	}

	txn, _, err := s.returnBook.Handle(ctx, command)

	return txn, err
}

// RenewLoan extends an active loan by the requested days, core.RenewalDays when none are given.
func (s *Service) RenewLoan(ctx context.Context, command renewloan.Command) (core.Transaction, error) {
	if command.Today.IsZero() {
		command.Today = s.Today()
	}

	txn, _, err := s.renewLoan.Handle(ctx, command)

	return txn, err
}

// PayFine settles a pending fine.
func (s *Service) PayFine(ctx context.Context, command payfine.Command) (core.Fine, error) {
	if command.PaidAt.IsZero() {
		command.PaidAt = s.clock()
	}

	fine, _, err := s.payFine.Handle(ctx, command)

	return fine, err
}

// WaiveFine forgives a pending fine.
func (s *Service) WaiveFine(ctx context.Context, command waivefine.Command) (core.Fine, error) {
	if command.WaivedAt.IsZero() {
		command.WaivedAt = s.clock()
	}

	fine, _, err := s.waiveFine.Handle(ctx, command)

	return fine, err
}

// AddBook creates a catalog entry.
func (s *Service) AddBook(ctx context.Context, command addbook.Command) (core.Book, error) {
	book, _, err := s.addBook.Handle(ctx, command)
	return book, err
}

// UpdateBook edits a catalog entry.
func (s *Service) UpdateBook(ctx context.Context, command updatebook.Command) (core.Book, error) {
	book, _, err := s.updateBook.Handle(ctx, command)
	return book, err
}

// RemoveBook deletes a catalog entry without open loans.
func (s *Service) RemoveBook(ctx context.Context, command removebook.Command) (core.Book, error) {
	book, _, err := s.removeBook.Handle(ctx, command)
	return book, err
}

/*** Queries ***/

// ListBooks searches the catalog.
func (s *Service) ListBooks(ctx context.Context, q listbooks.Query) (listbooks.BookList, error) {
	return s.listBooks.Handle(ctx, q)
}

// GetBook returns one book.
func (s *Service) GetBook(ctx context.Context, q getbook.Query) (core.Book, error) {
	return s.getBook.Handle(ctx, q)
}

// CheckAvailability reports whether a book can be borrowed now.
func (s *Service) CheckAvailability(ctx context.Context, q checkavailability.Query) (checkavailability.Availability, error) {
	return s.checkAvailability.Handle(ctx, q)
}

// ListTransactions lists loans with projected fines as of today.
func (s *Service) ListTransactions(ctx context.Context, q listtransactions.Query) (listtransactions.Transactions, error) {
	if q.Today.IsZero() {
		q.Today = s.Today()
	}

	return s.listTransactions.Handle(ctx, q)
}

// ListFines lists fines.
func (s *Service) ListFines(ctx context.Context, q listfines.Query) (listfines.Fines, error) {
	return s.listFines.Handle(ctx, q)
}

// FineSummary totals fines by status.
func (s *Service) FineSummary(ctx context.Context, q finesummary.Query) (finesummary.Summary, error) {
	return s.fineSummary.Handle(ctx, q)
}

// OverdueLoans lists the loans that are late as of today.
func (s *Service) OverdueLoans(ctx context.Context, q overdueloans.Query) (overdueloans.OverdueLoans, error) {
	if q.Today.IsZero() {
		q.Today = s.Today()
	}

	return s.overdueLoans.Handle(ctx, q)
}
