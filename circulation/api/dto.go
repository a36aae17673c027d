package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/circulation/features/query/checkavailability"
	"github.com/stanleyamo/library-management-system/circulation/features/query/finesummary"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listtransactions"
	"github.com/stanleyamo/library-management-system/circulation/features/query/overdueloans"
	"github.com/stanleyamo/library-management-system/core"
)

type bookJSON struct {
	ID              uuid.UUID `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	PublishedYear   int       `json:"publishedYear,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	CallNumber      string    `json:"callNumber,omitempty"`
	Description     string    `json:"description,omitempty"`
	CoverImage      string    `json:"coverImage,omitempty"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
}

func toBookJSON(b core.Book) bookJSON {
	return bookJSON{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		PublishedYear:   b.PublishedYear,
		Publisher:       b.Publisher,
		CallNumber:      b.CallNumber,
		Description:     b.Description,
		CoverImage:      b.CoverImage,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

func toBooksJSON(books []core.Book) []bookJSON {
	out := make([]bookJSON, 0, len(books))
	for _, b := range books {
		out = append(out, toBookJSON(b))
	}

	return out
}

type transactionJSON struct {
	ID           uuid.UUID              `json:"id"`
	BookID       uuid.UUID              `json:"bookId"`
	UserID       string                 `json:"userId"`
	BorrowDate   core.Date              `json:"borrowDate"`
	DueDate      core.Date              `json:"dueDate"`
	ReturnDate   *core.Date             `json:"returnDate"`
	Status       core.TransactionStatus `json:"status"`
	Fine         core.Money             `json:"fine"`
	ExtendedFee  core.Money             `json:"extendedFee"`
	RenewalCount int                    `json:"renewalCount"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:           t.ID,
		BookID:       t.BookID,
		UserID:       t.UserID,
		BorrowDate:   t.BorrowDate,
		DueDate:      t.DueDate,
		ReturnDate:   t.ReturnDate,
		Status:       t.Status,
		Fine:         t.Fine,
		ExtendedFee:  t.ExtendedFee,
		RenewalCount: t.RenewalCount,
	}
}

type transactionEntryJSON struct {
	transactionJSON
	BookTitle   string     `json:"bookTitle"`
	CurrentFine core.Money `json:"currentFine"`
	DaysOverdue int        `json:"daysOverdue"`
	IsOverdue   bool       `json:"isOverdue"`
}

func toTransactionEntriesJSON(entries []listtransactions.Entry) []transactionEntryJSON {
	out := make([]transactionEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, transactionEntryJSON{
			transactionJSON: toTransactionJSON(e.Transaction),
			BookTitle:       e.BookTitle,
			CurrentFine:     e.CurrentFine,
			DaysOverdue:     e.DaysOverdue,
			IsOverdue:       e.IsOverdue,
		})
	}

	return out
}

type overdueLoanJSON struct {
	transactionJSON
	BookTitle     string     `json:"bookTitle"`
	DaysOverdue   int        `json:"daysOverdue"`
	ProjectedFine core.Money `json:"projectedFine"`
}

func toOverdueLoansJSON(loans []overdueloans.OverdueLoan) []overdueLoanJSON {
	out := make([]overdueLoanJSON, 0, len(loans))
	for _, l := range loans {
		out = append(out, overdueLoanJSON{
			transactionJSON: toTransactionJSON(l.Transaction),
			BookTitle:       l.BookTitle,
			DaysOverdue:     l.DaysOverdue,
			ProjectedFine:   l.ProjectedFine,
		})
	}

	return out
}

type fineJSON struct {
	ID               uuid.UUID       `json:"id"`
	TransactionID    uuid.UUID       `json:"transactionId"`
	UserID           string          `json:"userId"`
	BookTitle        string          `json:"bookTitle"`
	Amount           core.Money      `json:"amount"`
	Reason           string          `json:"reason"`
	Status           core.FineStatus `json:"status"`
	DueDate          core.Date       `json:"dueDate"`
	ReturnDate       *core.Date      `json:"returnDate"`
	CreatedAt        time.Time       `json:"createdAt"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	PaymentMethod    string          `json:"paymentMethod,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	WaivedAt         *time.Time      `json:"waivedAt,omitempty"`
	WaivedBy         string          `json:"waivedBy,omitempty"`
	WaiverReason     string          `json:"waiverReason,omitempty"`
}

func toFineJSON(f core.Fine) fineJSON {
	return fineJSON{
		ID:               f.ID,
		TransactionID:    f.TransactionID,
		UserID:           f.UserID,
		BookTitle:        f.BookTitle,
		Amount:           f.Amount,
		Reason:           f.Reason,
		Status:           f.Status,
		DueDate:          f.DueDate,
		ReturnDate:       f.ReturnDate,
		CreatedAt:        f.CreatedAt,
		PaidAt:           f.PaidAt,
		PaymentMethod:    f.PaymentMethod,
		PaymentReference: f.PaymentReference,
		WaivedAt:         f.WaivedAt,
		WaivedBy:         f.WaivedBy,
		WaiverReason:     f.WaiverReason,
	}
}

func toFinesJSON(fines []core.Fine) []fineJSON {
	out := make([]fineJSON, 0, len(fines))
	for _, f := range fines {
		out = append(out, toFineJSON(f))
	}

	return out
}

type availabilityJSON struct {
	BookID          uuid.UUID `json:"bookId"`
	Title           string    `json:"title"`
	Available       bool      `json:"available"`
	AvailableCopies int       `json:"availableCopies"`
	TotalCopies     int       `json:"totalCopies"`
	CopiesOnLoan    int       `json:"copiesOnLoan"`
}

func toAvailabilityJSON(a checkavailability.Availability) availabilityJSON {
	return availabilityJSON(a)
}

type fineSummaryJSON struct {
	UserID       string     `json:"userId,omitempty"`
	TotalPending core.Money `json:"totalPending"`
	TotalPaid    core.Money `json:"totalPaid"`
	TotalWaived  core.Money `json:"totalWaived"`
	PendingCount int        `json:"pendingCount"`
	Count        int        `json:"count"`
}

func toFineSummaryJSON(s finesummary.Summary) fineSummaryJSON {
	return fineSummaryJSON{
		UserID:       s.UserID,
		TotalPending: s.TotalPending,
		TotalPaid:    s.TotalPaid,
		TotalWaived:  s.TotalWaived,
		PendingCount: s.PendingCount,
		Count:        s.Count,
	}
}
