package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/circulation/features/command/borrowbook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/renewloan"
	"github.com/stanleyamo/library-management-system/circulation/features/command/returnbook"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listtransactions"
	"github.com/stanleyamo/library-management-system/circulation/features/query/overdueloans"
	"github.com/stanleyamo/library-management-system/core"
)

type borrowRequest struct {
	BookID       uuid.UUID  `json:"bookId" validate:"required"`
	Period       string     `json:"period" validate:"omitempty,oneof=2weeks 1month extended explicit"`
	ExtendedDays int        `json:"extendedDays" validate:"gte=0"`
	BorrowDate   core.Date  `json:"borrowDate"`
	DueDate      core.Date  `json:"dueDate"`
	ExtendedFee  core.Money `json:"extendedFee"`
}

// borrowPeriod defaults to two weeks when no period is named.
func (r borrowRequest) borrowPeriod() core.BorrowPeriod {
	switch core.PeriodKind(r.Period) {
	case core.PeriodOneMonth:
		return core.OneMonth()
	case core.PeriodExtended:
		return core.Extended(r.ExtendedDays)
	case core.PeriodExplicit:
		return core.Explicit(r.DueDate, r.ExtendedFee)
	default:
		return core.TwoWeeks()
	}
}

type returnRequest struct {
	ReturnDate core.Date `json:"returnDate"`
}

type renewRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=30"`
}

func (h *handlers) borrowBook(c *gin.Context) {
	var req borrowRequest
	if !decodeBody(c, &req) {
		return
	}

	if req.Period == string(core.PeriodExplicit) && req.DueDate.IsZero() {
		renderBadRequest(c, "dueDate is required for an explicit period")
		return
	}

	command := borrowbook.BuildCommand(req.BookID, actorFrom(c), req.borrowPeriod(), req.BorrowDate)

	txn, err := h.service.BorrowBook(c.Request.Context(), command)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusCreated, "transaction", toTransactionJSON(txn))
}

func (h *handlers) returnBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req returnRequest
	if !decodeBody(c, &req) {
		return
	}

	// RecordedAt is left zero for the service clock.
	command := returnbook.Command{TransactionID: id, Actor: actorFrom(c), ReturnDate: req.ReturnDate}

	txn, err := h.service.ReturnBook(c.Request.Context(), command)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "transaction", toTransactionJSON(txn))
}

func (h *handlers) renewLoan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req renewRequest
	if !decodeBody(c, &req) {
		return
	}

	txn, err := h.service.RenewLoan(c.Request.Context(), renewloan.BuildCommand(id, actorFrom(c), req.Days, core.Date{}))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "transaction", toTransactionJSON(txn))
}

func (h *handlers) listTransactions(c *gin.Context) {
	var status core.TransactionStatus

	if raw := c.Query("status"); raw != "" {
		parsed, err := core.ParseTransactionStatus(raw)
		if err != nil {
			h.renderFailure(c, err)
			return
		}

		status = parsed
	}

	query := listtransactions.BuildQuery(actorFrom(c), c.Query("userId"), status, core.Date{})

	result, err := h.service.ListTransactions(c.Request.Context(), query)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	render(c, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": toTransactionEntriesJSON(result.Entries),
		"count":        result.Count,
		"activeCount":  result.ActiveCount,
	})
}

func (h *handlers) overdueLoans(c *gin.Context) {
	result, err := h.service.OverdueLoans(c.Request.Context(), overdueloans.BuildQuery(actorFrom(c), core.Date{}))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	render(c, http.StatusOK, map[string]any{
		"success":        true,
		"loans":          toOverdueLoansJSON(result.Loans),
		"count":          result.Count,
		"totalProjected": result.TotalProjected,
	})
}
