package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stanleyamo/library-management-system/circulation/features/command/payfine"
	"github.com/stanleyamo/library-management-system/circulation/features/command/waivefine"
	"github.com/stanleyamo/library-management-system/circulation/features/query/finesummary"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listfines"
	"github.com/stanleyamo/library-management-system/core"
)

type payRequest struct {
	PaymentMethod    string `json:"paymentMethod" validate:"max=50"`
	PaymentReference string `json:"paymentReference" validate:"max=100"`
}

type waiveRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (h *handlers) listFines(c *gin.Context) {
	var status core.FineStatus

	if raw := c.Query("status"); raw != "" {
		parsed, err := core.ParseFineStatus(raw)
		if err != nil {
			h.renderFailure(c, err)
			return
		}

		status = parsed
	}

	result, err := h.service.ListFines(c.Request.Context(), listfines.BuildQuery(actorFrom(c), c.Query("userId"), status))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	render(c, http.StatusOK, map[string]any{
		"success": true,
		"fines":   toFinesJSON(result.Fines),
		"count":   result.Count,
		"total":   result.Total,
	})
}

func (h *handlers) fineSummary(c *gin.Context) {
	summary, err := h.service.FineSummary(c.Request.Context(), finesummary.BuildQuery(actorFrom(c), c.Query("userId")))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "summary", toFineSummaryJSON(summary))
}

func (h *handlers) payFine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req payRequest
	if !decodeBody(c, &req) {
		return
	}

	payment := core.Payment{Method: req.PaymentMethod, Reference: req.PaymentReference}

	fine, err := h.service.PayFine(c.Request.Context(), payfine.BuildCommand(id, actorFrom(c), payment, time.Time{}))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "fine", toFineJSON(fine))
}

func (h *handlers) waiveFine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req waiveRequest
	if !decodeBody(c, &req) {
		return
	}

	fine, err := h.service.WaiveFine(c.Request.Context(), waivefine.BuildCommand(id, actorFrom(c), req.Reason, time.Time{}))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "fine", toFineJSON(fine))
}
