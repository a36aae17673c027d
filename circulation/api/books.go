package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stanleyamo/library-management-system/circulation/features/command/addbook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/removebook"
	"github.com/stanleyamo/library-management-system/circulation/features/command/updatebook"
	"github.com/stanleyamo/library-management-system/circulation/features/query/checkavailability"
	"github.com/stanleyamo/library-management-system/circulation/features/query/getbook"
	"github.com/stanleyamo/library-management-system/circulation/features/query/listbooks"
	"github.com/stanleyamo/library-management-system/core"
)

type createBookRequest struct {
	ISBN          string `json:"isbn" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"publishedYear"`
	Publisher     string `json:"publisher"`
	CallNumber    string `json:"callNumber"`
	Description   string `json:"description"`
	CoverImage    string `json:"coverImage"`
	TotalCopies   int    `json:"totalCopies" validate:"required,gte=1"`
}

func (r createBookRequest) draft() core.BookDraft {
	return core.BookDraft{
		ISBN:          r.ISBN,
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		PublishedYear: r.PublishedYear,
		Publisher:     r.Publisher,
		CallNumber:    r.CallNumber,
		Description:   r.Description,
		CoverImage:    r.CoverImage,
		TotalCopies:   r.TotalCopies,
	}
}

// updateBookRequest leaves absent fields unchanged. availableCopies is not accepted.
type updateBookRequest struct {
	ISBN          *string `json:"isbn"`
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"publishedYear"`
	Publisher     *string `json:"publisher"`
	CallNumber    *string `json:"callNumber"`
	Description   *string `json:"description"`
	CoverImage    *string `json:"coverImage"`
	TotalCopies   *int    `json:"totalCopies"`
}

func (r updateBookRequest) patch() core.BookPatch {
	return core.BookPatch{
		ISBN:          r.ISBN,
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		PublishedYear: r.PublishedYear,
		Publisher:     r.Publisher,
		CallNumber:    r.CallNumber,
		Description:   r.Description,
		CoverImage:    r.CoverImage,
		TotalCopies:   r.TotalCopies,
	}
}

func (h *handlers) listBooks(c *gin.Context) {
	availableOnly := false

	if raw := c.Query("availableOnly"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			renderBadRequest(c, "invalid availableOnly %q", raw)
			return
		}

		availableOnly = parsed
	}

	query := listbooks.BuildQuery(c.Query("search"), c.Query("genre"), availableOnly)

	list, err := h.service.ListBooks(c.Request.Context(), query)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	render(c, http.StatusOK, map[string]any{
		"success":        true,
		"books":          toBooksJSON(list.Books),
		"count":          list.Count,
		"availableCount": list.AvailableCount,
	})
}

func (h *handlers) getBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), getbook.BuildQuery(id))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "book", toBookJSON(book))
}

func (h *handlers) checkAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), checkavailability.BuildQuery(id))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "availability", toAvailabilityJSON(availability))
}

func (h *handlers) createBook(c *gin.Context) {
	var req createBookRequest
	if !decodeBody(c, &req) {
		return
	}

	book, err := h.service.AddBook(c.Request.Context(), addbook.BuildCommand(actorFrom(c), req.draft()))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusCreated, "book", toBookJSON(book))
}

func (h *handlers) updateBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateBookRequest
	if !decodeBody(c, &req) {
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), updatebook.BuildCommand(id, actorFrom(c), req.patch()))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "book", toBookJSON(book))
}

func (h *handlers) deleteBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	book, err := h.service.RemoveBook(c.Request.Context(), removebook.BuildCommand(id, actorFrom(c)))
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	renderSuccess(c, http.StatusOK, "book", toBookJSON(book))
}
