package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

const contentTypeJSON = "application/json; charset=utf-8"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var requestValidator = newRequestValidator()

// newRequestValidator reports fields by their JSON names.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return v
}

// render writes body as JSON with jsoniter.
func render(c *gin.Context, status int, body map[string]any) {
	data, err := json.Marshal(body)
	if err != nil {
		c.Data(http.StatusInternalServerError, contentTypeJSON,
			[]byte(`{"success":false,"error":"failed to encode response","kind":"Internal"}`))

		return
	}

	c.Data(status, contentTypeJSON, data)
}

// renderSuccess writes {"success": true, key: value}.
func renderSuccess(c *gin.Context, status int, key string, value any) {
	body := map[string]any{"success": true}
	if key != "" {
		body[key] = value
	}

	render(c, status, body)
}

func renderError(c *gin.Context, status int, kind, message string) {
	render(c, status, map[string]any{
		"success": false,
		"error":   message,
		"kind":    kind,
	})
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind core.FailureKind) int {
	switch kind {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindNoCopiesAvailable,
		core.KindAlreadyReturned,
		core.KindAlreadyPaid,
		core.KindAlreadyWaived,
		core.KindLoanLimitReached,
		core.KindRenewalLimitReached,
		core.KindLoanOverdue,
		core.KindOutstandingObligations,
		core.KindInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderFailure writes err as an error envelope. Business failures keep their reason;
// faults are logged and hidden behind a generic message.
func (h *handlers) renderFailure(c *gin.Context, err error) {
	if failure, ok := core.AsFailure(err); ok {
		message := failure.Reason
		if message == "" {
			message = string(failure.Kind)
		}

		renderError(c, statusFor(failure.Kind), string(failure.Kind), message)

		return
	}

	if errors.Is(err, store.ErrConcurrencyConflict) {
		renderError(c, http.StatusConflict, "ConcurrencyConflict", "the record changed concurrently, please retry")
		return
	}

	if h.logger != nil {
		h.logger.ErrorContext(c.Request.Context(), logMsgRequestFailed,
			logAttrMethod, c.Request.Method,
			logAttrPath, c.FullPath(),
			logAttrError, err.Error(),
		)
	}

	renderError(c, http.StatusInternalServerError, "Internal", "internal error")
}

func renderBadRequest(c *gin.Context, format string, args ...any) {
	renderError(c, http.StatusBadRequest, string(core.KindValidation), fmt.Sprintf(format, args...))
}

// decodeBody reads a JSON body into dst and validates its `validate` tags.
// An empty body is accepted when dst has no required fields.
func decodeBody(c *gin.Context, dst any) bool {
	if c.Request.Body != nil {
		if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			renderBadRequest(c, "invalid request body: %s", err.Error())
			return false
		}
	}

	if err := requestValidator.Struct(dst); err != nil {
		renderBadRequest(c, "%s", describeValidation(err))
		return false
	}

	return true
}

func describeValidation(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}

		parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}

	return strings.Join(parts, "; ")
}
