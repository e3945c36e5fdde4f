package http

import (
	"errors"
	"net/http"
	"strings"

	"moneymanager/internal/core"
	"moneymanager/internal/log"
)

// Error kinds carried in the "error" field of every error body.
const (
	KindNotFound     = "not_found"
	KindNotEditable  = "not_editable"
	KindValidation   = "validation_error"
	KindDuplicate    = "duplicate_name"
	KindInternal     = "internal_error"
	KindRateLimited  = "rate_limited"
	KindMethodDenied = "method_not_allowed"
)

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse builds the JSON error body for kind.
func ErrorResponse(status int, kind, message string, fields map[string]string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(status).
		Body(errorBody{Error: kind, Message: message, Fields: fields})
}

// writeError maps err onto a status code and error body. Unknown errors are
// logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		ErrorResponse(http.StatusBadRequest, KindValidation, core.ErrValidation.Error(), verr.Fields).Write(w)
	case errors.Is(err, core.ErrValidation):
		ErrorResponse(http.StatusBadRequest, KindValidation, err.Error(), nil).Write(w)
	case errors.Is(err, core.ErrNotFound):
		ErrorResponse(http.StatusNotFound, KindNotFound, err.Error(), nil).Write(w)
	case errors.Is(err, core.ErrNotEditable):
		ErrorResponse(http.StatusConflict, KindNotEditable, err.Error(), nil).Write(w)
	case errors.Is(err, core.ErrDuplicateName):
		ErrorResponse(http.StatusConflict, KindDuplicate, err.Error(), nil).Write(w)
	default:
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusInternalServerError, KindInternal, "internal server error", nil).Write(w)
	}
}

// fieldError is a single-field validation failure.
func fieldError(field, msg string) error {
	verr := core.NewValidationError()
	verr.Add(field, msg)
	return verr
}

// merge adds every field of err to dst when err is a *core.ValidationError.
func merge(dst *core.ValidationError, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		for f, msg := range verr.Fields {
			dst.Add(f, msg)
		}
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
