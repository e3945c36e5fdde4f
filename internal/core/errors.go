package core

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotEditable   = errors.New("transaction is no longer editable")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("account name already exists")
)

// ValidationError collects per-field messages. It unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
