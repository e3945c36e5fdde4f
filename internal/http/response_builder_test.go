package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moneymanager/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()

	Created(map[string]int{"id": 7}).
		Header("Location", "/transactions/7").
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Header().Get("Location") != "/transactions/7" {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}
	if strings.TrimSpace(w.Body.String()) != `{"id":7}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestJSONResponseBuilderNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent().Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d with %d body bytes", w.Code, w.Body.Len())
	}
}

func TestJSONResponseBuilderEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	OK(map[string]any{"bad": make(chan int)}).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	verr := core.NewValidationError()
	verr.Add("amount", "must be positive")

	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", fmt.Errorf("create: %w", verr), http.StatusBadRequest, KindValidation},
		{"not found", fmt.Errorf("transaction 4: %w", core.ErrNotFound), http.StatusNotFound, KindNotFound},
		{"not editable", core.ErrNotEditable, http.StatusConflict, KindNotEditable},
		{"duplicate", core.ErrDuplicateName, http.StatusConflict, KindDuplicate},
		{"internal", errors.New("disk I/O error"), http.StatusInternalServerError, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), `"error":"`+tt.kind+`"`) {
				t.Errorf("body = %s", w.Body.String())
			}
			if tt.kind == KindInternal && strings.Contains(w.Body.String(), "disk") {
				t.Error("internal error details must not leak")
			}
		})
	}
}
