package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"moneymanager/internal/core"
)

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		key         string
		want        string
	}{
		{"json string", "/accounts", "application/json", `{"accountName":" Cash "}`, "accountName", "Cash"},
		{"json number keeps precision", "/accounts", "application/json", `{"initialBalance":100.10}`, "initialBalance", "100.10"},
		{"form", "/accounts", "application/x-www-form-urlencoded", "accountType=BANK", "accountType", "BANK"},
		{"query fallback", "/accounts?accountName=Wallet", "", "", "accountName", "Wallet"},
		{"body wins over query", "/accounts?accountName=Query", "application/x-www-form-urlencoded", "accountName=Form", "accountName", "Form"},
		{"control characters stripped", "/accounts", "application/json", `{"accountName":"Ca\u0000sh"}`, "accountName", "Cash"},
		{"missing", "/accounts", "application/json", `{}`, "accountName", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			p := NewRequestBodyParser(httptest.NewRecorder(), req)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRequestBodyParserInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"accountName":`))
	p := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if err := p.Parse(); err == nil {
		t.Fatal("Parse should return the cached error")
	}
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		required  bool
		wantNil   bool
		wantField string
	}{
		{"optional absent", url.Values{}, false, true, ""},
		{"required absent", url.Values{}, true, false, "startDate"},
		{"only start", url.Values{"startDate": {"2024-01-01T00:00:00"}}, false, false, "endDate"},
		{"bad end", url.Values{"startDate": {"2024-01-01T00:00:00"}, "endDate": {"tomorrow"}}, true, false, "endDate"},
		{"both", url.Values{"startDate": {"2024-01-01T00:00:00Z"}, "endDate": {"2024-01-31T23:59:59+01:00"}}, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseDateRange(tt.query, tt.required)
			if tt.wantField != "" {
				var verr *core.ValidationError
				if !errors.As(err, &verr) || verr.Fields[tt.wantField] == "" {
					t.Fatalf("expected field error on %s, got %v", tt.wantField, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDateRange() error = %v", err)
			}
			if tt.wantNil != (r == nil) {
				t.Fatalf("parseDateRange() = %v, wantNil %v", r, tt.wantNil)
			}
			if r != nil && !r.End.Equal(time.Date(2024, 1, 31, 22, 59, 59, 0, time.UTC)) {
				t.Fatalf("End = %v", r.End)
			}
		})
	}
}

func TestDecodeTransactionInput(t *testing.T) {
	body := `{"type":"transfer","amount":"12.50","category":" Move ","division":"personal","description":"ATM","transactionDate":"2024-01-15T10:30:00.250","fromAccount":"Bank","toAccount":"  "}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))

	in, err := decodeTransactionInput(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("decodeTransactionInput() error = %v", err)
	}
	if in.Type != core.Transfer || in.Division != core.Personal {
		t.Errorf("enums = %s/%s", in.Type, in.Division)
	}
	if in.Amount.Cents != 1250 {
		t.Errorf("Amount = %d cents", in.Amount.Cents)
	}
	if in.Category != "Move" {
		t.Errorf("Category = %q", in.Category)
	}
	if in.ToAccount != "" || in.FromAccount != "Bank" {
		t.Errorf("accounts = %q -> %q", in.FromAccount, in.ToAccount)
	}
	if in.TransactionDate.Nanosecond() != 250_000_000 {
		t.Errorf("fractional seconds lost: %v", in.TransactionDate)
	}
}

func TestDecodeTransactionInputTextPresence(t *testing.T) {
	const base = `"type":"EXPENSE","amount":5,"division":"OFFICE","transactionDate":"2024-01-15T10:30:00"`
	tests := []struct {
		name    string
		body    string
		missing []string
	}{
		{"empty strings accepted", `{` + base + `,"category":"","description":""}`, nil},
		{"whitespace accepted", `{` + base + `,"category":"  ","description":" "}`, nil},
		{"absent rejected", `{` + base + `}`, []string{"category", "description"}},
		{"null rejected", `{` + base + `,"category":null,"description":"d"}`, []string{"category"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tt.body))
			in, err := decodeTransactionInput(httptest.NewRecorder(), req)
			if len(tt.missing) == 0 {
				if err != nil {
					t.Fatalf("decodeTransactionInput() error = %v", err)
				}
				if in.Category != "" || in.Description != "" {
					t.Fatalf("text fields = %q/%q", in.Category, in.Description)
				}
				return
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *core.ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tt.missing) {
				t.Fatalf("fields = %v, want %v", verr.Fields, tt.missing)
			}
			for _, f := range tt.missing {
				if verr.Fields[f] != "is required" {
					t.Errorf("%s message = %q", f, verr.Fields[f])
				}
			}
		})
	}
}

func TestDecodeTransactionInputReportsAllFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"amount":"abc","transactionDate":"nope"}`))

	_, err := decodeTransactionInput(httptest.NewRecorder(), req)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *core.ValidationError, got %v", err)
	}
	if verr.Fields["amount"] != "must be a decimal number" {
		t.Errorf("amount message = %q", verr.Fields["amount"])
	}
	if verr.Fields["transactionDate"] != "must be an ISO 8601 date-time" {
		t.Errorf("transactionDate message = %q", verr.Fields["transactionDate"])
	}
	for _, f := range []string{"type", "category", "division", "description"} {
		if verr.Fields[f] == "" {
			t.Errorf("missing %s", f)
		}
	}
}
