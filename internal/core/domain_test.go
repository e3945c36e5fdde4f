package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validInput() TransactionInput {
	return TransactionInput{
		Type:            Expense,
		Amount:          Money{Cents: 3000},
		Category:        "Food",
		Division:        Personal,
		Description:     "lunch",
		TransactionDate: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		FromAccount:     "Cash",
	}
}

func TestTransactionInputValidate(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*TransactionInput)
		field  string
	}{
		{"missing type", func(in *TransactionInput) { in.Type = "" }, "type"},
		{"unknown type", func(in *TransactionInput) { in.Type = "REFUND" }, "type"},
		{"zero amount", func(in *TransactionInput) { in.Amount = Money{} }, "amount"},
		{"negative amount", func(in *TransactionInput) { in.Amount = Money{Cents: -1} }, "amount"},
		{"long category", func(in *TransactionInput) { in.Category = strings.Repeat("x", 101) }, "category"},
		{"unknown division", func(in *TransactionInput) { in.Division = "HOME" }, "division"},
		{"long description", func(in *TransactionInput) { in.Description = strings.Repeat("x", 501) }, "description"},
		{"missing date", func(in *TransactionInput) { in.TransactionDate = time.Time{} }, "transactionDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestTransactionInputValidateCollectsAllFields(t *testing.T) {
	err := TransactionInput{}.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, f := range []string{"type", "amount", "division", "transactionDate"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("missing field %q", f)
		}
	}
}

func TestTransactionInputAllowsEmptyText(t *testing.T) {
	in := validInput()
	in.Category = ""
	in.Description = ""
	if err := in.Validate(); err != nil {
		t.Fatalf("expected empty category and description to be accepted, got %v", err)
	}
}

func TestTransactionInputNormalize(t *testing.T) {
	in := TransactionInput{Category: " Food ", FromAccount: "  ", ToAccount: " Bank "}.Normalize()
	if in.Category != "Food" || in.FromAccount != "" || in.ToAccount != "Bank" {
		t.Fatalf("unexpected normalization: %+v", in)
	}
}

func TestParseEnums(t *testing.T) {
	if v, ok := ParseTransactionType(" income "); !ok || v != Income {
		t.Fatalf("got %q %v", v, ok)
	}
	if v, ok := ParseDivision("office"); !ok || v != Office {
		t.Fatalf("got %q %v", v, ok)
	}
	if v, ok := ParseAccountType("credit_card"); !ok || v != CreditCard {
		t.Fatalf("got %q %v", v, ok)
	}
	if _, ok := ParseAccountType("savings"); ok {
		t.Fatalf("expected unknown account type")
	}
}

func TestValidateNewAccount(t *testing.T) {
	if err := ValidateNewAccount("Cash", Cash); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []struct {
		name string
		typ  AccountType
	}{
		{"", Cash},
		{"   ", Bank},
		{strings.Repeat("a", 101), Bank},
		{"Cash", ""},
		{"Cash", "SAVINGS"},
	}
	for i, b := range bads {
		if err := ValidateNewAccount(b.name, b.typ); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected ErrValidation, got %v", i, err)
		}
	}
}

func TestValidationErrorFirstMessageWins(t *testing.T) {
	verr := NewValidationError()
	if verr.OrNil() != nil {
		t.Fatalf("empty error should be nil")
	}
	verr.Add("amount", "first")
	verr.Add("amount", "second")
	if verr.Fields["amount"] != "first" {
		t.Fatalf("got %q", verr.Fields["amount"])
	}
	if !strings.Contains(verr.Error(), "amount: first") {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}
