package core

import (
	"strings"
	"time"
)

const (
	Cash       AccountType = "CASH"
	Bank       AccountType = "BANK"
	CreditCard AccountType = "CREDIT_CARD"
	Wallet     AccountType = "WALLET"
)

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

const (
	Office   Division = "OFFICE"
	Personal Division = "PERSONAL"
)

const (
	MaxAccountNameLength = 100
	MaxCategoryLength    = 100
	MaxDescriptionLength = 500
)

type (
	AccountType     string
	TransactionType string
	Division        string

	Account struct {
		ID             int64
		Name           string
		Balance        Money
		OpeningBalance Money // balance at creation; used by reconciliation only
		Carried        Money // deltas of transactions that predate the account
		Type           AccountType
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	Transaction struct {
		ID              int64
		Type            TransactionType
		Amount          Money
		Category        string
		Division        Division
		Description     string
		TransactionDate time.Time // business date
		FromAccount     string    // empty when absent
		ToAccount       string    // empty when absent
		CreatedAt       time.Time
		UpdatedAt       time.Time

		// Editable is derived from CreatedAt at read time and never stored.
		Editable bool
	}

	// TransactionInput holds the caller-controlled fields of a transaction.
	// Identifiers and timestamps are assigned by the service.
	TransactionInput struct {
		Type            TransactionType
		Amount          Money
		Category        string
		Division        Division
		Description     string
		TransactionDate time.Time
		FromAccount     string
		ToAccount       string
	}
)

func (t AccountType) IsValid() bool {
	switch t {
	case Cash, Bank, CreditCard, Wallet:
		return true
	default:
		return false
	}
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	default:
		return false
	}
}

func (d Division) IsValid() bool {
	switch d {
	case Office, Personal:
		return true
	default:
		return false
	}
}

// ParseAccountType normalizes s (case-insensitive) and reports whether it is known.
func ParseAccountType(s string) (AccountType, bool) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// ParseTransactionType normalizes s (case-insensitive) and reports whether it is known.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// ParseDivision normalizes s (case-insensitive) and reports whether it is known.
func ParseDivision(s string) (Division, bool) {
	d := Division(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.IsValid()
}

// ValidateNewAccount checks the fields supplied when opening an account.
func ValidateNewAccount(name string, accountType AccountType) error {
	verr := NewValidationError()
	name = strings.TrimSpace(name)
	if name == "" {
		verr.Add("accountName", "is required")
	} else if len(name) > MaxAccountNameLength {
		verr.Add("accountName", "must be at most 100 characters")
	}
	if accountType == "" {
		verr.Add("accountType", "is required")
	} else if !accountType.IsValid() {
		verr.Add("accountType", "must be one of CASH, BANK, CREDIT_CARD, WALLET")
	}
	return verr.OrNil()
}

// Normalize trims free-text fields and blanks out whitespace-only account names.
func (in TransactionInput) Normalize() TransactionInput {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.FromAccount = strings.TrimSpace(in.FromAccount)
	in.ToAccount = strings.TrimSpace(in.ToAccount)
	return in
}

// Validate reports every invalid field at once. Category and description may
// be empty; whether they were supplied at all is a wire concern.
func (in TransactionInput) Validate() error {
	verr := NewValidationError()

	if in.Type == "" {
		verr.Add("type", "is required")
	} else if !in.Type.IsValid() {
		verr.Add("type", "must be one of INCOME, EXPENSE, TRANSFER")
	}
	if err := in.Amount.Validate(); err != nil {
		verr.Add("amount", "must be positive")
	}
	if len(in.Category) > MaxCategoryLength {
		verr.Add("category", "must be at most 100 characters")
	}
	if in.Division == "" {
		verr.Add("division", "is required")
	} else if !in.Division.IsValid() {
		verr.Add("division", "must be one of OFFICE, PERSONAL")
	}
	if len(in.Description) > MaxDescriptionLength {
		verr.Add("description", "must be at most 500 characters")
	}
	if in.TransactionDate.IsZero() {
		verr.Add("transactionDate", "is required")
	}

	return verr.OrNil()
}

// Apply copies the caller-controlled fields of in onto t.
func (t Transaction) Apply(in TransactionInput) Transaction {
	t.Type = in.Type
	t.Amount = in.Amount
	t.Category = in.Category
	t.Division = in.Division
	t.Description = in.Description
	t.TransactionDate = in.TransactionDate
	t.FromAccount = in.FromAccount
	t.ToAccount = in.ToAccount
	return t
}
