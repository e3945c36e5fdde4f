package storage

import (
	"database/sql"
)

type Account struct {
	ID                  int64
	Name                string
	BalanceCents        int64
	OpeningBalanceCents int64
	CarriedCents        int64
	AccountType         string
	CreatedAt           int64
	UpdatedAt           int64
}

type Transaction struct {
	ID              int64
	Type            string
	AmountCents     int64
	Category        string
	Division        string
	Description     string
	TransactionDate int64
	FromAccount     sql.NullString
	ToAccount       sql.NullString
	CreatedAt       int64
	UpdatedAt       int64
}
