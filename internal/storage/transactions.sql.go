package storage

import (
	"context"
	"database/sql"
)

const transactionColumns = `id, type, amount_cents, category, division, description, transaction_date, from_account, to_account, created_at, updated_at`

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (type, amount_cents, category, division, description, transaction_date, from_account, to_account, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
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

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Type,
		arg.AmountCents,
		arg.Category,
		arg.Division,
		arg.Description,
		arg.TransactionDate,
		arg.FromAccount,
		arg.ToAccount,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanTransaction(row)
}

const getTransaction = `-- name: GetTransaction :one
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const updateTransaction = `-- name: UpdateTransaction :one
UPDATE transactions
SET type = ?, amount_cents = ?, category = ?, division = ?, description = ?,
    transaction_date = ?, from_account = ?, to_account = ?, updated_at = ?
WHERE id = ?
RETURNING ` + transactionColumns

type UpdateTransactionParams struct {
	Type            string
	AmountCents     int64
	Category        string
	Division        string
	Description     string
	TransactionDate int64
	FromAccount     sql.NullString
	ToAccount       sql.NullString
	UpdatedAt       int64
	ID              int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, updateTransaction,
		arg.Type,
		arg.AmountCents,
		arg.Category,
		arg.Division,
		arg.Description,
		arg.TransactionDate,
		arg.FromAccount,
		arg.ToAccount,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanTransaction(row)
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions
WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listTransactionsByDateDesc = `-- name: ListTransactionsByDateDesc :many
SELECT ` + transactionColumns + `
FROM transactions
ORDER BY transaction_date DESC, id DESC
`

func (q *Queries) ListTransactionsByDateDesc(ctx context.Context) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByDateDesc)
}

const listTransactionsByDateRange = `-- name: ListTransactionsByDateRange :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE transaction_date BETWEEN ? AND ?
ORDER BY id
`

type DateRangeParams struct {
	Start int64
	End   int64
}

func (q *Queries) ListTransactionsByDateRange(ctx context.Context, arg DateRangeParams) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByDateRange, arg.Start, arg.End)
}

const listTransactionsByType = `-- name: ListTransactionsByType :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE type = ?
ORDER BY id
`

func (q *Queries) ListTransactionsByType(ctx context.Context, transactionType string) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByType, transactionType)
}

const listTransactionsByTypeAndDateRange = `-- name: ListTransactionsByTypeAndDateRange :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE type = ? AND transaction_date BETWEEN ? AND ?
ORDER BY id
`

func (q *Queries) ListTransactionsByTypeAndDateRange(ctx context.Context, transactionType string, arg DateRangeParams) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByTypeAndDateRange, transactionType, arg.Start, arg.End)
}

const listTransactionsByDivision = `-- name: ListTransactionsByDivision :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE division = ?
ORDER BY id
`

func (q *Queries) ListTransactionsByDivision(ctx context.Context, division string) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByDivision, division)
}

const listTransactionsByDivisionAndDateRange = `-- name: ListTransactionsByDivisionAndDateRange :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE division = ? AND transaction_date BETWEEN ? AND ?
ORDER BY id
`

func (q *Queries) ListTransactionsByDivisionAndDateRange(ctx context.Context, division string, arg DateRangeParams) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByDivisionAndDateRange, division, arg.Start, arg.End)
}

const listTransactionsByCategory = `-- name: ListTransactionsByCategory :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE category = ?
ORDER BY id
`

func (q *Queries) ListTransactionsByCategory(ctx context.Context, category string) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByCategory, category)
}

const listTransactionsByCategoryAndDateRange = `-- name: ListTransactionsByCategoryAndDateRange :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE category = ? AND transaction_date BETWEEN ? AND ?
ORDER BY id
`

func (q *Queries) ListTransactionsByCategoryAndDateRange(ctx context.Context, category string, arg DateRangeParams) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByCategoryAndDateRange, category, arg.Start, arg.End)
}

const listTransactionsByAccount = `-- name: ListTransactionsByAccount :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE from_account = ? OR to_account = ?
ORDER BY id
`

func (q *Queries) ListTransactionsByAccount(ctx context.Context, name string) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByAccount, name, name)
}

const listDistinctCategoriesByType = `-- name: ListDistinctCategoriesByType :many
SELECT DISTINCT category
FROM transactions
WHERE type = ?
ORDER BY category
`

func (q *Queries) ListDistinctCategoriesByType(ctx context.Context, transactionType string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listDistinctCategoriesByType, transactionType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		items = append(items, category)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.AmountCents,
		&i.Category,
		&i.Division,
		&i.Description,
		&i.TransactionDate,
		&i.FromAccount,
		&i.ToAccount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listTransactions(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
