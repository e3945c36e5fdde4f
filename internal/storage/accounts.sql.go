package storage

import (
	"context"
)

const accountExists = `-- name: AccountExists :one
SELECT EXISTS(SELECT 1 FROM accounts WHERE name = ?)
`

func (q *Queries) AccountExists(ctx context.Context, name string) (bool, error) {
	row := q.db.QueryRowContext(ctx, accountExists, name)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (name, balance_cents, opening_balance_cents, account_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, name, balance_cents, opening_balance_cents, carried_cents, account_type, created_at, updated_at
`

type CreateAccountParams struct {
	Name                string
	BalanceCents        int64
	OpeningBalanceCents int64
	AccountType         string
	CreatedAt           int64
	UpdatedAt           int64
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, createAccount,
		arg.Name,
		arg.BalanceCents,
		arg.OpeningBalanceCents,
		arg.AccountType,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.BalanceCents,
		&i.OpeningBalanceCents,
		&i.CarriedCents,
		&i.AccountType,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByName = `-- name: GetAccountByName :one
SELECT id, name, balance_cents, opening_balance_cents, carried_cents, account_type, created_at, updated_at
FROM accounts
WHERE name = ?
`

func (q *Queries) GetAccountByName(ctx context.Context, name string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccountByName, name)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.BalanceCents,
		&i.OpeningBalanceCents,
		&i.CarriedCents,
		&i.AccountType,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, name, balance_cents, opening_balance_cents, carried_cents, account_type, created_at, updated_at
FROM accounts
ORDER BY id
`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.BalanceCents,
			&i.OpeningBalanceCents,
			&i.CarriedCents,
			&i.AccountType,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
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

const adjustAccountBalance = `-- name: AdjustAccountBalance :execrows
UPDATE accounts
SET balance_cents = balance_cents + ?, updated_at = ?
WHERE name = ?
`

type AdjustAccountBalanceParams struct {
	DeltaCents int64
	UpdatedAt  int64
	Name       string
}

func (q *Queries) AdjustAccountBalance(ctx context.Context, arg AdjustAccountBalanceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, adjustAccountBalance, arg.DeltaCents, arg.UpdatedAt, arg.Name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const applyTransactionDelta = `-- name: ApplyTransactionDelta :execrows
UPDATE accounts
SET balance_cents = balance_cents + ?,
    carried_cents = carried_cents + CASE WHEN ? < created_at THEN ? ELSE 0 END,
    updated_at = ?
WHERE name = ?
`

type ApplyTransactionDeltaParams struct {
	DeltaCents           int64
	TransactionCreatedAt int64
	UpdatedAt            int64
	Name                 string
}

func (q *Queries) ApplyTransactionDelta(ctx context.Context, arg ApplyTransactionDeltaParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, applyTransactionDelta,
		arg.DeltaCents,
		arg.TransactionCreatedAt,
		arg.DeltaCents,
		arg.UpdatedAt,
		arg.Name,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setAccountBalance = `-- name: SetAccountBalance :execrows
UPDATE accounts
SET balance_cents = ?, updated_at = ?
WHERE name = ?
`

type SetAccountBalanceParams struct {
	BalanceCents int64
	UpdatedAt    int64
	Name         string
}

func (q *Queries) SetAccountBalance(ctx context.Context, arg SetAccountBalanceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setAccountBalance, arg.BalanceCents, arg.UpdatedAt, arg.Name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts
WHERE id = ?
`

func (q *Queries) DeleteAccount(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
