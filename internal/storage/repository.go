package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moneymanager/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Writers take the database lock at BEGIN so that concurrent units of work
// queue on busy_timeout instead of failing on lock upgrade. The read handle
// keeps the default deferred BEGIN so read-only snapshots never hold the
// write lock.
const (
	readDSNPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	dsnPragmas     = readDSNPragmas + "&_txlock=immediate"
)

var errAlreadyInTx = errors.New("repository is already in a transaction")

type SQLiteRepository struct {
	db      *sql.DB
	readDB  *sql.DB
	queries *Queries
	inTx    bool
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	readDB, err := sql.Open("sqlite", dbPath+readDSNPragmas)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite read handle: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		readDB:  readDB,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.inTx {
		return nil
	}
	var errs []error
	if r.readDB != nil {
		errs = append(errs, r.readDB.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
	}
	return errors.Join(errs...)
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InTx runs fn against a repository bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// Nested calls are rejected.
func (r *SQLiteRepository) InTx(ctx context.Context, fn func(*SQLiteRepository) error) error {
	if r.inTx {
		return errAlreadyInTx
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := &SQLiteRepository{db: r.db, readDB: r.readDB, queries: r.queries.WithTx(tx), inTx: true}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ReadTx runs fn against one consistent snapshot for reads. The transaction is
// always rolled back and never takes the write lock, so writers proceed while
// fn runs.
func (r *SQLiteRepository) ReadTx(ctx context.Context, fn func(*SQLiteRepository) error) error {
	if r.inTx {
		return errAlreadyInTx
	}

	tx, err := r.readDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&SQLiteRepository{db: r.db, readDB: r.readDB, queries: r.queries.WithTx(tx), inTx: true})
}

// CreateAccount inserts a with its balance as the opening balance.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	exists, err := r.queries.AccountExists(ctx, a.Name)
	if err != nil {
		return core.Account{}, fmt.Errorf("check account %q: %w", a.Name, err)
	}
	if exists {
		return core.Account{}, fmt.Errorf("account %q: %w", a.Name, core.ErrDuplicateName)
	}

	row, err := r.queries.CreateAccount(ctx, CreateAccountParams{
		Name:                a.Name,
		BalanceCents:        a.Balance.Cents,
		OpeningBalanceCents: a.Balance.Cents,
		AccountType:         string(a.Type),
		CreatedAt:           toMillis(a.CreatedAt),
		UpdatedAt:           toMillis(a.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return core.Account{}, fmt.Errorf("account %q: %w", a.Name, core.ErrDuplicateName)
		}
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved to SQLite",
		"id", row.ID,
		"name", row.Name,
		"balance_cents", row.BalanceCents)

	return accountFromRow(row), nil
}

func (r *SQLiteRepository) GetAccountByName(ctx context.Context, name string) (core.Account, error) {
	row, err := r.queries.GetAccountByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Account{}, fmt.Errorf("account %q: %w", name, core.ErrNotFound)
		}
		return core.Account{}, fmt.Errorf("get account %q: %w", name, err)
	}
	return accountFromRow(row), nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]core.Account, len(rows))
	for i, row := range rows {
		accounts[i] = accountFromRow(row)
	}
	return accounts, nil
}

// DeleteAccount removes the account regardless of transactions naming it.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Account deleted from SQLite", "id", id)
	return nil
}

// AdjustBalance adds delta to the named account in a single statement.
func (r *SQLiteRepository) AdjustBalance(ctx context.Context, name string, delta core.Money, now time.Time) error {
	n, err := r.queries.AdjustAccountBalance(ctx, AdjustAccountBalanceParams{
		DeltaCents: delta.Cents,
		UpdatedAt:  toMillis(now),
		Name:       name,
	})
	if err != nil {
		return fmt.Errorf("adjust balance of %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("account %q: %w", name, core.ErrNotFound)
	}
	return nil
}

// ApplyTransactionDelta adds one engine delta of a transaction created at
// txCreatedAt. When the transaction predates the account the delta is also
// added to the account's carried total, which reconciliation cannot rebuild
// from the transactions it skips.
func (r *SQLiteRepository) ApplyTransactionDelta(ctx context.Context, name string, delta core.Money, txCreatedAt, now time.Time) error {
	n, err := r.queries.ApplyTransactionDelta(ctx, ApplyTransactionDeltaParams{
		DeltaCents:           delta.Cents,
		TransactionCreatedAt: toMillis(txCreatedAt),
		UpdatedAt:            toMillis(now),
		Name:                 name,
	})
	if err != nil {
		return fmt.Errorf("adjust balance of %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("account %q: %w", name, core.ErrNotFound)
	}
	return nil
}

// SetBalance overwrites the stored balance. Only reconciliation repair uses it.
func (r *SQLiteRepository) SetBalance(ctx context.Context, name string, balance core.Money, now time.Time) error {
	n, err := r.queries.SetAccountBalance(ctx, SetAccountBalanceParams{
		BalanceCents: balance.Cents,
		UpdatedAt:    toMillis(now),
		Name:         name,
	})
	if err != nil {
		return fmt.Errorf("set balance of %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("account %q: %w", name, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Type:            string(t.Type),
		AmountCents:     t.Amount.Cents,
		Category:        t.Category,
		Division:        string(t.Division),
		Description:     t.Description,
		TransactionDate: toMillis(t.TransactionDate),
		FromAccount:     nullString(t.FromAccount),
		ToAccount:       nullString(t.ToAccount),
		CreatedAt:       toMillis(t.CreatedAt),
		UpdatedAt:       toMillis(t.UpdatedAt),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"type", row.Type,
		"amount_cents", row.AmountCents)

	return transactionFromRow(row), nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return transactionFromRow(row), nil
}

// UpdateTransaction rewrites every mutable column of t. CreatedAt is never written.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		Type:            string(t.Type),
		AmountCents:     t.Amount.Cents,
		Category:        t.Category,
		Division:        string(t.Division),
		Description:     t.Description,
		TransactionDate: toMillis(t.TransactionDate),
		FromAccount:     nullString(t.FromAccount),
		ToAccount:       nullString(t.ToAccount),
		UpdatedAt:       toMillis(t.UpdatedAt),
		ID:              t.ID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return transactionFromRow(row), nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListTransactions returns every transaction, newest business date first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByDateDesc(ctx))
}

// ListTransactionsByDateRange returns transactions dated within [start, end].
func (r *SQLiteRepository) ListTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByDateRange(ctx, dateRange(start, end)))
}

func (r *SQLiteRepository) ListTransactionsByType(ctx context.Context, t core.TransactionType) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByType(ctx, string(t)))
}

func (r *SQLiteRepository) ListTransactionsByTypeAndDateRange(ctx context.Context, t core.TransactionType, start, end time.Time) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByTypeAndDateRange(ctx, string(t), dateRange(start, end)))
}

func (r *SQLiteRepository) ListTransactionsByDivision(ctx context.Context, d core.Division) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByDivision(ctx, string(d)))
}

func (r *SQLiteRepository) ListTransactionsByDivisionAndDateRange(ctx context.Context, d core.Division, start, end time.Time) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByDivisionAndDateRange(ctx, string(d), dateRange(start, end)))
}

func (r *SQLiteRepository) ListTransactionsByCategory(ctx context.Context, category string) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByCategory(ctx, category))
}

func (r *SQLiteRepository) ListTransactionsByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByCategoryAndDateRange(ctx, category, dateRange(start, end)))
}

// ListTransactionsByAccount returns transactions naming the account on either side.
func (r *SQLiteRepository) ListTransactionsByAccount(ctx context.Context, name string) ([]core.Transaction, error) {
	return transactionsFromRows(r.queries.ListTransactionsByAccount(ctx, name))
}

// ListCategoriesByType returns the distinct categories used by transactions of type t, sorted.
func (r *SQLiteRepository) ListCategoriesByType(ctx context.Context, t core.TransactionType) ([]string, error) {
	categories, err := r.queries.ListDistinctCategoriesByType(ctx, string(t))
	if err != nil {
		return nil, fmt.Errorf("list categories for %s: %w", t, err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func accountFromRow(row Account) core.Account {
	return core.Account{
		ID:             row.ID,
		Name:           row.Name,
		Balance:        core.Money{Cents: row.BalanceCents},
		OpeningBalance: core.Money{Cents: row.OpeningBalanceCents},
		Carried:        core.Money{Cents: row.CarriedCents},
		Type:           core.AccountType(row.AccountType),
		CreatedAt:      fromMillis(row.CreatedAt),
		UpdatedAt:      fromMillis(row.UpdatedAt),
	}
}

func transactionFromRow(row Transaction) core.Transaction {
	return core.Transaction{
		ID:              row.ID,
		Type:            core.TransactionType(row.Type),
		Amount:          core.Money{Cents: row.AmountCents},
		Category:        row.Category,
		Division:        core.Division(row.Division),
		Description:     row.Description,
		TransactionDate: fromMillis(row.TransactionDate),
		FromAccount:     row.FromAccount.String,
		ToAccount:       row.ToAccount.String,
		CreatedAt:       fromMillis(row.CreatedAt),
		UpdatedAt:       fromMillis(row.UpdatedAt),
	}
}

func transactionsFromRows(rows []Transaction, err error) ([]core.Transaction, error) {
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txs := make([]core.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = transactionFromRow(row)
	}
	return txs, nil
}

func dateRange(start, end time.Time) DateRangeParams {
	return DateRangeParams{Start: toMillis(start), End: toMillis(end)}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
