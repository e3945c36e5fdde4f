package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"moneymanager/internal/amqp"
	"moneymanager/internal/cache"
	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/storage"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
}

func (p *fakePublisher) PublishLedgerEvent(_ context.Context, e *amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Events() []*amqp.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.LedgerEvent(nil), p.events...)
}

type fixture struct {
	repo       *storage.SQLiteRepository
	clock      *fakeClock
	publisher  *fakePublisher
	accounts   *AccountService
	txs        *TransactionService
	reconciler *Reconciler
	logs       *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	f := &fixture{
		repo:      repo,
		clock:     newFakeClock(),
		publisher: &fakePublisher{},
		logs:      &bytes.Buffer{},
	}
	logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: f.logs})
	opts := []Option{WithClock(f.clock.Now), WithLogger(logger)}

	f.accounts = NewAccountService(repo, opts...)
	f.txs = NewTransactionService(repo, f.publisher, cache.NewLRUCache[[]core.Transaction](8, time.Hour), opts...)
	f.reconciler = NewReconciler(repo, opts...)
	return f
}

func (f *fixture) account(t *testing.T, name string, cents int64) {
	t.Helper()
	if _, err := f.accounts.CreateAccount(context.Background(), name, core.Money{Cents: cents}, core.Cash); err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
}

func (f *fixture) balance(t *testing.T, name string) int64 {
	t.Helper()
	a, err := f.accounts.GetAccount(context.Background(), name)
	if err != nil {
		t.Fatalf("get account %s: %v", name, err)
	}
	return a.Balance.Cents
}

func input(typ core.TransactionType, cents int64, from, to string) core.TransactionInput {
	return core.TransactionInput{
		Type:            typ,
		Amount:          core.Money{Cents: cents},
		Category:        "General",
		Division:        core.Personal,
		Description:     "test",
		TransactionDate: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		FromAccount:     from,
		ToAccount:       to,
	}
}

func (f *fixture) create(t *testing.T, in core.TransactionInput) core.Transaction {
	t.Helper()
	tx, err := f.txs.CreateTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func assertIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
