package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"moneymanager/internal/amqp"
	"moneymanager/internal/cache"
	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/storage"
)

// EventPublisher receives ledger events after their unit of work commits.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error
}

// DateRange is an inclusive business-date interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) key() string {
	return strconv.FormatInt(r.Start.UnixMilli(), 10) + ":" + strconv.FormatInt(r.End.UnixMilli(), 10)
}

// TransactionService couples transaction writes with the balance updates
// they imply. Every mutation and its deltas commit or roll back together.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher EventPublisher
	opts      options
	events    *log.StructuredLogger

	rangeCache *cache.LRUCache[[]core.Transaction]
	fills      singleflight.Group
	generation atomic.Uint64
}

// NewTransactionService builds the service. publisher may be nil, in which
// case ledger events are skipped. rangeCache may be nil to disable caching.
func NewTransactionService(storage *storage.SQLiteRepository, publisher EventPublisher, rangeCache *cache.LRUCache[[]core.Transaction], opts ...Option) *TransactionService {
	o := buildOptions(log.ComponentTransaction, opts)
	return &TransactionService{
		storage:    storage,
		publisher:  publisher,
		opts:       o,
		events:     log.NewStructuredLogger(o.logger),
		rangeCache: rangeCache,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := s.opts.clock()
	var (
		created core.Transaction
		applied []core.Delta
	)
	err := s.storage.InTx(ctx, func(tx *storage.SQLiteRepository) error {
		var err error
		created, err = tx.CreateTransaction(ctx, core.Transaction{CreatedAt: now, UpdatedAt: now}.Apply(in))
		if err != nil {
			return err
		}
		applied, err = s.applyDeltas(ctx, tx, created, core.Deltas(core.EffectOf(created)), now)
		return err
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.afterCommit(ctx, amqp.TransactionCreated, created, applied, now)
	return s.withEditable(created, now), nil
}

// UpdateTransaction replaces the caller-controlled fields of transaction id.
// The old deltas are reversed and the new ones applied in the same unit of work.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := s.opts.clock()
	var (
		updated core.Transaction
		applied []core.Delta
	)
	err := s.storage.InTx(ctx, func(tx *storage.SQLiteRepository) error {
		existing, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if err := core.CheckEditable(existing, now); err != nil {
			return err
		}

		reversed, err := s.applyDeltas(ctx, tx, existing, core.Reverse(core.Deltas(core.EffectOf(existing))), now)
		if err != nil {
			return err
		}

		next := existing.Apply(in)
		next.UpdatedAt = now
		updated, err = tx.UpdateTransaction(ctx, next)
		if err != nil {
			return err
		}

		fresh, err := s.applyDeltas(ctx, tx, updated, core.Deltas(core.EffectOf(updated)), now)
		if err != nil {
			return err
		}
		applied = append(reversed, fresh...)
		return nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}

	s.afterCommit(ctx, amqp.TransactionUpdated, updated, applied, now)
	return s.withEditable(updated, now), nil
}

// DeleteTransaction reverses the deltas of transaction id and removes it.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	now := s.opts.clock()
	var (
		existing core.Transaction
		applied  []core.Delta
	)
	err := s.storage.InTx(ctx, func(tx *storage.SQLiteRepository) error {
		var err error
		existing, err = tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if err := core.CheckEditable(existing, now); err != nil {
			return err
		}

		applied, err = s.applyDeltas(ctx, tx, existing, core.Reverse(core.Deltas(core.EffectOf(existing))), now)
		if err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	s.afterCommit(ctx, amqp.TransactionDeleted, existing, applied, now)
	return nil
}

// applyDeltas adjusts each named balance and returns the deltas that landed.
// Accounts that do not exist are skipped.
func (s *TransactionService) applyDeltas(ctx context.Context, tx *storage.SQLiteRepository, t core.Transaction, deltas []core.Delta, now time.Time) ([]core.Delta, error) {
	applied := make([]core.Delta, 0, len(deltas))
	for _, d := range deltas {
		err := tx.ApplyTransactionDelta(ctx, d.Account, d.Amount, t.CreatedAt, now)
		if errors.Is(err, core.ErrNotFound) {
			s.opts.logger.WarnContext(ctx, "Skipping balance update for unknown account",
				log.FieldAccount, d.Account,
				log.FieldDeltaCents, d.Amount.Cents)
			continue
		}
		if err != nil {
			return nil, err
		}
		applied = append(applied, d)
	}
	return applied, nil
}

func (s *TransactionService) afterCommit(ctx context.Context, kind amqp.EventKind, t core.Transaction, applied []core.Delta, now time.Time) {
	s.invalidate()

	op := log.OpCreate
	switch kind {
	case amqp.TransactionUpdated:
		op = log.OpUpdate
	case amqp.TransactionDeleted:
		op = log.OpDelete
	}
	s.events.LogTransactionMutation(ctx, op, t.ID, string(t.Type), t.Amount.Cents)

	if s.publisher == nil {
		s.opts.logger.WarnContext(ctx, "AMQP client not available, skipping ledger event",
			log.FieldTransactionID, t.ID)
		return
	}

	event := amqp.NewLedgerEvent(kind, t.ID, applied, now)
	if err := s.publisher.PublishLedgerEvent(ctx, event); err != nil {
		// The commit stands; reconciliation picks up any missed event.
		s.opts.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldEventID, event.EventID,
			log.FieldTransactionID, t.ID,
			log.FieldError, err)
	}
}

func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	return s.withEditable(t, s.opts.clock()), nil
}

// ListTransactions returns every transaction, newest business date first.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.marked(s.storage.ListTransactions(ctx))
}

func (s *TransactionService) ListByDateRange(ctx context.Context, r DateRange) ([]core.Transaction, error) {
	return s.marked(s.storage.ListTransactionsByDateRange(ctx, r.Start, r.End))
}

// ListByType filters by type, and by business date when r is non-nil.
func (s *TransactionService) ListByType(ctx context.Context, t core.TransactionType, r *DateRange) ([]core.Transaction, error) {
	if r != nil {
		return s.marked(s.storage.ListTransactionsByTypeAndDateRange(ctx, t, r.Start, r.End))
	}
	return s.marked(s.storage.ListTransactionsByType(ctx, t))
}

func (s *TransactionService) ListByDivision(ctx context.Context, d core.Division, r *DateRange) ([]core.Transaction, error) {
	if r != nil {
		return s.marked(s.storage.ListTransactionsByDivisionAndDateRange(ctx, d, r.Start, r.End))
	}
	return s.marked(s.storage.ListTransactionsByDivision(ctx, d))
}

func (s *TransactionService) ListByCategory(ctx context.Context, category string, r *DateRange) ([]core.Transaction, error) {
	if r != nil {
		return s.marked(s.storage.ListTransactionsByCategoryAndDateRange(ctx, category, r.Start, r.End))
	}
	return s.marked(s.storage.ListTransactionsByCategory(ctx, category))
}

func (s *TransactionService) Categories(ctx context.Context, t core.TransactionType) ([]string, error) {
	return s.storage.ListCategoriesByType(ctx, t)
}

// Dashboard summarizes the transactions dated within r.
func (s *TransactionService) Dashboard(ctx context.Context, r DateRange) (core.DashboardSummary, error) {
	txs, err := s.rangeTransactions(ctx, r)
	if err != nil {
		return core.DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}
	summary := core.Summarize(txs, core.RecentTransactionsLimit)
	summary.RecentTransactions = s.markAll(summary.RecentTransactions, s.opts.clock())
	return summary, nil
}

// rangeTransactions serves the range from cache. Concurrent misses for the
// same range share one query. A fill that raced with a mutation is not stored.
func (s *TransactionService) rangeTransactions(ctx context.Context, r DateRange) ([]core.Transaction, error) {
	if s.rangeCache == nil {
		return s.storage.ListTransactionsByDateRange(ctx, r.Start, r.End)
	}

	key := r.key()
	if txs, ok := s.rangeCache.Get(key); ok {
		return txs, nil
	}

	v, err, _ := s.fills.Do(key, func() (interface{}, error) {
		gen := s.generation.Load()
		txs, err := s.storage.ListTransactionsByDateRange(ctx, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == gen {
			s.rangeCache.Set(key, txs)
		}
		return txs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.Transaction), nil
}

func (s *TransactionService) invalidate() {
	s.generation.Add(1)
	if s.rangeCache != nil {
		s.rangeCache.Purge()
	}
}

func (s *TransactionService) withEditable(t core.Transaction, now time.Time) core.Transaction {
	t.Editable = core.IsEditable(t.CreatedAt, now)
	return t
}

// markAll returns a copy of txs with Editable set; txs may be shared with the cache.
func (s *TransactionService) markAll(txs []core.Transaction, now time.Time) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	for i, t := range txs {
		out[i] = s.withEditable(t, now)
	}
	return out
}

func (s *TransactionService) marked(txs []core.Transaction, err error) ([]core.Transaction, error) {
	if err != nil {
		return nil, err
	}
	return s.markAll(txs, s.opts.clock()), nil
}
