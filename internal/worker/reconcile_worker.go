package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"moneymanager/internal/amqp"
	"moneymanager/internal/core"
	"moneymanager/internal/services"
)

type Reconciler interface {
	ReconcileAccount(ctx context.Context, name string) (services.BalanceReport, error)
	ReconcileAll(ctx context.Context) ([]services.BalanceReport, error)
}

type EventSource interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEvent) error) error
}

// ReconcileWorker audits balances after every ledger event and on a fixed
// interval, so drift is found even when events are lost.
type ReconcileWorker struct {
	reconciler Reconciler
	source     EventSource
	interval   time.Duration

	events  atomic.Int64
	drifted atomic.Int64
}

// NewReconcileWorker returns a worker. source may be nil, in which case only
// the periodic pass runs.
func NewReconcileWorker(reconciler Reconciler, source EventSource, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		reconciler: reconciler,
		source:     source,
		interval:   interval,
	}
}

// HandleLedgerEvent reconciles each account the event touched. Accounts
// deleted since the event are ignored.
func (w *ReconcileWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	w.events.Add(1)
	slog.InfoContext(ctx, "Processing ledger event",
		"event_id", e.EventID,
		"event_kind", e.Kind,
		"transaction_id", e.TransactionID)

	for _, name := range e.Accounts() {
		report, err := w.reconciler.ReconcileAccount(ctx, name)
		if errors.Is(err, core.ErrNotFound) {
			slog.DebugContext(ctx, "Account from ledger event no longer exists", "account", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("reconcile %q: %w", name, err)
		}
		if report.Drifted() {
			w.drifted.Add(1)
		}
	}
	return nil
}

// ReconcileOnce runs a full pass and returns how many accounts drifted.
func (w *ReconcileWorker) ReconcileOnce(ctx context.Context) (int, error) {
	reports, err := w.reconciler.ReconcileAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range reports {
		if r.Drifted() {
			n++
		}
	}
	w.drifted.Add(int64(n))
	return n, nil
}

func (w *ReconcileWorker) runPeriodic(ctx context.Context) error {
	if _, err := w.ReconcileOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup reconciliation failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ReconcileOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic reconciliation failed", "error", err)
			}
		}
	}
}

// Run consumes ledger events and runs periodic passes until ctx is
// cancelled or the event stream fails.
func (w *ReconcileWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.source != nil {
		g.Go(func() error {
			return w.source.ConsumeLedgerEvents(ctx, w.HandleLedgerEvent)
		})
	} else {
		slog.InfoContext(ctx, "Skipping AMQP message consumption - no event source configured")
	}

	g.Go(func() error {
		return w.runPeriodic(ctx)
	})

	return g.Wait()
}

// Stats reports processed events and drift findings since start.
func (w *ReconcileWorker) Stats() (events, drifted int64) {
	return w.events.Load(), w.drifted.Load()
}
