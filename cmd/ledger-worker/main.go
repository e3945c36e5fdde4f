package main

import (
	"context"
	"errors"
	"os"
	"time"

	"moneymanager/internal/cli"
	"moneymanager/internal/log"
	"moneymanager/internal/services"
	"moneymanager/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)
	logger.Info("Starting ledger-worker", "reconcile_interval", cfg.ReconcileInterval)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	reconciler := services.NewReconciler(repo, services.WithLogger(logger))

	var source worker.EventSource
	if client := cli.InitAMQP(logger, cfg); client != nil {
		defer client.Close()
		source = client
	}

	w := worker.NewReconcileWorker(reconciler, source, cfg.ReconcileInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	err := w.Run(ctx)
	events, drifted := w.Stats()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Ledger worker stopped", "error", err, "events", events, "drift_findings", drifted)
		os.Exit(1)
	}

	<-done
	logger.Info("Worker shutdown complete", "events", events, "drift_findings", drifted)
}
