package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"moneymanager/internal/cache"
	"moneymanager/internal/cli"
	"moneymanager/internal/core"
	apphttp "moneymanager/internal/http"
	"moneymanager/internal/log"
	"moneymanager/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	rangeCache := cache.NewLRUCache[[]core.Transaction](cfg.DashboardCacheSize, cfg.DashboardCacheTTL)
	opts := []services.Option{services.WithLogger(logger)}
	accounts := services.NewAccountService(repo, opts...)
	transactions := services.NewTransactionService(repo, cli.Publisher(amqpClient), rangeCache, opts...)

	srv := apphttp.NewServer(apphttp.Config{
		Addr:              ":" + cfg.Port,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimitRPM:      cfg.RateLimitRPM,
	}, accounts, transactions,
		apphttp.WithLogger(logger),
		apphttp.WithReadinessCheck(repo.Ping),
		apphttp.WithCacheStats(rangeCache.Stats))
	srv.ApplyTimeouts()
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	go cache.NewManager(rangeCache).Run(ctx, time.Minute)

	logger.Info("Starting moneymanager server",
		"port", cfg.Port,
		"db", cfg.SQLiteDBPath,
		"amqp", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
