package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"

	"moneymanager/internal/config"
	"moneymanager/internal/core"
	"moneymanager/internal/services"
	"moneymanager/internal/storage"
)

func run(t *testing.T, cfg *config.Config, args ...string) error {
	t.Helper()
	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestReconcileAndRepair(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	cfg := &config.Config{SQLiteDBPath: filepath.Join(t.TempDir(), "ctl.db")}
	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	if _, err := services.NewAccountService(repo).CreateAccount(ctx, "Cash", core.Money{Cents: 10000}, core.Cash); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	// Tamper with the balance behind the ledger's back.
	if err := repo.AdjustBalance(ctx, "Cash", core.Money{Cents: 500}, time.Now()); err != nil {
		t.Fatalf("AdjustBalance: %v", err)
	}
	repo.Close()

	if err := run(t, cfg, "reconcile"); !errors.Is(err, errDrift) {
		t.Fatalf("reconcile error = %v, want errDrift", err)
	}
	if err := run(t, cfg, "reconcile", "--account", "Nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("reconcile unknown account error = %v", err)
	}
	if err := run(t, cfg, "repair", "Cash"); err != nil {
		t.Fatalf("repair: %v", err)
	}
	if err := run(t, cfg, "reconcile", "-a", "Cash"); err != nil {
		t.Fatalf("reconcile after repair: %v", err)
	}
	if err := run(t, cfg, "accounts", "list"); err != nil {
		t.Fatalf("accounts list: %v", err)
	}
}

func TestMigrateCommands(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	cfg := &config.Config{SQLiteDBPath: filepath.Join(t.TempDir(), "nested", "ctl.db")}

	for _, args := range [][]string{
		{"migrate", "up"},
		{"migrate", "version"},
		{"migrate", "down"},
		{"migrate", "up"},
	} {
		if err := run(t, cfg, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	if err := run(t, cfg, "repair"); err == nil {
		t.Fatal("repair without a name should fail")
	}
}

func TestReportTable(t *testing.T) {
	data := reportTable([]services.BalanceReport{
		{Account: "Cash", Stored: core.Money{Cents: 100}, Expected: core.Money{Cents: 100}},
	})
	if len(data) != 2 || data[1][3] != "0.00" {
		t.Fatalf("reportTable() = %v", data)
	}
	if driftCount([]services.BalanceReport{{Drift: core.Money{Cents: 1}}, {}}) != 1 {
		t.Fatal("driftCount mismatch")
	}
}
