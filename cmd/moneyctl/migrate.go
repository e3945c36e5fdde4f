package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moneymanager/internal/config"
	"moneymanager/internal/storage"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cfg, func(m *storage.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(m)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration, dropping all data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cfg, func(m *storage.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				pterm.Warning.Println("All migrations rolled back")
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cfg, printVersion)
		},
	})

	return migrateCmd
}

func withMigrator(cfg *config.Config, fn func(*storage.Migrator) error) error {
	m, err := storage.NewMigrator(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer m.Close()
	return fn(m)
}

func printVersion(m *storage.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		pterm.Warning.Printf("Schema version %d (dirty)\n", version)
		return nil
	}
	pterm.Success.Printf("Schema version %d\n", version)
	return nil
}
