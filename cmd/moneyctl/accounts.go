package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moneymanager/internal/config"
	"moneymanager/internal/core"
	"moneymanager/internal/services"
	"moneymanager/internal/storage"
)

func newAccountsCmd(cfg *config.Config) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect accounts",
	}

	accountsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *storage.SQLiteRepository) error {
				accounts, err := services.NewAccountService(repo).ListAccounts(ctxOrBackground(cmd))
				if err != nil {
					return fmt.Errorf("failed to get accounts: %w", err)
				}
				pterm.DefaultSection.Println("Account List")
				if err := pterm.DefaultTable.WithHasHeader().WithData(accountTable(accounts)).Render(); err != nil {
					return err
				}
				pterm.Info.Printf("Total: %d accounts\n", len(accounts))
				return nil
			})
		},
	})

	return accountsCmd
}

func accountTable(accounts []core.Account) pterm.TableData {
	data := pterm.TableData{{"ID", "Name", "Type", "Balance", "Opening"}}
	for _, a := range accounts {
		balance := a.Balance.String()
		if a.Balance.Cents < 0 {
			balance = pterm.Red(balance)
		}
		data = append(data, []string{
			fmt.Sprint(a.ID),
			a.Name,
			string(a.Type),
			balance,
			a.OpeningBalance.String(),
		})
	}
	return data
}

func withRepository(cfg *config.Config, fn func(*storage.SQLiteRepository) error) error {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}

// ctxOrBackground returns cmd's context, which is nil when a command is run
// outside Execute.
func ctxOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
