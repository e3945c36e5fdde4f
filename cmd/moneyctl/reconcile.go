package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moneymanager/internal/config"
	"moneymanager/internal/services"
	"moneymanager/internal/storage"
)

func newReconcileCmd(cfg *config.Config) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored balances with the transaction history",
		Long: `Recompute every balance from its opening balance and the stored
transactions. Exits non-zero when any account has drifted. Balances are
never modified; use repair for that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *storage.SQLiteRepository) error {
				ctx := ctxOrBackground(cmd)
				reconciler := services.NewReconciler(repo)

				var reports []services.BalanceReport
				if account != "" {
					report, err := reconciler.ReconcileAccount(ctx, account)
					if err != nil {
						return err
					}
					reports = []services.BalanceReport{report}
				} else {
					var err error
					if reports, err = reconciler.ReconcileAll(ctx); err != nil {
						return err
					}
				}

				if err := pterm.DefaultTable.WithHasHeader().WithData(reportTable(reports)).Render(); err != nil {
					return err
				}
				if n := driftCount(reports); n > 0 {
					pterm.Warning.Printf("%d of %d accounts drifted\n", n, len(reports))
					return errDrift
				}
				pterm.Success.Printf("%d accounts reconciled, no drift\n", len(reports))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "reconcile only this account")
	return cmd
}

func newRepairCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repair NAME",
		Short: "Reset an account balance to the value implied by its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *storage.SQLiteRepository) error {
				report, err := services.NewReconciler(repo).Repair(ctxOrBackground(cmd), args[0])
				if err != nil {
					return err
				}
				if !report.Drifted() {
					pterm.Info.Printf("%s has no drift, balance %s\n", report.Account, report.Stored)
					return nil
				}
				pterm.Success.Printf("%s repaired: %s -> %s\n", report.Account, report.Stored, report.Expected)
				return nil
			})
		},
	}
}

func reportTable(reports []services.BalanceReport) pterm.TableData {
	data := pterm.TableData{{"Account", "Stored", "Expected", "Drift", "Transactions"}}
	for _, r := range reports {
		drift := r.Drift.String()
		if r.Drifted() {
			drift = pterm.Red(drift)
		}
		data = append(data, []string{
			r.Account,
			r.Stored.String(),
			r.Expected.String(),
			drift,
			fmt.Sprint(r.Transactions),
		})
	}
	return data
}

func driftCount(reports []services.BalanceReport) int {
	n := 0
	for _, r := range reports {
		if r.Drifted() {
			n++
		}
	}
	return n
}
