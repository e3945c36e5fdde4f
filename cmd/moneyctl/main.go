package main

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moneymanager/internal/cli"
	"moneymanager/internal/config"
)

// errDrift makes the process exit non-zero after the report was printed.
var errDrift = errors.New("balance drift detected")

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	cli.SetupLogger("error", "moneyctl")

	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		if !errors.Is(err, errDrift) {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "moneyctl",
		Short:         "Administer the moneymanager ledger database",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.SQLiteDBPath, "db", cfg.SQLiteDBPath, "path to the SQLite database")

	rootCmd.AddCommand(newMigrateCmd(cfg))
	rootCmd.AddCommand(newAccountsCmd(cfg))
	rootCmd.AddCommand(newReconcileCmd(cfg))
	rootCmd.AddCommand(newRepairCmd(cfg))

	return rootCmd
}
