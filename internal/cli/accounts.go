package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Dump the ledger's chart of accounts",
	Long: `Lists the chart of accounts of the connected ledger organisation.
Diagnostic helper for finding the account codes to configure.`,
	RunE: runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func runAccounts(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ledger, err := connectLedger(cmd, cfg, log)
	if err != nil {
		return err
	}

	accounts, err := ledger.ListAccounts(cmd.Context())
	if err != nil {
		return err
	}

	for _, account := range accounts {
		fmt.Printf("%-8s %-12s %-10s %s\n", account.Code, account.Type, account.Status, account.Name)
	}
	return nil
}
