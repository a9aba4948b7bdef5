package cli

import (
	"fmt"
	"os"

	"github.com/vidinfra/ledgersync/internal/config"
	"github.com/vidinfra/ledgersync/internal/logger"
	"github.com/vidinfra/ledgersync/internal/xero"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ledgersync",
	Short: "Migrate billing invoices from Stripe into a Xero ledger",
	Long: `ledgersync is a one-directional, idempotent migration job. For each
qualifying invoice on the payments platform it ensures a corresponding
invoice, and if paid a payment record, exists in the accounting ledger.
Re-running over the same window is safe: existing ledger records are
detected by invoice number and left untouched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and terminates the process with a non-zero exit code
// on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by all commands
func setup() (*config.Configuration, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// connectLedger builds the ledger client and resolves its tenant
func connectLedger(cmd *cobra.Command, cfg *config.Configuration, log *logger.Logger) (*xero.Client, error) {
	client := xero.NewClient(cfg.Xero, log)
	if err := client.Connect(cmd.Context()); err != nil {
		return nil, err
	}
	return client, nil
}
