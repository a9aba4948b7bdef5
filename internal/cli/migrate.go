package cli

import (
	"fmt"

	"github.com/vidinfra/ledgersync/internal/migration"
	"github.com/vidinfra/ledgersync/internal/stripe"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the invoice migration for the configured date window",
	Long: `Pages through the payments platform's invoices for the configured
START_DATE / END_DATE window, skips drafts and invoices finalised outside
the window, and creates any missing ledger invoices and payments.`,
	Example: `  START_DATE=2024-01-01 END_DATE=2024-03-31 ledgersync migrate`,
	RunE:    runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	log.Infow("starting migration",
		"accept_start", cfg.Window.AcceptStart(),
		"accept_end", cfg.Window.AcceptEnd())

	ledger, err := connectLedger(cmd, cfg, log)
	if err != nil {
		return err
	}

	source := stripe.NewEnumerator(cfg.Stripe, cfg.Window, log)

	engine, err := migration.NewEngine(source, ledger, cfg, log)
	if err != nil {
		return err
	}

	summary, err := engine.Run(cmd.Context())
	if summary != nil {
		fmt.Printf("Processed: %d  Migrated: %d  Already present: %d  Skipped: %d  Payments created: %d\n",
			summary.Processed, summary.Migrated, summary.AlreadyPresent, summary.Skipped, summary.PaymentsCreated)
	}
	if err != nil {
		return err
	}

	log.Infow("migration complete",
		"processed", summary.Processed,
		"migrated", summary.Migrated,
		"already_present", summary.AlreadyPresent,
		"skipped", summary.Skipped,
		"payments_created", summary.PaymentsCreated)
	return nil
}
