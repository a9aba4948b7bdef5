package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Dump the ledger's tracking categories",
	Long: `Lists the tracking categories and their options for the connected
ledger organisation. Diagnostic helper for finding the category and option
IDs to configure.`,
	RunE: runTracking,
}

func init() {
	rootCmd.AddCommand(trackingCmd)
}

func runTracking(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ledger, err := connectLedger(cmd, cfg, log)
	if err != nil {
		return err
	}

	categories, err := ledger.ListTrackingCategories(cmd.Context())
	if err != nil {
		return err
	}

	for _, category := range categories {
		fmt.Printf("%s  %s\n", category.TrackingCategoryID, category.Name)
		for _, option := range category.Options {
			fmt.Printf("    %s  %s\n", option.TrackingOptionID, option.Name)
		}
	}
	return nil
}
