package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// seedCmd resets the database to the demo dataset
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all invoice data with the demo dataset",
	Long: `Delete every vendor, customer, invoice, line item and payment, then load
the demo dataset. Users, chat history and payment alerts are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.seeder.Seed(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
