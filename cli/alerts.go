package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// alertsCmd groups the payment alert commands
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Payment alert commands",
}

// alertsRunCmd sends alerts once, outside the schedule
var alertsRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Send payment alerts for invoices coming due",
	Long: `Send one alert per pending invoice due within ALERT_WINDOW_DAYS that has
not been alerted yet. Requires the TWILIO_* and ALERT_PHONE_NUMBER settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.alerts.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d, sent %d, failed %d\n", res.Checked, res.Sent, res.Failed)
		return nil
	},
}

func init() {
	alertsCmd.AddCommand(alertsRunCmd)
	rootCmd.AddCommand(alertsCmd)
}
