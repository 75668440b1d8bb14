package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	port     string
	dbDriver string
	dbURL    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "invoice-insights",
	Short: "Invoice analytics dashboard backend",
	Long: `invoice-insights serves the analytics API behind the invoice dashboard:
spend overview, monthly trends, top vendors, category spend, cash outflow,
invoice search and a keyword chat assistant.

Configuration is read from the environment (and a .env file when present);
flags override the matching variables.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver: postgres or sqlite (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "Database connection string (overrides DB_URL)")
}
