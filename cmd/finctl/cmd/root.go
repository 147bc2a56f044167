// Package cmd provides the finctl commands.
package cmd

import (
	"github.com/spf13/cobra"

	"pocket-ledger/internal/app"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "finctl",
	Short: "Operate a pocket-ledger installation",
	Long: `finctl runs maintenance tasks against the pocket-ledger database.

Example:
  finctl recurring run
  finctl recurring run --date 2024-02-29
  finctl migrate`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(recurringCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func openApp() (*app.App, error) {
	return app.New(cfgFile, debug)
}
