package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		// opening the app runs AutoMigrate
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		a.Log.Info().Str("path", a.Config.Database.Path).Msg("schema up to date")
		return nil
	},
}
