package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
)

var runDate string

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Recurring transaction maintenance",
}

// recurringRunCmd is meant to be called once a day by cron or a similar
// scheduler. Repeated calls on the same day create nothing new.
var recurringRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Materialize the recurring transactions due today",
	Long: `Creates one transaction for every active recurring rule whose day of
month matches the run date, and moves the account balance with it.

The run date defaults to today in recurring.timezone. The command exits
non-zero when any rule failed; the others are still committed.`,
	RunE: runRecurring,
}

func init() {
	recurringRunCmd.Flags().StringVar(&runDate, "date", "", "run as of this day (YYYY-MM-DD)")
	recurringCmd.AddCommand(recurringRunCmd)
}

func runRecurring(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	loc, err := a.Config.Recurring.Location()
	if err != nil {
		return err
	}
	now := time.Now()
	if runDate != "" {
		d, err := civil.ParseDate(runDate)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		now = d.In(loc)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if t := a.Config.Recurring.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	res, err := a.Processor.Run(ctx, now)
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d recurring rules failed", res.Failed)
	}
	return nil
}
