package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// calendarCmd drives the calendar toward the ledger without running
// mailbox reconciliation first.
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Sync the calendar with the ledger",
	Long: `Creates events for pending future reservations without one and
retracts events of canceled reservations. Repeated runs are side-effect
free once the calendar is consistent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		cal, err := a.connectCalendar()
		if err != nil {
			return err
		}

		res, err := a.newRunner(cal).RunCalendarSync(ctx)
		if err != nil {
			return err
		}

		a.log.Info("calendar sync completed",
			zap.Int("created", res.Created),
			zap.Int("deleted", res.Deleted))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(calendarCmd)
}
