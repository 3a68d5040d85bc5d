package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runCmd executes one full pass and exits.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full pass (reconcile, calendar sync, reminders)",
	Long: `Searches the mailbox for recent platform emails, merges the
extracted reservations into the ledger, drives the calendar toward the
ledger's status column, and sends due guest reminders.`,
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

		status, err := a.newRunner(cal).RunPass(ctx)
		if err != nil {
			return err
		}

		a.log.Info("pass completed",
			zap.Int("threads", status.Reconcile.Threads),
			zap.Int("inserted", status.Reconcile.Inserted),
			zap.Int("canceled", status.Reconcile.Canceled),
			zap.Int("checked_in", status.Reconcile.CheckedIn),
			zap.Int("events_created", status.Calendar.Created),
			zap.Int("events_deleted", status.Calendar.Deleted),
			zap.Int("reminders_sent", status.Reminder.LockCodeSent+status.Reminder.PreCheckinSent))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
}
