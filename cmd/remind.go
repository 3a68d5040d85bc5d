package cmd

import (
	"context"

	"booking-mirror/feature/registry"
	"booking-mirror/feature/reminder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var remindDryRun bool

// remindCmd sends due guest reminders for every platform table.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send due guest reminders",
	Long: `Sends the gate-code notice for bookings made yesterday and the
pre-arrival reminder for check-ins tomorrow. Sent flags in the ledger
keep reminders from going out twice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		cfg := a.cfg.Reminder
		if remindDryRun {
			cfg.DryRun = true
		}
		svc := reminder.NewService(&reminder.LogMailer{Log: a.log}, cfg, a.log)

		var total reminder.Result
		for _, p := range a.platforms {
			reg, err := registry.Open(ctx, a.tables, p.Table, a.loc)
			if err != nil {
				return err
			}
			res, err := svc.Run(ctx, reg)
			if err != nil {
				return err
			}
			total.LockCodeSent += res.LockCodeSent
			total.PreCheckinSent += res.PreCheckinSent
			total.Skipped += res.Skipped
		}

		a.log.Info("reminders completed",
			zap.Int("lock_code_sent", total.LockCodeSent),
			zap.Int("pre_checkin_sent", total.PreCheckinSent),
			zap.Int("skipped", total.Skipped))
		return nil
	},
}

func init() {
	remindCmd.Flags().BoolVar(&remindDryRun, "dry-run", false, "Log reminders without sending or flagging")
	RootCmd.AddCommand(remindCmd)
}
