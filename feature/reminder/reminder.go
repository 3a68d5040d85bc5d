package reminder

import (
	"context"
	"strings"
	"time"

	"booking-mirror/feature/registry"

	"go.uber.org/zap"
)

// Service sends the two guest reminders: a gate-code notice the day
// after booking and a pre-arrival reminder the day before check-in.
// Sent-flag columns keep a reminder from going out twice.
type Service struct {
	mailer Mailer
	cfg    Config
	log    *zap.Logger

	// now is overridable for tests.
	now func() time.Time
}

// NewService creates a reminder service.
func NewService(mailer Mailer, cfg Config, log *zap.Logger) *Service {
	return &Service{
		mailer: mailer,
		cfg:    cfg.withDefaults(),
		log:    log,
		now:    time.Now,
	}
}

// Result counts one reminder run's outcome.
type Result struct {
	LockCodeSent   int `json:"lock_code_sent"`
	PreCheckinSent int `json:"pre_checkin_sent"`
	Skipped        int `json:"skipped"`
}

// Run scans pending rows and sends the reminders that are due. A send
// failure is logged and the flag left unset so the next run retries.
// Flag writes are batched into one registry call.
func (s *Service) Run(ctx context.Context, reg *registry.Registry) (Result, error) {
	var res Result
	if !s.cfg.Enabled {
		return res, nil
	}

	if err := reg.Require(
		registry.ColBookedAt,
		registry.ColReservationID,
		registry.ColCheckIn,
		registry.ColEmail,
		registry.ColStatus,
		registry.ColLockCodeSent,
		registry.ColPreCheckinSent,
	); err != nil {
		return res, err
	}

	now := s.now().In(reg.Location())
	today := truncateToDay(now)
	var writes []registry.CellWrite

	for i := range reg.Rows() {
		rec := reg.Record(i)
		if rec.Status != registry.StatusPending {
			continue
		}
		to := rec.Email
		if s.cfg.ForceTo != "" {
			to = s.cfg.ForceTo
		}
		if to == "" {
			res.Skipped++
			continue
		}

		// Gate-code notice: booking landed yesterday.
		if !rec.BookedAt.IsZero() &&
			truncateToDay(rec.BookedAt.In(reg.Location())).Equal(today.AddDate(0, 0, -1)) &&
			reg.Cell(i, registry.ColLockCodeSent) != registry.FlagSent {
			if s.send(ctx, to, s.cfg.LockCodeSubject, s.cfg.LockCodeBody, rec) {
				w, err := reg.SetCell(i, registry.ColLockCodeSent, registry.FlagSent)
				if err != nil {
					return res, err
				}
				writes = append(writes, w)
				res.LockCodeSent++
			}
		}

		// Pre-arrival reminder: check-in is tomorrow.
		if !rec.CheckIn.IsZero() &&
			truncateToDay(rec.CheckIn.In(reg.Location())).Equal(today.AddDate(0, 0, 1)) &&
			reg.Cell(i, registry.ColPreCheckinSent) != registry.FlagSent {
			if s.send(ctx, to, s.cfg.ReminderSubject, s.cfg.ReminderBody, rec) {
				w, err := reg.SetCell(i, registry.ColPreCheckinSent, registry.FlagSent)
				if err != nil {
					return res, err
				}
				writes = append(writes, w)
				res.PreCheckinSent++
			}
		}
	}

	if err := reg.Apply(ctx, registry.Mutations{SetCells: writes}); err != nil {
		return res, err
	}
	return res, nil
}

// send delivers one reminder and reports whether the sent flag should be
// written. Dry runs log and never flag, so a real run still sends.
func (s *Service) send(ctx context.Context, to, subject, body string, rec registry.Record) bool {
	subject = s.render(subject, rec)
	body = s.render(body, rec)

	if s.cfg.DryRun {
		s.log.Info("dry run, reminder not sent",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("reservation_id", rec.ReservationID))
		return false
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.log.Warn("failed to send reminder",
			zap.String("to", to),
			zap.String("reservation_id", rec.ReservationID),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Service) render(template string, rec registry.Record) string {
	r := strings.NewReplacer(
		"{guest_name}", rec.GuestName,
		"{reservation_id}", rec.ReservationID,
		"{check_in}", registry.FormatTime(rec.CheckIn, rec.CheckIn.Location()),
		"{check_out}", registry.FormatTime(rec.CheckOut, rec.CheckOut.Location()),
		"{site_name}", rec.SiteName,
		"{lock_code}", s.cfg.LockCode,
	)
	return r.Replace(template)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
