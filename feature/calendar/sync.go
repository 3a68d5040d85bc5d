package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"booking-mirror/feature/registry"

	"go.uber.org/zap"
)

// Synchronizer drives the calendar's event set toward the registry's
// status column. Both transitions are idempotent: a consistent row is a
// no-op, so repeated runs make no further calendar calls.
type Synchronizer struct {
	cal Calendar
	log *zap.Logger

	// now is overridable for tests.
	now func() time.Time
}

// NewSynchronizer creates a synchronizer over the given calendar.
func NewSynchronizer(cal Calendar, log *zap.Logger) *Synchronizer {
	return &Synchronizer{cal: cal, log: log, now: time.Now}
}

// Result counts the calendar calls one sync run performed.
type Result struct {
	Created int `json:"created"`
	Deleted int `json:"deleted"`
}

// Sync scans the registry snapshot and applies the two transitions:
// pending rows with a future check-in and no event reference get an
// event created and the reference written back; canceled rows with a
// reference get the event deleted and the reference cleared. The
// reference is cleared even when the delete fails, so a stale pointer
// cannot make every later pass retry a dead event. Reference write-backs
// are batched into one registry call.
func (s *Synchronizer) Sync(ctx context.Context, reg *registry.Registry) (Result, error) {
	var res Result

	if err := reg.Require(
		registry.ColBookedAt,
		registry.ColReservationID,
		registry.ColCheckIn,
		registry.ColStatus,
		registry.ColEventRef,
	); err != nil {
		return res, err
	}

	now := s.now()
	var writes []registry.CellWrite

	for i := range reg.Rows() {
		rec := reg.Record(i)

		switch {
		case rec.Status == registry.StatusPending && rec.EventRef == "" && rec.CheckIn.After(now):
			ref, err := s.cal.CreateEvent(ctx, eventForRecord(rec))
			if err != nil {
				// Leave the reference empty so the next pass retries.
				s.log.Warn("failed to create calendar event",
					zap.String("reservation_id", rec.ReservationID),
					zap.Error(err))
				continue
			}
			w, err := reg.SetCell(i, registry.ColEventRef, ref)
			if err != nil {
				return res, err
			}
			writes = append(writes, w)
			res.Created++

		case rec.Status == registry.StatusCanceled && rec.EventRef != "":
			if err := s.deleteEvent(ctx, rec.EventRef); err != nil {
				s.log.Warn("failed to delete calendar event",
					zap.String("reservation_id", rec.ReservationID),
					zap.String("event_ref", rec.EventRef),
					zap.Error(err))
			} else {
				res.Deleted++
			}
			w, err := reg.SetCell(i, registry.ColEventRef, "")
			if err != nil {
				return res, err
			}
			writes = append(writes, w)
		}
	}

	if err := reg.Apply(ctx, registry.Mutations{SetCells: writes}); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Synchronizer) deleteEvent(ctx context.Context, ref string) error {
	ev, err := s.cal.EventByID(ctx, ref)
	if err != nil {
		return err
	}
	if ev == nil {
		// Already gone; clearing the reference is all that is left.
		return nil
	}
	return s.cal.DeleteEvent(ctx, ev.ID)
}

// eventForRecord builds the calendar entry for one reservation row. A
// missing or inverted checkout falls back to an hour after check-in.
func eventForRecord(rec registry.Record) Event {
	end := rec.CheckOut
	if !end.After(rec.CheckIn) {
		end = rec.CheckIn.Add(time.Hour)
	}

	title := fmt.Sprintf("【%s】【予約ID:%s】%s様", rec.Platform, rec.ReservationID, rec.GuestName)
	if rec.SiteName != "" {
		title += fmt.Sprintf(" (%s)", rec.SiteName)
	}

	var desc []string
	if rec.Phone != "" {
		desc = append(desc, "電話: "+rec.Phone)
	}
	if rec.Email != "" {
		desc = append(desc, "メール: "+rec.Email)
	}
	desc = append(desc, fmt.Sprintf("人数: 大人%d 子供%d 幼児%d", rec.Adults, rec.Children, rec.Infants))
	if rec.Price != "" {
		desc = append(desc, "料金: "+rec.Price)
	}
	if rec.Remarks != "" {
		desc = append(desc, "備考: "+rec.Remarks)
	}

	return Event{
		Title:       title,
		Description: strings.Join(desc, "\n"),
		Start:       rec.CheckIn,
		End:         end,
	}
}
