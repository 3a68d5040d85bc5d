package calendar

import (
	"context"
	"time"
)

// Event is one calendar entry mirroring a reservation.
type Event struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// Calendar is the event CRUD surface the synchronizer drives.
type Calendar interface {
	// CreateEvent stores the event and returns its reference.
	CreateEvent(ctx context.Context, ev Event) (string, error)
	// EventByID returns the event, or nil when no event has that ID.
	EventByID(ctx context.Context, id string) (*Event, error)
	// DeleteEvent removes the event.
	DeleteEvent(ctx context.Context, id string) error
}
