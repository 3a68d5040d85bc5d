package calendar

import (
	"context"
	"fmt"
)

// Fake is an in-memory Calendar recording call counts for tests.
type Fake struct {
	Events      map[string]Event
	CreateCalls int
	LookupCalls int
	DeleteCalls int

	// CreateErr and DeleteErr, when set, fail the corresponding call.
	CreateErr error
	DeleteErr error
}

// NewFake returns an empty fake calendar.
func NewFake() *Fake {
	return &Fake{Events: make(map[string]Event)}
}

func (f *Fake) CreateEvent(_ context.Context, ev Event) (string, error) {
	f.CreateCalls++
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	ev.ID = fmt.Sprintf("ev-%d", f.CreateCalls)
	f.Events[ev.ID] = ev
	return ev.ID, nil
}

func (f *Fake) EventByID(_ context.Context, id string) (*Event, error) {
	f.LookupCalls++
	ev, ok := f.Events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (f *Fake) DeleteEvent(_ context.Context, id string) error {
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Events, id)
	return nil
}
