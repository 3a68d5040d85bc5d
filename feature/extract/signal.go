package extract

import "time"

// Kind classifies a parsed reservation email.
type Kind string

const (
	// KindConfirm asserts a reservation exists with the extracted details.
	KindConfirm Kind = "confirm"
	// KindCancel asserts a reservation has been canceled.
	KindCancel Kind = "cancel"
)

// Key uniquely identifies a booking across all stores.
type Key struct {
	// Platform is the platform name (e.g. "rakuten", "nap").
	Platform string
	// ReservationID is the platform-scoped reservation ID.
	ReservationID string
}

// RawSignal is one parsed reservation email. Signals are transient: they
// only live for the duration of a pass and are never persisted.
type RawSignal struct {
	Platform      string
	ReservationID string
	Kind          Kind
	// ThreadID is the mailbox thread the signal came from.
	ThreadID string
	// Timestamp is the message timestamp, used to pick the latest
	// confirmation when a reservation was re-sent.
	Timestamp time.Time
	// Fields holds the extracted reservation details. Nil for cancels.
	Fields *Fields
}

// Key returns the signal's reservation key.
func (s *RawSignal) Key() Key {
	return Key{Platform: s.Platform, ReservationID: s.ReservationID}
}

// Fields are the structured reservation details extracted from a
// confirmation body. String fields keep the original text; counts are
// normalized to integers with missing values as zero.
type Fields struct {
	// BookedAt is when the reservation was made. Platforms that do not
	// state it in the body fall back to the message timestamp.
	BookedAt  time.Time
	CheckIn   time.Time
	CheckOut  time.Time
	SiteName  string
	SiteCount string
	Adults    int
	Children  int
	Infants   int
	GuestName string
	Phone     string
	Email     string
	Remarks   string
	Price     string
}
