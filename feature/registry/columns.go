package registry

import "fmt"

// Logical column names. The header row of each platform table declares
// these names; positions are resolved per scan, never assumed.
const (
	ColBookedAt       = "booked_at"
	ColReservationID  = "reservation_id"
	ColPlatform       = "platform"
	ColCheckIn        = "check_in"
	ColCheckOut       = "check_out"
	ColSiteName       = "site_name"
	ColSiteCount      = "site_count"
	ColAdults         = "adults"
	ColChildren       = "children"
	ColInfants        = "infants"
	ColGuestName      = "guest_name"
	ColPhone          = "phone"
	ColEmail          = "email"
	ColRemarks        = "remarks"
	ColPrice          = "price"
	ColStatus         = "status"
	ColEventRef       = "calendar_event_ref"
	ColLockCodeSent   = "lock_code_sent"
	ColPreCheckinSent = "pre_checkin_sent"
)

// AllColumns is the canonical column order used when bootstrapping a new
// platform table.
var AllColumns = []string{
	ColBookedAt,
	ColReservationID,
	ColPlatform,
	ColCheckIn,
	ColCheckOut,
	ColSiteName,
	ColSiteCount,
	ColAdults,
	ColChildren,
	ColInfants,
	ColGuestName,
	ColPhone,
	ColEmail,
	ColRemarks,
	ColPrice,
	ColStatus,
	ColEventRef,
	ColLockCodeSent,
	ColPreCheckinSent,
}

// Row status tokens.
const (
	StatusPending   = "pending"
	StatusCanceled  = "canceled"
	StatusCheckedIn = "checked_in"
)

// Sent-flag marker for the reminder columns.
const FlagSent = "sent"

// Index maps logical column names to their position in a table's header
// row.
type Index map[string]int

// ResolveIndex builds the column index from a header row.
func ResolveIndex(header []string) Index {
	ix := make(Index, len(header))
	for i, name := range header {
		if _, dup := ix[name]; dup {
			continue
		}
		ix[name] = i
	}
	return ix
}

// Require verifies that every named column is present. A missing column
// is a table-integrity error and aborts the pass.
func (ix Index) Require(names ...string) error {
	for _, name := range names {
		if _, ok := ix[name]; !ok {
			return &MissingColumnError{Column: name}
		}
	}
	return nil
}

// MissingColumnError reports a required logical column absent from a
// table's header row.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q missing from table header", e.Column)
}
