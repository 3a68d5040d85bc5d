package registry

import (
	"strconv"
	"time"
)

// TimeLayout is the cell format for timestamp columns. It sorts
// lexicographically in chronological order, which the sort mutation
// relies on.
const TimeLayout = "2006-01-02 15:04"

// FormatTime renders a timestamp cell. Zero times render empty.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(TimeLayout)
}

// ParseTime reads a timestamp cell. Empty or malformed cells (manual
// edits happen) yield the zero time.
func ParseTime(s string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(TimeLayout, s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Record is one reservation row in typed form.
type Record struct {
	BookedAt      time.Time
	ReservationID string
	// Platform is the display label, not the table name.
	Platform  string
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
	Status    string
	EventRef  string
}

// Row renders the record as a table row of the given width, placing each
// field at its resolved column. Columns absent from the index are
// skipped.
func (r Record) Row(ix Index, width int, loc *time.Location) []string {
	row := make([]string, width)
	set := func(col, value string) {
		if i, ok := ix[col]; ok && i < width {
			row[i] = value
		}
	}
	set(ColBookedAt, FormatTime(r.BookedAt, loc))
	set(ColReservationID, r.ReservationID)
	set(ColPlatform, r.Platform)
	set(ColCheckIn, FormatTime(r.CheckIn, loc))
	set(ColCheckOut, FormatTime(r.CheckOut, loc))
	set(ColSiteName, r.SiteName)
	set(ColSiteCount, r.SiteCount)
	set(ColAdults, strconv.Itoa(r.Adults))
	set(ColChildren, strconv.Itoa(r.Children))
	set(ColInfants, strconv.Itoa(r.Infants))
	set(ColGuestName, r.GuestName)
	set(ColPhone, r.Phone)
	set(ColEmail, r.Email)
	set(ColRemarks, r.Remarks)
	set(ColPrice, r.Price)
	set(ColStatus, r.Status)
	set(ColEventRef, r.EventRef)
	return row
}

// RecordFromRow reads a table row back into typed form.
func RecordFromRow(row []string, ix Index, loc *time.Location) Record {
	get := func(col string) string {
		i, ok := ix[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	num := func(col string) int {
		n, _ := strconv.Atoi(get(col))
		return n
	}
	return Record{
		BookedAt:      ParseTime(get(ColBookedAt), loc),
		ReservationID: get(ColReservationID),
		Platform:      get(ColPlatform),
		CheckIn:       ParseTime(get(ColCheckIn), loc),
		CheckOut:      ParseTime(get(ColCheckOut), loc),
		SiteName:      get(ColSiteName),
		SiteCount:     get(ColSiteCount),
		Adults:        num(ColAdults),
		Children:      num(ColChildren),
		Infants:       num(ColInfants),
		GuestName:     get(ColGuestName),
		Phone:         get(ColPhone),
		Email:         get(ColEmail),
		Remarks:       get(ColRemarks),
		Price:         get(ColPrice),
		Status:        get(ColStatus),
		EventRef:      get(ColEventRef),
	}
}
