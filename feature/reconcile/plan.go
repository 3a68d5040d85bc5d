package reconcile

import (
	"context"
	"sort"
	"time"

	"booking-mirror/feature/extract"
	"booking-mirror/feature/registry"
)

// ActionType represents the type of registry mutation.
type ActionType string

const (
	// ActionMarkCanceled flips an existing row's status to canceled.
	ActionMarkCanceled ActionType = "mark_canceled"
	// ActionInsertRow inserts a new reservation row.
	ActionInsertRow ActionType = "insert_row"
	// ActionMarkCheckedIn flips a pending row whose check-in has passed
	// to checked-in.
	ActionMarkCheckedIn ActionType = "mark_checked_in"
)

// Action is one planned registry mutation.
type Action struct {
	Type ActionType
	Key  extract.Key
	// Row is the snapshot data-row index. Unused for inserts.
	Row int
	// Draft is the record to insert. Only set for ActionInsertRow.
	Draft registry.Record
	// Reason explains why this action is needed.
	Reason string
}

// Plan is the merge decision for one platform table: the actions to
// apply and what was deliberately left alone.
type Plan struct {
	Actions []Action
	// SkippedCancels are cancellations for rows already checked in. A
	// completed stay is never retroactively canceled.
	SkippedCancels []extract.Key
	Summary        Summary
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	Canceled  int
	Inserted  int
	CheckedIn int
	// CanceledInserts counts rows inserted already canceled because
	// the confirmation and cancellation arrived in the same window.
	CanceledInserts int
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return len(p.Actions) == 0
}

// BuildPlan decides how one platform's aggregated signals merge into the
// registry snapshot. It never mutates anything.
//
// Cancellations against existing rows become status flips; repeated
// cancellations are no-ops since canceled is terminal. A cancellation
// for a key with no row keeps a same-pass confirmation from ever
// materializing as pending: the row is inserted already canceled. A
// cancellation with no row and no confirmation produces nothing.
// Confirmed keys already present are never re-inserted or overwritten;
// new keys become rows, newest booking first. Pending rows whose
// check-in time has passed roll over to checked-in.
func BuildPlan(reg *registry.Registry, batch extract.Batch, platform extract.Platform, now time.Time) (*Plan, error) {
	if err := reg.Require(
		registry.ColBookedAt,
		registry.ColReservationID,
		registry.ColPlatform,
		registry.ColCheckIn,
		registry.ColStatus,
	); err != nil {
		return nil, err
	}

	plan := &Plan{}

	for _, key := range sortedKeys(batch.Canceled) {
		row, ok := reg.RowForID(key.ReservationID)
		if !ok {
			continue
		}
		switch reg.Cell(row, registry.ColStatus) {
		case registry.StatusCanceled:
			// Already canceled; nothing to do.
		case registry.StatusCheckedIn:
			plan.SkippedCancels = append(plan.SkippedCancels, key)
		default:
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionMarkCanceled,
				Key:    key,
				Row:    row,
				Reason: "cancellation received",
			})
			plan.Summary.Canceled++
		}
	}

	var drafts []Action
	for key, sig := range batch.Confirmed {
		if _, ok := reg.RowForID(key.ReservationID); ok {
			continue
		}
		status := registry.StatusPending
		if _, canceled := batch.Canceled[key]; canceled {
			// The reservation was canceled within the same window; the
			// row still materializes so the cancellation is visible.
			status = registry.StatusCanceled
			plan.Summary.CanceledInserts++
		}
		drafts = append(drafts, Action{
			Type:   ActionInsertRow,
			Key:    key,
			Draft:  draftRecord(key, sig, platform, status),
			Reason: "new confirmation",
		})
		plan.Summary.Inserted++
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].Draft.BookedAt.After(drafts[j].Draft.BookedAt)
	})
	plan.Actions = append(plan.Actions, drafts...)

	for i := range reg.Rows() {
		if reg.Cell(i, registry.ColStatus) != registry.StatusPending {
			continue
		}
		checkIn := registry.ParseTime(reg.Cell(i, registry.ColCheckIn), reg.Location())
		if checkIn.IsZero() || checkIn.After(now) {
			continue
		}
		key := extract.Key{Platform: platform.Name, ReservationID: reg.Cell(i, registry.ColReservationID)}
		if _, canceled := batch.Canceled[key]; canceled {
			// The same pass is canceling this row; the flip wins.
			continue
		}
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionMarkCheckedIn,
			Key:    key,
			Row:    i,
			Reason: "check-in completed",
		})
		plan.Summary.CheckedIn++
	}

	return plan, nil
}

// Apply executes a plan as one batched registry call: status cell writes
// first (snapshot row positions stay valid), then top inserts, then the
// chronological re-sort when rows were added.
func Apply(ctx context.Context, reg *registry.Registry, plan *Plan) error {
	var m registry.Mutations

	for _, a := range plan.Actions {
		switch a.Type {
		case ActionMarkCanceled:
			w, err := reg.SetCell(a.Row, registry.ColStatus, registry.StatusCanceled)
			if err != nil {
				return err
			}
			m.SetCells = append(m.SetCells, w)
		case ActionMarkCheckedIn:
			w, err := reg.SetCell(a.Row, registry.ColStatus, registry.StatusCheckedIn)
			if err != nil {
				return err
			}
			m.SetCells = append(m.SetCells, w)
		case ActionInsertRow:
			m.InsertTop = append(m.InsertTop, a.Draft.Row(reg.Index(), reg.Width(), reg.Location()))
		}
	}

	if len(m.InsertTop) > 0 {
		sortSpec, err := reg.SortByBookedAt()
		if err != nil {
			return err
		}
		m.Sort = sortSpec
	}

	return reg.Apply(ctx, m)
}

func draftRecord(key extract.Key, sig *extract.RawSignal, platform extract.Platform, status string) registry.Record {
	f := sig.Fields
	bookedAt := f.BookedAt
	if bookedAt.IsZero() {
		bookedAt = sig.Timestamp
	}
	return registry.Record{
		BookedAt:      bookedAt,
		ReservationID: key.ReservationID,
		Platform:      platform.Label,
		CheckIn:       f.CheckIn,
		CheckOut:      f.CheckOut,
		SiteName:      f.SiteName,
		SiteCount:     f.SiteCount,
		Adults:        f.Adults,
		Children:      f.Children,
		Infants:       f.Infants,
		GuestName:     f.GuestName,
		Phone:         f.Phone,
		Email:         f.Email,
		Remarks:       f.Remarks,
		Price:         f.Price,
		Status:        status,
	}
}

func sortedKeys(set map[extract.Key]struct{}) []extract.Key {
	keys := make([]extract.Key, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ReservationID < keys[j].ReservationID
	})
	return keys
}
