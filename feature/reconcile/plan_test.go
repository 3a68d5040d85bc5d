package reconcile

import (
	"context"
	"testing"
	"time"

	"booking-mirror/feature/extract"
	"booking-mirror/feature/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlatform = extract.Platform{
	Name:   "rakuten",
	Label:  "楽天トラベル",
	Sender: "no-reply@camp.travel.rakuten.co.jp",
	Table:  "rakuten",
}

var planHeader = []string{
	registry.ColBookedAt,
	registry.ColReservationID,
	registry.ColPlatform,
	registry.ColCheckIn,
	registry.ColCheckOut,
	registry.ColGuestName,
	registry.ColStatus,
	registry.ColEventRef,
}

var planNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func planRow(bookedAt, id, checkIn, status string) []string {
	return []string{bookedAt, id, "楽天トラベル", checkIn, "", "山田 太郎", status, ""}
}

func newPlanStore(t *testing.T, rows ...[]string) *registry.MemoryStore {
	t.Helper()
	store := registry.NewMemoryStore()
	store.CreateTable("rakuten", planHeader)
	store.SeedRows("rakuten", rows...)
	return store
}

func openPlanTable(t *testing.T, store *registry.MemoryStore) *registry.Registry {
	t.Helper()
	reg, err := registry.Open(context.Background(), store, "rakuten", time.UTC)
	require.NoError(t, err)
	return reg
}

func confirmBatchSignal(id string, bookedAt, checkIn time.Time, guest string) *extract.RawSignal {
	return &extract.RawSignal{
		Platform:      "rakuten",
		ReservationID: id,
		Kind:          extract.KindConfirm,
		Timestamp:     bookedAt,
		Fields: &extract.Fields{
			BookedAt:  bookedAt,
			CheckIn:   checkIn,
			GuestName: guest,
		},
	}
}

func batchWith(confirmed []*extract.RawSignal, canceled ...string) extract.Batch {
	batch := extract.NewBatch()
	for _, sig := range confirmed {
		batch.Confirmed[sig.Key()] = sig
	}
	for _, id := range canceled {
		batch.Canceled[extract.Key{Platform: "rakuten", ReservationID: id}] = struct{}{}
	}
	return batch
}

func TestBuildPlan_ConfirmThenCancelInsertsOneCanceledRow(t *testing.T) {
	store := newPlanStore(t)
	reg := openPlanTable(t, store)

	batch := batchWith([]*extract.RawSignal{
		confirmBatchSignal("X1", planNow.Add(-time.Hour), planNow.AddDate(0, 0, 10), "guest"),
	}, "X1")

	plan, err := BuildPlan(reg, batch, testPlatform, planNow)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionInsertRow, plan.Actions[0].Type)
	assert.Equal(t, registry.StatusCanceled, plan.Actions[0].Draft.Status)
	assert.Equal(t, 1, plan.Summary.CanceledInserts)

	require.NoError(t, Apply(context.Background(), reg, plan))

	after := openPlanTable(t, store)
	require.Len(t, after.Rows(), 1)
	row, ok := after.RowForID("X1")
	require.True(t, ok)
	assert.Equal(t, registry.StatusCanceled, after.Cell(row, registry.ColStatus))
}

func TestBuildPlan_CancelWithoutRowOrConfirmIsInvisible(t *testing.T) {
	reg := openPlanTable(t, newPlanStore(t))

	plan, err := BuildPlan(reg, batchWith(nil, "X1"), testPlatform, planNow)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestBuildPlan_Idempotent(t *testing.T) {
	store := newPlanStore(t)

	batch := batchWith([]*extract.RawSignal{
		confirmBatchSignal("X1", planNow.Add(-time.Hour), planNow.AddDate(0, 0, 10), "guest"),
		confirmBatchSignal("X2", planNow.Add(-2*time.Hour), planNow.AddDate(0, 0, 5), "other"),
	}, "X2")

	reg := openPlanTable(t, store)
	plan, err := BuildPlan(reg, batch, testPlatform, planNow)
	require.NoError(t, err)
	require.NoError(t, Apply(context.Background(), reg, plan))

	first := openPlanTable(t, store).Rows()

	// The same signal set against the merged registry changes nothing.
	reg = openPlanTable(t, store)
	again, err := BuildPlan(reg, batch, testPlatform, planNow)
	require.NoError(t, err)
	assert.True(t, again.Empty())
	assert.Equal(t, first, openPlanTable(t, store).Rows())
}

func TestBuildPlan_CancelFlipsExistingRow(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-20 09:00", "X1", "2026-02-14 13:00", registry.StatusPending),
	)
	reg := openPlanTable(t, store)

	plan, err := BuildPlan(reg, batchWith(nil, "X1"), testPlatform, planNow)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionMarkCanceled, plan.Actions[0].Type)

	require.NoError(t, Apply(context.Background(), reg, plan))
	after := openPlanTable(t, store)
	row, _ := after.RowForID("X1")
	assert.Equal(t, registry.StatusCanceled, after.Cell(row, registry.ColStatus))

	// Canceling again is a no-op.
	again, err := BuildPlan(after, batchWith(nil, "X1"), testPlatform, planNow)
	require.NoError(t, err)
	assert.True(t, again.Empty())
}

func TestBuildPlan_StaleConfirmNeverRevivesCanceledRow(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-20 09:00", "X1", "2026-02-14 13:00", registry.StatusCanceled),
	)
	reg := openPlanTable(t, store)

	batch := batchWith([]*extract.RawSignal{
		confirmBatchSignal("X1", planNow, planNow.AddDate(0, 0, 13), "guest"),
	})

	plan, err := BuildPlan(reg, batch, testPlatform, planNow)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestBuildPlan_ExistingRowNeverReinserted(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-20 09:00", "X1", "2026-02-14 13:00", registry.StatusPending),
	)
	reg := openPlanTable(t, store)

	batch := batchWith([]*extract.RawSignal{
		confirmBatchSignal("X1", planNow, planNow.AddDate(0, 0, 13), "different name"),
	})

	plan, err := BuildPlan(reg, batch, testPlatform, planNow)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.Len(t, openPlanTable(t, store).Rows(), 1)
}

func TestBuildPlan_InsertsSortNewestBookedFirst(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-15 09:00", "OLD", "2026-02-10 13:00", registry.StatusPending),
	)
	reg := openPlanTable(t, store)

	batch := batchWith([]*extract.RawSignal{
		confirmBatchSignal("X1", time.Date(2026, 1, 25, 9, 0, 0, 0, time.UTC), planNow.AddDate(0, 0, 10), "a"),
		confirmBatchSignal("X2", time.Date(2026, 1, 30, 9, 0, 0, 0, time.UTC), planNow.AddDate(0, 0, 11), "b"),
	})

	plan, err := BuildPlan(reg, batch, testPlatform, planNow)
	require.NoError(t, err)
	require.NoError(t, Apply(context.Background(), reg, plan))

	after := openPlanTable(t, store)
	var ids []string
	for i := range after.Rows() {
		ids = append(ids, after.Cell(i, registry.ColReservationID))
	}
	assert.Equal(t, []string{"X2", "X1", "OLD"}, ids)
}

func TestBuildPlan_CheckinRollover(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-20 09:00", "PAST", "2026-01-30 13:00", registry.StatusPending),
		planRow("2026-01-21 09:00", "FUTURE", "2026-02-14 13:00", registry.StatusPending),
	)
	reg := openPlanTable(t, store)

	plan, err := BuildPlan(reg, extract.NewBatch(), testPlatform, planNow)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionMarkCheckedIn, plan.Actions[0].Type)
	assert.Equal(t, "PAST", plan.Actions[0].Key.ReservationID)

	require.NoError(t, Apply(context.Background(), reg, plan))
	after := openPlanTable(t, store)
	row, _ := after.RowForID("PAST")
	assert.Equal(t, registry.StatusCheckedIn, after.Cell(row, registry.ColStatus))
}

func TestBuildPlan_CancelWinsOverRollover(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-20 09:00", "X1", "2026-01-30 13:00", registry.StatusPending),
	)
	reg := openPlanTable(t, store)

	plan, err := BuildPlan(reg, batchWith(nil, "X1"), testPlatform, planNow)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionMarkCanceled, plan.Actions[0].Type)
}

func TestBuildPlan_CancelForCheckedInRowSkipped(t *testing.T) {
	store := newPlanStore(t,
		planRow("2026-01-20 09:00", "X1", "2026-01-30 13:00", registry.StatusCheckedIn),
	)
	reg := openPlanTable(t, store)

	plan, err := BuildPlan(reg, batchWith(nil, "X1"), testPlatform, planNow)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	require.Len(t, plan.SkippedCancels, 1)
	assert.Equal(t, "X1", plan.SkippedCancels[0].ReservationID)
}

func TestBuildPlan_MissingColumnAborts(t *testing.T) {
	store := registry.NewMemoryStore()
	store.CreateTable("rakuten", []string{registry.ColBookedAt, registry.ColReservationID})

	reg, err := registry.Open(context.Background(), store, "rakuten", time.UTC)
	require.NoError(t, err)

	_, err = BuildPlan(reg, extract.NewBatch(), testPlatform, planNow)
	require.Error(t, err)
	var missing *registry.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}
