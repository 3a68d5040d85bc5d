package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-mirror/feature/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var syncHeader = []string{
	registry.ColBookedAt,
	registry.ColReservationID,
	registry.ColPlatform,
	registry.ColCheckIn,
	registry.ColCheckOut,
	registry.ColGuestName,
	registry.ColStatus,
	registry.ColEventRef,
}

var syncNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func syncRow(id, checkIn, checkOut, status, ref string) []string {
	return []string{"2026-01-20 09:00", id, "楽天トラベル", checkIn, checkOut, "山田 太郎", status, ref}
}

func newSyncFixture(t *testing.T, rows ...[]string) (*registry.MemoryStore, *Fake, *Synchronizer) {
	t.Helper()
	store := registry.NewMemoryStore()
	store.CreateTable("rakuten", syncHeader)
	store.SeedRows("rakuten", rows...)

	fake := NewFake()
	s := NewSynchronizer(fake, zap.NewNop())
	s.now = func() time.Time { return syncNow }
	return store, fake, s
}

func openTable(t *testing.T, store *registry.MemoryStore) *registry.Registry {
	t.Helper()
	reg, err := registry.Open(context.Background(), store, "rakuten", time.UTC)
	require.NoError(t, err)
	return reg
}

func TestSync_CreatesEventAndWritesRef(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X2", "2026-02-14 13:00", "2026-02-15 10:00", registry.StatusPending, ""),
	)

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, fake.CreateCalls)

	after := openTable(t, store)
	row, ok := after.RowForID("X2")
	require.True(t, ok)
	ref := after.Cell(row, registry.ColEventRef)
	require.NotEmpty(t, ref)

	ev := fake.Events[ref]
	assert.Equal(t, "【楽天トラベル】【予約ID:X2】山田 太郎様", ev.Title)
	assert.Equal(t, time.Date(2026, 2, 14, 13, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC), ev.End)
}

func TestSync_SecondRunMakesNoCalls(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X2", "2026-02-14 13:00", "2026-02-15 10:00", registry.StatusPending, ""),
	)

	_, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Deleted)
	assert.Equal(t, 1, fake.CreateCalls)
	assert.Zero(t, fake.DeleteCalls)
}

func TestSync_CheckoutFallback(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X3", "2026-02-14 13:00", "", registry.StatusPending, ""),
	)

	_, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)

	require.Len(t, fake.Events, 1)
	for _, ev := range fake.Events {
		assert.Equal(t, ev.Start.Add(time.Hour), ev.End)
	}
}

func TestSync_SkipsPastCheckIn(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X4", "2026-01-30 13:00", "2026-01-31 10:00", registry.StatusPending, ""),
	)

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, fake.CreateCalls)
}

func TestSync_DeletesCanceledAndClearsRef(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X5", "2026-02-14 13:00", "2026-02-15 10:00", registry.StatusCanceled, "ev-1"),
	)
	fake.Events["ev-1"] = Event{ID: "ev-1", Title: "stale"}

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Empty(t, fake.Events)

	after := openTable(t, store)
	row, _ := after.RowForID("X5")
	assert.Empty(t, after.Cell(row, registry.ColEventRef))
}

func TestSync_ClearsRefEvenWhenDeleteFails(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X6", "2026-02-14 13:00", "2026-02-15 10:00", registry.StatusCanceled, "ev-1"),
	)
	fake.Events["ev-1"] = Event{ID: "ev-1"}
	fake.DeleteErr = errors.New("calendar unavailable")

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)

	after := openTable(t, store)
	row, _ := after.RowForID("X6")
	assert.Empty(t, after.Cell(row, registry.ColEventRef))
}

func TestSync_CreateFailureLeavesRowForRetry(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X7", "2026-02-14 13:00", "2026-02-15 10:00", registry.StatusPending, ""),
	)
	fake.CreateErr = errors.New("calendar unavailable")

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Zero(t, res.Created)

	after := openTable(t, store)
	row, _ := after.RowForID("X7")
	assert.Empty(t, after.Cell(row, registry.ColEventRef))

	// Retry succeeds once the collaborator recovers.
	fake.CreateErr = nil
	res, err = s.Sync(context.Background(), after)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestSync_IgnoresCheckedIn(t *testing.T) {
	store, fake, s := newSyncFixture(t,
		syncRow("X8", "2026-02-14 13:00", "2026-02-15 10:00", registry.StatusCheckedIn, ""),
	)

	res, err := s.Sync(context.Background(), openTable(t, store))
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, fake.CreateCalls)
}

func TestSync_MissingColumnAborts(t *testing.T) {
	store := registry.NewMemoryStore()
	store.CreateTable("rakuten", []string{registry.ColBookedAt, registry.ColReservationID})

	s := NewSynchronizer(NewFake(), zap.NewNop())
	_, err := s.Sync(context.Background(), openTable(t, store))
	require.Error(t, err)
	var missing *registry.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}
