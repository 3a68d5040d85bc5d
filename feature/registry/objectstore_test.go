package registry

import (
	"context"
	"io"
	"strings"
	"testing"

	"booking-mirror/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type errReadCloser struct{ err error }

func (r errReadCloser) Read([]byte) (int, error) { return 0, r.err }
func (r errReadCloser) Close() error             { return nil }

func TestObjectStore_ReadTableNotFound(t *testing.T) {
	client := new(mocks.Client)
	// The SDK defers missing-object errors to first read.
	client.On("GetObject", mock.Anything, "bookings", "registry/tables/rakuten.csv", mock.Anything).
		Return(errReadCloser{err: minio.ErrorResponse{Code: "NoSuchKey"}}, nil)

	store := NewObjectStore(client, "bookings", "registry")
	_, _, err := store.ReadTable(context.Background(), "rakuten")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
	client.AssertExpectations(t)
}

func TestObjectStore_ApplyRewritesObject(t *testing.T) {
	const existing = "booked_at,reservation_id,status\n2026-02-01 09:00,RK1,pending\n"

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "bookings", "registry/tables/rakuten.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader(existing)), nil)

	var written string
	client.On("PutObject", mock.Anything, "bookings", "registry/tables/rakuten.csv",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			written = string(data)
		}).
		Return(minio.UploadInfo{}, nil)

	store := NewObjectStore(client, "bookings", "registry")
	err := store.Apply(context.Background(), "rakuten", Mutations{
		SetCells:  []CellWrite{{Row: 0, Col: 2, Value: StatusCanceled}},
		InsertTop: [][]string{{"2026-02-02 10:00", "RK2", StatusPending}},
		Sort:      &Sort{Col: 0, Desc: true},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(written), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "booked_at,reservation_id,status", lines[0])
	assert.Equal(t, "2026-02-02 10:00,RK2,pending", lines[1])
	assert.Equal(t, "2026-02-01 09:00,RK1,canceled", lines[2])
	client.AssertExpectations(t)
}
