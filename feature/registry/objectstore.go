package registry

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"path"
	"sync"

	"booking-mirror/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps each platform table as one CSV object, header row
// first, at <prefix>/tables/<table>.csv. Mutations are a whole-object
// read-modify-write; tables are small (one operator's bookings), so
// rewriting is cheaper than a partial-update protocol.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string

	// mu serializes read-modify-write cycles within the process. Cross
	// process exclusion is the execution lock's job.
	mu sync.Mutex
}

// NewObjectStore creates a table store over the given bucket and prefix.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) tableKey(table string) string {
	return path.Join(s.prefix, "tables", table+".csv")
}

func (s *ObjectStore) ReadTable(ctx context.Context, table string) ([]string, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTable(ctx, table)
}

func (s *ObjectStore) readTable(ctx context.Context, table string) ([]string, [][]string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.tableKey(table), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	defer obj.Close()

	reader := csv.NewReader(obj)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf("table %q: %w", table, ErrTableNotFound)
		}
		return nil, nil, fmt.Errorf("failed to parse table %q: %w", table, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("table %q has no header row: %w", table, ErrTableNotFound)
	}
	return records[0], records[1:], nil
}

func (s *ObjectStore) Apply(ctx context.Context, table string, m Mutations) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	header, rows, err := s.readTable(ctx, table)
	if err != nil {
		return err
	}
	rows = applyMutations(rows, m)
	return s.writeTable(ctx, table, header, rows)
}

// EnsureTable creates an empty table with the given header if none
// exists yet.
func (s *ObjectStore) EnsureTable(ctx context.Context, table string, header []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, err := s.readTable(ctx, table)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrTableNotFound) {
		return err
	}
	return s.writeTable(ctx, table, header, nil)
}

func (s *ObjectStore) writeTable(ctx context.Context, table string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to encode table %q: %w", table, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode table %q: %w", table, err)
	}

	_, err := s.client.PutObject(ctx, s.bucket, s.tableKey(table),
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("failed to write table %q: %w", table, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
