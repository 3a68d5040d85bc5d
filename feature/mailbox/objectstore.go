package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"booking-mirror/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore is a mailbox backed by object storage. An external fetcher
// dumps each thread as a JSON object under <prefix>/threads/<id>.json;
// labels live as JSON arrays of thread IDs under <prefix>/labels/.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string

	// now is overridable for tests.
	now func() time.Time

	// labelMu serializes label read-modify-write cycles.
	labelMu sync.Mutex
}

// NewObjectStore creates a mailbox over the given bucket and prefix.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *ObjectStore) threadPrefix() string {
	return path.Join(s.prefix, "threads") + "/"
}

func (s *ObjectStore) labelKey(name string) string {
	return path.Join(s.prefix, "labels", name+".json")
}

// Search lists the thread dump and returns matching threads, newest first.
func (s *ObjectStore) Search(ctx context.Context, q Query, maxResults int) ([]Thread, error) {
	now := s.now()
	var threads []Thread

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.threadPrefix(),
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list mailbox threads: %w", obj.Err)
		}
		th, err := s.readThread(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		for _, m := range th.Messages {
			if q.Matches(m, now) {
				threads = append(threads, th)
				break
			}
		}
	}

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].Latest().After(threads[j].Latest())
	})
	if maxResults > 0 && len(threads) > maxResults {
		threads = threads[:maxResults]
	}
	return threads, nil
}

func (s *ObjectStore) readThread(ctx context.Context, key string) (Thread, error) {
	var th Thread

	reader, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return th, fmt.Errorf("failed to get thread %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return th, fmt.Errorf("failed to read thread %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &th); err != nil {
		return th, fmt.Errorf("failed to parse thread %s: %w", key, err)
	}
	return th, nil
}

// GetOrCreateLabel returns the named label. The label object is created
// lazily on first Add, so this never writes.
func (s *ObjectStore) GetOrCreateLabel(ctx context.Context, name string) (Label, error) {
	return &objectLabel{store: s, name: name}, nil
}

type objectLabel struct {
	store *ObjectStore
	name  string
}

func (l *objectLabel) Name() string { return l.name }

func (l *objectLabel) Members(ctx context.Context) (map[string]struct{}, error) {
	ids, err := l.store.readLabel(ctx, l.name)
	if err != nil {
		return nil, err
	}
	members := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}
	return members, nil
}

func (l *objectLabel) Add(ctx context.Context, threadID string) error {
	l.store.labelMu.Lock()
	defer l.store.labelMu.Unlock()

	ids, err := l.store.readLabel(ctx, l.name)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == threadID {
			return nil
		}
	}
	ids = append(ids, threadID)
	return l.store.writeLabel(ctx, l.name, ids)
}

func (s *ObjectStore) readLabel(ctx context.Context, name string) ([]string, error) {
	reader, err := s.client.GetObject(ctx, s.bucket, s.labelKey(name), minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get label %s: %w", name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		// The SDK defers missing-object errors to first read.
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read label %s: %w", name, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse label %s: %w", name, err)
	}
	return ids, nil
}

func (s *ObjectStore) writeLabel(ctx context.Context, name string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal label %s: %w", name, err)
	}
	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		s.labelKey(name),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to write label %s: %w", name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
