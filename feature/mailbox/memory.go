package mailbox

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemory is a mailbox held entirely in memory. It backs tests and local
// experimentation with the same semantics as the object-store mailbox.
type InMemory struct {
	mu      sync.Mutex
	threads []Thread
	labels  map[string]map[string]struct{}

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewInMemory creates an empty in-memory mailbox.
func NewInMemory(threads ...Thread) *InMemory {
	return &InMemory{
		threads: threads,
		labels:  make(map[string]map[string]struct{}),
		Now:     time.Now,
	}
}

// Add appends a thread to the mailbox.
func (m *InMemory) Add(th Thread) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads = append(m.threads, th)
}

func (m *InMemory) Search(ctx context.Context, q Query, maxResults int) ([]Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	var out []Thread
	for _, th := range m.threads {
		for _, msg := range th.Messages {
			if q.Matches(msg, now) {
				out = append(out, th)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Latest().After(out[j].Latest())
	})
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (m *InMemory) GetOrCreateLabel(ctx context.Context, name string) (Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.labels[name]; !ok {
		m.labels[name] = make(map[string]struct{})
	}
	return &memoryLabel{box: m, name: name}, nil
}

type memoryLabel struct {
	box  *InMemory
	name string
}

func (l *memoryLabel) Name() string { return l.name }

func (l *memoryLabel) Members(ctx context.Context) (map[string]struct{}, error) {
	l.box.mu.Lock()
	defer l.box.mu.Unlock()
	out := make(map[string]struct{}, len(l.box.labels[l.name]))
	for id := range l.box.labels[l.name] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (l *memoryLabel) Add(ctx context.Context, threadID string) error {
	l.box.mu.Lock()
	defer l.box.mu.Unlock()
	l.box.labels[l.name][threadID] = struct{}{}
	return nil
}
