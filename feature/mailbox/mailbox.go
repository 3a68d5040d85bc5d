package mailbox

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Message is a single email message inside a thread.
type Message struct {
	// From is the raw sender header value.
	From string `json:"from"`
	// Subject is the message subject line.
	Subject string `json:"subject"`
	// Body is the plain-text body.
	Body string `json:"body"`
	// Date is the message timestamp.
	Date time.Time `json:"date"`
}

// Thread is a mailbox conversation: one or more messages sharing an ID.
type Thread struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Latest returns the timestamp of the newest message in the thread.
func (t Thread) Latest() time.Time {
	var latest time.Time
	for _, m := range t.Messages {
		if m.Date.After(latest) {
			latest = m.Date
		}
	}
	return latest
}

// Query selects threads by sender and recency. A thread matches when at
// least one of its messages matches both criteria.
type Query struct {
	// Senders is an OR-list of sender address substrings.
	Senders []string
	// Window is the recency window; messages older than now-Window are
	// ignored. Zero means no recency filter.
	Window time.Duration
}

// String renders the query in the familiar mailbox search syntax. It is
// used for logging only.
func (q Query) String() string {
	parts := make([]string, 0, len(q.Senders))
	for _, s := range q.Senders {
		parts = append(parts, "from:"+s)
	}
	out := "(" + strings.Join(parts, " OR ") + ")"
	if q.Window > 0 {
		out += fmt.Sprintf(" newer_than:%dd", int(q.Window.Hours()/24))
	}
	return out
}

// Matches reports whether the message satisfies the query relative to now.
func (q Query) Matches(m Message, now time.Time) bool {
	if q.Window > 0 && m.Date.Before(now.Add(-q.Window)) {
		return false
	}
	for _, s := range q.Senders {
		if s != "" && strings.Contains(m.From, s) {
			return true
		}
	}
	return false
}

// Service is the mailbox collaborator: thread search plus label handling.
type Service interface {
	// Search returns up to maxResults threads matching the query, newest
	// first.
	Search(ctx context.Context, q Query, maxResults int) ([]Thread, error)
	// GetOrCreateLabel returns the named label, creating it when absent.
	GetOrCreateLabel(ctx context.Context, name string) (Label, error)
}

// Label is a named tag on mailbox threads, used as the processed marker.
type Label interface {
	Name() string
	// Members returns the set of thread IDs carrying this label.
	Members(ctx context.Context) (map[string]struct{}, error)
	// Add applies the label to a thread.
	Add(ctx context.Context, threadID string) error
}
