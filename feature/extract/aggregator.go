package extract

// Batch is the aggregated outcome of one pass over the mailbox: which keys
// were canceled, the surviving confirmation per key, and which threads
// contributed an actionable signal.
type Batch struct {
	Canceled  map[Key]struct{}
	Confirmed map[Key]*RawSignal
	// Threads are the thread IDs to mark processed after the merge.
	Threads map[string]struct{}
}

// NewBatch returns an empty batch.
func NewBatch() Batch {
	return Batch{
		Canceled:  make(map[Key]struct{}),
		Confirmed: make(map[Key]*RawSignal),
		Threads:   make(map[string]struct{}),
	}
}

// ForPlatform narrows the batch to one platform's keys. Thread IDs are
// shared: labeling is decided across platforms.
func (b Batch) ForPlatform(platform string) Batch {
	out := NewBatch()
	out.Threads = b.Threads
	for key := range b.Canceled {
		if key.Platform == platform {
			out.Canceled[key] = struct{}{}
		}
	}
	for key, sig := range b.Confirmed {
		if key.Platform == platform {
			out.Confirmed[key] = sig
		}
	}
	return out
}

// Aggregate resolves a pass's signals against the set of already-processed
// threads.
//
// Signals from processed threads are skipped unless they are cancellations:
// a cancellation must never be dropped because its thread was labeled on an
// earlier pass. Duplicate confirmations for a key are resolved by keeping
// the signal with the strictly greatest timestamp (ties keep the first
// seen), so retransmitted confirmations collapse deterministically.
func Aggregate(signals []*RawSignal, processed map[string]struct{}) Batch {
	batch := NewBatch()

	for _, sig := range signals {
		_, seen := processed[sig.ThreadID]
		if seen && sig.Kind != KindCancel {
			continue
		}

		batch.Threads[sig.ThreadID] = struct{}{}

		switch sig.Kind {
		case KindCancel:
			batch.Canceled[sig.Key()] = struct{}{}
		case KindConfirm:
			existing := batch.Confirmed[sig.Key()]
			if existing == nil || sig.Timestamp.After(existing.Timestamp) {
				batch.Confirmed[sig.Key()] = sig
			}
		}
	}

	return batch
}
