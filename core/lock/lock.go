// Package lock provides the process-wide execution lock that serializes
// reconciliation and calendar sync passes.
//
// Two triggers firing at once (an operator request overlapping the scheduled
// run) must not interleave writes to the ledger. A caller that cannot take
// the lock within its bounded wait skips the whole invocation; the next
// trigger will try again.
package lock

import "time"

// DefaultWait is the bounded wait applied when the caller passes a
// non-positive timeout.
const DefaultWait = 30 * time.Second

// Lock is a process-wide mutual exclusion primitive with a bounded wait.
// The zero value is not usable; create it with New.
type Lock struct {
	sem chan struct{}
}

// New creates an unlocked Lock.
func New() *Lock {
	return &Lock{sem: make(chan struct{}, 1)}
}

// TryAcquire attempts to take the lock, waiting at most the given duration.
// It reports whether the lock was acquired.
func (l *Lock) TryAcquire(wait time.Duration) bool {
	if wait <= 0 {
		wait = DefaultWait
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// Release releases the lock. Releasing an unheld lock panics, which points
// straight at the call-site bug instead of silently unlocking another pass.
func (l *Lock) Release() {
	select {
	case <-l.sem:
	default:
		panic("lock: release of unheld lock")
	}
}
