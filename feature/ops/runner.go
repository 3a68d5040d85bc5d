package ops

import (
	"context"
	"errors"
	"sync"
	"time"

	"booking-mirror/core/lock"
	"booking-mirror/feature/calendar"
	"booking-mirror/feature/extract"
	"booking-mirror/feature/reconcile"
	"booking-mirror/feature/registry"
	"booking-mirror/feature/reminder"

	"go.uber.org/zap"
)

// ErrLockContended reports that another pass held the execution lock for
// the whole bounded wait. The invocation is skipped, not queued.
var ErrLockContended = errors.New("another pass holds the execution lock")

// Runner executes full passes under the process-wide lock and remembers
// the last outcome for the status endpoint.
type Runner struct {
	lock      *lock.Lock
	wait      time.Duration
	engine    *reconcile.Engine
	sync      *calendar.Synchronizer
	reminders *reminder.Service
	store     registry.Store
	platforms []extract.Platform
	loc       *time.Location
	log       *zap.Logger

	mu   sync.Mutex
	last *PassStatus

	// now is overridable for tests.
	now func() time.Time
}

// NewRunner creates a pass runner. A non-positive wait falls back to the
// lock's default.
func NewRunner(lk *lock.Lock, wait time.Duration, engine *reconcile.Engine, sync *calendar.Synchronizer, reminders *reminder.Service, store registry.Store, platforms []extract.Platform, loc *time.Location, log *zap.Logger) *Runner {
	return &Runner{
		lock:      lk,
		wait:      wait,
		engine:    engine,
		sync:      sync,
		reminders: reminders,
		store:     store,
		platforms: platforms,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// PassStatus is the recorded outcome of the most recent pass.
type PassStatus struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Reconcile  *reconcile.Result `json:"reconcile,omitempty"`
	Calendar   calendar.Result   `json:"calendar"`
	Reminder   reminder.Result   `json:"reminder"`
	Error      string            `json:"error,omitempty"`
}

// Status returns the last pass outcome, or nil before the first pass.
func (r *Runner) Status() *PassStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// RunPass executes one full pass: mailbox reconciliation, calendar sync,
// then guest reminders, all under the execution lock.
func (r *Runner) RunPass(ctx context.Context) (*PassStatus, error) {
	if !r.lock.TryAcquire(r.wait) {
		r.log.Warn("skipping pass, lock not acquired")
		return nil, ErrLockContended
	}
	defer r.lock.Release()

	status := &PassStatus{StartedAt: r.now()}
	err := r.runLocked(ctx, status)
	status.FinishedAt = r.now()
	if err != nil {
		status.Error = err.Error()
		r.log.Error("pass failed", zap.Error(err))
	}

	r.mu.Lock()
	r.last = status
	r.mu.Unlock()

	return status, err
}

func (r *Runner) runLocked(ctx context.Context, status *PassStatus) error {
	res, err := r.engine.Run(ctx)
	if err != nil {
		return err
	}
	status.Reconcile = res

	calRes, err := r.syncCalendars(ctx)
	if err != nil {
		return err
	}
	status.Calendar = calRes

	for _, platform := range r.platforms {
		reg, err := registry.Open(ctx, r.store, platform.Table, r.loc)
		if err != nil {
			return err
		}
		remRes, err := r.reminders.Run(ctx, reg)
		if err != nil {
			return err
		}
		status.Reminder.LockCodeSent += remRes.LockCodeSent
		status.Reminder.PreCheckinSent += remRes.PreCheckinSent
		status.Reminder.Skipped += remRes.Skipped
	}

	return nil
}

// RunCalendarSync drives only the calendar toward the ledger, under the
// same lock as full passes.
func (r *Runner) RunCalendarSync(ctx context.Context) (calendar.Result, error) {
	if !r.lock.TryAcquire(r.wait) {
		r.log.Warn("skipping calendar sync, lock not acquired")
		return calendar.Result{}, ErrLockContended
	}
	defer r.lock.Release()

	return r.syncCalendars(ctx)
}

func (r *Runner) syncCalendars(ctx context.Context) (calendar.Result, error) {
	var total calendar.Result
	for _, platform := range r.platforms {
		reg, err := registry.Open(ctx, r.store, platform.Table, r.loc)
		if err != nil {
			return total, err
		}
		res, err := r.sync.Sync(ctx, reg)
		if err != nil {
			return total, err
		}
		total.Created += res.Created
		total.Deleted += res.Deleted
	}
	return total, nil
}
