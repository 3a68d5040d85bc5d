package reconcile

import (
	"context"
	"fmt"
	"time"

	"booking-mirror/feature/extract"
	"booking-mirror/feature/mailbox"
	"booking-mirror/feature/registry"

	"go.uber.org/zap"
)

// Engine runs one reconciliation pass: search the mailbox, parse and
// aggregate signals, merge each platform's batch into its table, then
// mark the contributing threads processed.
type Engine struct {
	mail      mailbox.Service
	store     registry.Store
	platforms []extract.Platform
	parser    *extract.Parser
	cfg       mailbox.Config
	loc       *time.Location
	log       *zap.Logger

	// now is overridable for tests.
	now func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(mail mailbox.Service, store registry.Store, platforms []extract.Platform, cfg mailbox.Config, loc *time.Location, log *zap.Logger) *Engine {
	return &Engine{
		mail:      mail,
		store:     store,
		platforms: platforms,
		parser:    extract.NewParser(platforms, loc),
		cfg:       cfg,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// Result is the outcome of one pass.
type Result struct {
	Threads   int `json:"threads"`
	Signals   int `json:"signals"`
	Inserted  int `json:"inserted"`
	Canceled  int `json:"canceled"`
	CheckedIn int `json:"checked_in"`
	Labeled   int `json:"labeled"`
}

// Run executes one pass. A missing platform table is fatal and aborts
// before anything is written for that platform; a label failure is
// logged and the pass continues, since reservation data is already
// durable by then.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	label, err := e.mail.GetOrCreateLabel(ctx, e.cfg.ProcessedLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve processed label: %w", err)
	}
	processed, err := label.Members(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed threads: %w", err)
	}

	window, err := e.cfg.Window()
	if err != nil {
		return nil, err
	}
	query := mailbox.Query{Senders: e.senders(), Window: window}

	threads, err := e.mail.Search(ctx, query, e.cfg.MaxThreads)
	if err != nil {
		return nil, fmt.Errorf("failed to search mailbox: %w", err)
	}

	signals := e.parser.ParseThreads(threads)
	batch := extract.Aggregate(signals, processed)

	res := &Result{Threads: len(threads), Signals: len(signals)}
	now := e.now()

	for _, platform := range e.platforms {
		reg, err := registry.Open(ctx, e.store, platform.Table, e.loc)
		if err != nil {
			return nil, err
		}

		plan, err := BuildPlan(reg, batch.ForPlatform(platform.Name), platform, now)
		if err != nil {
			return nil, err
		}
		for _, key := range plan.SkippedCancels {
			e.log.Warn("ignoring cancellation for a completed stay",
				zap.String("platform", key.Platform),
				zap.String("reservation_id", key.ReservationID))
		}
		if plan.Empty() {
			continue
		}

		if err := Apply(ctx, reg, plan); err != nil {
			return nil, err
		}

		res.Inserted += plan.Summary.Inserted
		res.Canceled += plan.Summary.Canceled
		res.CheckedIn += plan.Summary.CheckedIn
		e.log.Info("merged platform batch",
			zap.String("platform", platform.Name),
			zap.Int("inserted", plan.Summary.Inserted),
			zap.Int("canceled", plan.Summary.Canceled),
			zap.Int("checked_in", plan.Summary.CheckedIn))
	}

	if e.cfg.AddLabel {
		for threadID := range batch.Threads {
			if _, ok := processed[threadID]; ok {
				continue
			}
			if err := label.Add(ctx, threadID); err != nil {
				e.log.Warn("failed to label thread",
					zap.String("thread_id", threadID),
					zap.Error(err))
				continue
			}
			res.Labeled++
		}
	}

	return res, nil
}

func (e *Engine) senders() []string {
	out := make([]string, 0, len(e.platforms))
	for _, p := range e.platforms {
		out = append(out, p.Sender)
	}
	return out
}
