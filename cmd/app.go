package cmd

import (
	"context"
	"fmt"
	"time"

	"booking-mirror/core/config"
	"booking-mirror/core/database"
	"booking-mirror/core/lock"
	"booking-mirror/core/logger"
	"booking-mirror/core/storage"
	"booking-mirror/feature/calendar"
	"booking-mirror/feature/extract"
	"booking-mirror/feature/mailbox"
	"booking-mirror/feature/ops"
	"booking-mirror/feature/reconcile"
	"booking-mirror/feature/registry"
	"booking-mirror/feature/reminder"

	"go.uber.org/zap"
)

// app bundles the collaborators every command wires up: configuration,
// logging, the mailbox and ledger stores, and the platform set.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	loc       *time.Location
	platforms []extract.Platform
	mail      mailbox.Service
	tables    *registry.ObjectStore
}

// newApp loads configuration and connects the storage-backed
// collaborators. The calendar database is connected separately since
// not every command needs it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	a := &app{
		cfg:       cfg,
		log:       logg,
		loc:       loc,
		platforms: cfg.Platforms.Platforms(),
		mail:      mailbox.NewObjectStore(client, cfg.Storage.Bucket, cfg.Mailbox.Prefix),
		tables:    registry.NewObjectStore(client, cfg.Storage.Bucket, cfg.RegistryPrefix),
	}

	for _, p := range a.platforms {
		if err := a.tables.EnsureTable(ctx, p.Table, registry.AllColumns); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) newEngine() *reconcile.Engine {
	return reconcile.NewEngine(a.mail, a.tables, a.platforms, a.cfg.Mailbox, a.loc, a.log)
}

// connectCalendar opens the event database and migrates the event table.
func (a *app) connectCalendar() (*calendar.GormCalendar, error) {
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to calendar database: %w", err)
	}
	cal := calendar.NewGormCalendar(db)
	if err := cal.Migrate(); err != nil {
		return nil, err
	}
	return cal, nil
}

// newRunner wires the full pass pipeline.
func (a *app) newRunner(cal calendar.Calendar) *ops.Runner {
	sync := calendar.NewSynchronizer(cal, a.log)
	reminders := reminder.NewService(&reminder.LogMailer{Log: a.log}, a.cfg.Reminder, a.log)
	return ops.NewRunner(
		lock.New(),
		a.cfg.LockWait(),
		a.newEngine(),
		sync,
		reminders,
		a.tables,
		a.platforms,
		a.loc,
		a.log,
	)
}
