package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"booking-mirror/core/loader"
	"booking-mirror/core/logger"
	"booking-mirror/core/middleware/auth"
	"booking-mirror/core/middleware/rayid"
	"booking-mirror/feature/ops"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the booking mirror server",
	Long: `Starts the operational HTTP server and the pass scheduler. Passes
fire on the configured tick interval; the API can trigger them on
demand and report the last outcome.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.log.Sync()
		logg := a.log

		tick, err := a.cfg.Tick()
		if err != nil {
			logg.Fatal("Invalid scheduler interval", zap.Error(err))
		}

		cal, err := a.connectCalendar()
		if err != nil {
			logg.Fatal("Failed to connect calendar database", zap.Error(err))
		}

		runner := a.newRunner(cal)

		// Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Health check stays public for probes.
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		// 4. Load Features
		mgr := loader.NewManager()
		mgr.Register(ops.NewFeature(runner, logg))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Scheduler
		scheduler := cron.New()
		_, err = scheduler.AddFunc("@every "+tick.String(), func() {
			if _, err := runner.RunPass(ctx); err != nil {
				logg.Warn("scheduled pass did not complete", zap.Error(err))
			}
		})
		if err != nil {
			logg.Fatal("Failed to schedule passes", zap.Error(err))
		}
		scheduler.Start()
		logg.Info("Scheduler started", zap.Duration("interval", tick))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		<-scheduler.Stop().Done()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
