package ops

import (
	"errors"

	"booking-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the operational HTTP surface.
type Handler struct {
	runner *Runner
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(runner *Runner, log *zap.Logger) *Handler {
	return &Handler{runner: runner, logger: log}
}

// RegisterRoutes registers the ops routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Post("/run", h.HandleRun)
	group.Post("/calendar/sync", h.HandleCalendarSync)
	group.Get("/status", h.HandleStatus)
}

// HandleRun triggers one full pass.
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("pass triggered via API")

	status, err := h.runner.RunPass(c.Context())
	if errors.Is(err, ErrLockContended) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(status)
	}
	return c.JSON(status)
}

// HandleCalendarSync triggers a calendar-only sync.
func (h *Handler) HandleCalendarSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("calendar sync triggered via API")

	res, err := h.runner.RunCalendarSync(c.Context())
	if errors.Is(err, ErrLockContended) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(res)
}

// HandleStatus returns the last pass outcome.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status := h.runner.Status()
	if status == nil {
		return c.JSON(fiber.Map{"status": "no pass recorded yet"})
	}
	return c.JSON(status)
}
