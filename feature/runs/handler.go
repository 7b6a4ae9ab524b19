package runs

import (
	"errors"

	"dataset-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for reconciliation runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the runs routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Post("/", h.HandleCreateRun)
	group.Get("/", h.HandleListRuns)
	group.Get("/:id", h.HandleGetRun)
}

// HandleCreateRun executes a reconciliation run and returns its record.
func (h *Handler) HandleCreateRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.OldPath == "" || req.NewPath == "" || req.KeyColumns == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "old_path, new_path and key_columns are required",
		})
	}

	l.Info("Run requested",
		zap.String("old_path", req.OldPath),
		zap.String("new_path", req.NewPath),
		zap.String("key_columns", req.KeyColumns),
	)

	run, err := h.service.Execute(c.Context(), req)
	if err != nil {
		l.Error("Run failed", zap.String("run_id", run.ID), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
			"run":   run,
		})
	}

	l.Info("Run finished",
		zap.String("run_id", run.ID),
		zap.Int("total_changes", run.TotalChanges),
	)
	return c.Status(fiber.StatusCreated).JSON(run)
}

// HandleListRuns returns the most recent runs.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.List(c.Context(), c.QueryInt("limit"))
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(records)
}

// HandleGetRun returns a single run by id.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	record, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "run not found",
			})
		}
		if errors.Is(err, ErrNoHistory) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Failed to fetch run", zap.String("run_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(record)
}
