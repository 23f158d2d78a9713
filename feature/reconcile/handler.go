package reconcile

import (
	"errors"
	"fmt"
	"time"

	"payment-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/v1/reconciliation")
	group.Post("/run", h.HandleRunReconciliation)
	group.Get("/health", h.HandleGetHealth)
	group.Post("/sync", h.HandleSyncPending)
	group.Get("/report", h.HandleGenerateReport)
	group.Get("/reports", h.HandleListReports)
}

// HandleRunReconciliation triggers a full reconciliation run.
// @Summary Run Reconciliation
// @Description Reconciles the local ledger against the payment processor over the given window (default: last 24 hours).
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339)"
// @Success 200 {object} reconcile.Report "Reconciliation Report"
// @Failure 400 {object} map[string]string "Invalid Parameters"
// @Failure 409 {object} map[string]string "Reconciliation Already In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/v1/reconciliation/run [post]
func (h *Handler) HandleRunReconciliation(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	start, end, err := parseWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.ReconcileTransactions(c.Context(), start, end)
	if err != nil {
		if errors.Is(err, ErrReconciliationInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// HandleGetHealth reports the engine's health.
// @Summary Reconciliation Health
// @Description Probes the ledger store, the payment processor and a short reconciliation window.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} reconcile.Health "Health Status"
// @Failure 503 {object} reconcile.Health "Critical Health Status"
// @Router /api/v1/reconciliation/health [get]
func (h *Handler) HandleGetHealth(c *fiber.Ctx) error {
	health := h.service.GetReconciliationHealth(c.Context())

	status := fiber.StatusOK
	if health.Status == HealthCritical {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(health)
}

// HandleSyncPending resolves local transactions stuck in pending.
// @Summary Sync Pending Payments
// @Description Queries the processor for each pending transaction and resolves its final status.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} reconcile.SyncResult "Sync Result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/v1/reconciliation/sync [post]
func (h *Handler) HandleSyncPending(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	result, err := h.service.SyncPendingPayments(c.Context())
	if err != nil {
		l.Error("Pending sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// HandleGenerateReport runs a reconciliation and returns the serialized report.
// @Summary Generate Reconciliation Report
// @Description Runs a reconciliation and returns the report serialized as json or csv.
// @Tags reconciliation
// @Produce json
// @Param format query string false "Report format (json, csv)" default(json)
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339)"
// @Success 200 {string} string "Serialized Report"
// @Failure 400 {object} map[string]string "Invalid Parameters"
// @Failure 409 {object} map[string]string "Reconciliation Already In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/v1/reconciliation/report [get]
func (h *Handler) HandleGenerateReport(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	start, end, err := parseWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	format := c.Query("format", FormatJSON)

	_, payload, err := h.service.GenerateReconciliationReport(c.Context(), format, start, end)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrReconciliationInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Report generation failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.Set(fiber.HeaderContentType, ContentTypeFor(format))
	return c.Send(payload)
}

// HandleListReports lists archived reports, newest first.
// @Summary List Archived Reports
// @Description Lists reconciliation reports archived in object storage.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} map[string]interface{} "Archived Reports"
// @Failure 404 {object} map[string]string "Archive Not Configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/v1/reconciliation/reports [get]
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	entries, err := h.service.ListArchivedReports(c.Context())
	if err != nil {
		if errors.Is(err, ErrArchiveUnavailable) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to list archived reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if entries == nil {
		entries = []ArchiveEntry{}
	}

	return c.JSON(fiber.Map{"reports": entries, "count": len(entries)})
}

// parseWindow reads the optional start/end query parameters. They must be
// RFC3339 and provided together; both absent means the default window.
func parseWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	var start, end time.Time

	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q", v)
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q", v)
		}
		end = t
	}

	if start.IsZero() != end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end must be provided together")
	}
	if !start.IsZero() && !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end must be after start")
	}
	return start, end, nil
}
