package handlers

import (
	"time"

	"campus-visitpass/internal/core/services"
	"campus-visitpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles admin dashboard and report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard handles the admin dashboard
// @Summary Admin dashboard
// @Description Aggregate counts and recent activity for the admin landing page
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.reportService.GetDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// Overview handles the request volume report
// @Summary Requests report
// @Description Request volumes and approval rate over a date range (default: trailing 30 days)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/reports [get]
func (h *ReportHandler) Overview(c *fiber.Ctx) error {
	var from, to time.Time
	var err error

	if v := c.Query("from"); v != "" {
		from, err = time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return response.BadRequest(c, "from must be YYYY-MM-DD")
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return response.BadRequest(c, "to must be YYYY-MM-DD")
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return response.BadRequest(c, "to must not be before from")
	}

	report, err := h.reportService.GetOverview(c.Context(), from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to build report")
	}

	return response.Success(c, "Report retrieved successfully", report)
}
