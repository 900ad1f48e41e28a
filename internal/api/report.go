package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/entity"
)

type ReportService interface {
	Summary(ctx context.Context) (*entity.ReportSummary, error)
}

type ReportHandler struct {
	reportService ReportService
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary --> GET /api/reports/summary
func (h *ReportHandler) Summary(c echo.Context) error {
	summary, err := h.reportService.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, summary)
}
