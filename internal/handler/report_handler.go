package handler

import (
	"errors"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// MonthlyReportResponse represents a monthly summary in API responses
type MonthlyReportResponse struct {
	Month       string `json:"month"`
	Income      string `json:"income"`
	Expense     string `json:"expense"`
	Savings     string `json:"savings"`
	SavingsRate string `json:"savingsRate"`
}

// GetMonthlyReport handles GET /reports/monthly
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	userID := middleware.GetUserID(c)

	report, err := h.reportService.Monthly(userID, c.QueryParam("month"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build monthly report")
	}

	return c.JSON(http.StatusOK, MonthlyReportResponse{
		Month:       report.Month,
		Income:      report.Income.StringFixed(2),
		Expense:     report.Expense.StringFixed(2),
		Savings:     report.Savings.StringFixed(2),
		SavingsRate: report.SavingsRate.StringFixed(2),
	})
}
