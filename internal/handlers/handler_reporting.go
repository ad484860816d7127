package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the reporting and CSV export routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/debt-summary", h.getDebtSummary)
		reports.GET("/cashflow", h.getMonthlyCashflow)
		reports.GET("/transactions/export", h.exportTransactionsCSV)
		reports.GET("/debt-summary/export", h.exportDebtSummaryCSV)
	}
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing 'from' date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing 'to' date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "'to' date precedes 'from' date"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// getDebtSummary godoc
// @Summary Debt summary report
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DebtSummaryResponse
// @Security BearerAuth
// @Router /reports/debt-summary [get]
func (h *reportingHandler) getDebtSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.GetDebtSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build debt summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build debt summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getMonthlyCashflow godoc
// @Summary Monthly cashflow report
// @Description Income and expense totals per calendar month, folded into TRY.
// @Tags reports
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} domain.MonthlyCashflow
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/cashflow [get]
func (h *reportingHandler) getMonthlyCashflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	cashflow, err := h.reportingService.GetMonthlyCashflow(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to build cashflow report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build cashflow report"})
		}
		return
	}
	c.JSON(http.StatusOK, cashflow)
}

// exportTransactionsCSV godoc
// @Summary Export transactions as CSV
// @Tags reports
// @Produce text/csv
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {string} string "CSV data"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/transactions/export [get]
func (h *reportingHandler) exportTransactionsCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)

	if err := h.reportingService.ExportTransactionsCSV(c.Request.Context(), from, to, c.Writer); err != nil {
		// Headers may already be written; log and abort.
		logger.Error("Failed to export transactions CSV", slog.String("error", err.Error()))
		c.Abort()
		return
	}
}

// exportDebtSummaryCSV godoc
// @Summary Export the debt summary as CSV
// @Tags reports
// @Produce text/csv
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /reports/debt-summary/export [get]
func (h *reportingHandler) exportDebtSummaryCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="debt-summary.csv"`)

	if err := h.reportingService.ExportDebtSummaryCSV(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to export debt summary CSV", slog.String("error", err.Error()))
		c.Abort()
		return
	}
}
