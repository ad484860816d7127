package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

type debtHandler struct {
	debtService        portssvc.DebtSvcFacade
	installmentService portssvc.InstallmentSvcFacade
	paymentService     portssvc.PaymentSvcFacade
}

func newDebtHandler(ds portssvc.DebtSvcFacade, is portssvc.InstallmentSvcFacade, ps portssvc.PaymentSvcFacade) *debtHandler {
	return &debtHandler{
		debtService:        ds,
		installmentService: is,
		paymentService:     ps,
	}
}

// registerDebtRoutes registers debt and receivable routes, including the
// nested installment schedule and direct payment endpoints. Deletion is
// admin only.
func registerDebtRoutes(rg *gin.RouterGroup, debtService portssvc.DebtSvcFacade, installmentService portssvc.InstallmentSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newDebtHandler(debtService, installmentService, paymentService)

	debts := rg.Group("/debts")
	{
		debts.POST("", h.createDebt)
		debts.GET("", h.listDebts)
		debts.GET("/summary", h.getSummary)
		debts.GET("/:id", h.getDebt)
		debts.PUT("/:id", h.updateDebt)
		debts.DELETE("/:id", middleware.RequireAdmin(), h.deleteDebt)
		debts.GET("/:id/remaining", h.getRemaining)
		debts.POST("/:id/installments", h.createInstallments)
		debts.POST("/:id/payments", h.payDebt)
	}
}

// createDebt godoc
// @Summary Create a debt or receivable
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), req, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create debt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create debt"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// listDebts godoc
// @Summary List debts
// @Tags debts
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDebtsResponse
// @Security BearerAuth
// @Router /debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.debtService.ListDebts(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to list debts", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list debts"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSummary godoc
// @Summary Debt summary by currency
// @Description Groups open principal into per-currency buckets for debts and
// @Description receivables, folded into TRY with the net position.
// @Tags debts
// @Produce json
// @Success 200 {object} dto.DebtSummaryResponse
// @Security BearerAuth
// @Router /debts/summary [get]
func (h *debtHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.debtService.GetSummaryByCurrency(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build debt summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build debt summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getDebt godoc
// @Summary Get a debt with details
// @Description Retrieves a debt with its installments, paid totals, remaining
// @Description balance and TRY principal.
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.DebtDetailsResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [get]
func (h *debtHandler) getDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	details, err := h.debtService.GetDebtWithDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		} else {
			logger.Error("Failed to get debt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get debt"})
		}
		return
	}
	c.JSON(http.StatusOK, details)
}

// updateDebt godoc
// @Summary Update a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param debt body dto.UpdateDebtRequest true "Fields to update"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [put]
func (h *debtHandler) updateDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	debt, err := h.debtService.UpdateDebt(c.Request.Context(), c.Param("id"), req, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update debt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update debt"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// deleteDebt godoc
// @Summary Delete a debt
// @Description Removes a debt with its installments and payment history.
// @Tags debts
// @Param id path string true "Debt ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [delete]
func (h *debtHandler) deleteDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, _ := middleware.GetUserIDFromContext(c)
	err := h.debtService.DeleteDebt(c.Request.Context(), c.Param("id"), actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		} else {
			logger.Error("Failed to delete debt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete debt"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// getRemaining godoc
// @Summary Remaining balance of a debt
// @Description Principal minus summed installment payments, floored at zero.
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id}/remaining [get]
func (h *debtHandler) getRemaining(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	remaining, err := h.debtService.CalculateRemaining(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		} else {
			logger.Error("Failed to calculate remaining", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to calculate remaining"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// createInstallments godoc
// @Summary Create an installment schedule
// @Description Splits the debt's principal into equal installments with
// @Description calendar-month due dates. A partially written batch is reported
// @Description with success=false, not rolled back.
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param schedule body dto.CreateInstallmentsRequest true "Schedule parameters"
// @Success 201 {object} dto.CreateInstallmentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id}/installments [post]
func (h *debtHandler) createInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var startDate time.Time
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	resp, err := h.installmentService.CreateInstallments(c.Request.Context(), c.Param("id"), req.Count, startDate, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create installments", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create installments"})
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// payDebt godoc
// @Summary Pay a debt directly
// @Description Records a payment against a debt that has no installment
// @Description schedule. Direct payments are not capped.
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param payment body dto.PayRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id}/payments [post]
func (h *debtHandler) payDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	payment, err := h.paymentService.PayDebt(c.Request.Context(), c.Param("id"), req, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to pay debt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record payment"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}
