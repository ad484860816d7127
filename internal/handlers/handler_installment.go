package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

type installmentHandler struct {
	installmentService portssvc.InstallmentSvcFacade
	paymentService     portssvc.PaymentSvcFacade
}

func newInstallmentHandler(is portssvc.InstallmentSvcFacade, ps portssvc.PaymentSvcFacade) *installmentHandler {
	return &installmentHandler{installmentService: is, paymentService: ps}
}

// registerInstallmentRoutes registers single-installment routes. Schedule
// creation lives under /debts/:id/installments.
func registerInstallmentRoutes(rg *gin.RouterGroup, installmentService portssvc.InstallmentSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newInstallmentHandler(installmentService, paymentService)

	installments := rg.Group("/installments")
	{
		installments.GET("/:id", h.getInstallment)
		installments.PUT("/:id", h.updateInstallment)
		installments.DELETE("/:id", middleware.RequireAdmin(), h.deleteInstallment)
		installments.POST("/:id/payments", h.payInstallment)
	}
}

// getInstallment godoc
// @Summary Get an installment
// @Tags installments
// @Produce json
// @Param id path string true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/{id} [get]
func (h *installmentHandler) getInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	installment, err := h.installmentService.GetInstallment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Installment not found"})
		} else {
			logger.Error("Failed to get installment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get installment"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// updateInstallment godoc
// @Summary Update an installment
// @Description Updates due date and notes. Amounts are fixed by the schedule.
// @Tags installments
// @Accept json
// @Produce json
// @Param id path string true "Installment ID"
// @Param installment body dto.UpdateInstallmentRequest true "Fields to update"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/{id} [put]
func (h *installmentHandler) updateInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	installment, err := h.installmentService.UpdateInstallment(c.Request.Context(), c.Param("id"), req, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Installment not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update installment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update installment"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// deleteInstallment godoc
// @Summary Delete an installment
// @Description Removes an installment and recomputes the owning debt's status.
// @Tags installments
// @Param id path string true "Installment ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/{id} [delete]
func (h *installmentHandler) deleteInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, _ := middleware.GetUserIDFromContext(c)
	err := h.installmentService.DeleteInstallment(c.Request.Context(), c.Param("id"), actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Installment not found"})
		} else {
			logger.Error("Failed to delete installment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete installment"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// payInstallment godoc
// @Summary Pay an installment
// @Description Records a payment against an installment. Payments exceeding
// @Description the remaining amount are rejected whole; the error carries the
// @Description remaining figure.
// @Tags installments
// @Accept json
// @Produce json
// @Param id path string true "Installment ID"
// @Param payment body dto.PayRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/{id}/payments [post]
func (h *installmentHandler) payInstallment(c *gin.Context) {
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

	payment, err := h.paymentService.PayInstallment(c.Request.Context(), c.Param("id"), req, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Installment not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to pay installment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record payment"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}
