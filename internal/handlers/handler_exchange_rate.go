package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

type exchangeRateHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newExchangeRateHandler(cs portssvc.CurrencySvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{currencyService: cs}
}

// registerExchangeRateRoutes registers routes for the rate table and
// conversions.
func registerExchangeRateRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newExchangeRateHandler(currencyService)

	rates := rg.Group("/exchange-rates")
	{
		rates.PUT("", h.upsertRate)
		rates.GET("/:currency/latest", h.getLatestRate)
		rates.GET("/:currency", h.listRates)
		rates.GET("/:currency/convert", h.convert)
	}
}

// upsertRate godoc
// @Summary Upsert an exchange rate
// @Description Inserts the rate for (date, currency) or supersedes the
// @Description existing snapshot in place.
// @Tags exchange rates
// @Accept json
// @Produce json
// @Param rate body dto.UpsertExchangeRateRequest true "Rate details"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [put]
func (h *exchangeRateHandler) upsertRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpsertExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rate, err := h.currencyService.UpsertRate(c.Request.Context(), req, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to upsert rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to upsert rate"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// getLatestRate godoc
// @Summary Latest rate for a currency
// @Tags exchange rates
// @Produce json
// @Param currency path string true "Quote currency code (3 letters)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates/{currency}/latest [get]
func (h *exchangeRateHandler) getLatestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency := c.Param("currency")
	if len(currency) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency code must be 3 letters"})
		return
	}

	rate, err := h.currencyService.GetLatestRate(c.Request.Context(), currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No rate found for currency"})
		} else {
			logger.Error("Failed to get latest rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get rate"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listRates godoc
// @Summary List recent rates for a currency
// @Tags exchange rates
// @Produce json
// @Param currency path string true "Quote currency code (3 letters)"
// @Param limit query int false "Maximum number of rates"
// @Success 200 {array} dto.ExchangeRateResponse
// @Security BearerAuth
// @Router /exchange-rates/{currency} [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency := c.Param("currency")
	if len(currency) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency code must be 3 letters"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	rates, err := h.currencyService.ListRates(c.Request.Context(), currency, limit)
	if err != nil {
		logger.Error("Failed to list rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list rates"})
		return
	}

	responses := make([]dto.ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = dto.ToExchangeRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// convert godoc
// @Summary Convert an amount into TRY
// @Description Folds an amount into the base currency using the rate for the
// @Description given date, falling back to earlier rates and finally to a 1:1
// @Description degraded conversion with a warning.
// @Tags exchange rates
// @Produce json
// @Param currency path string true "Quote currency code (3 letters)"
// @Param amount query string true "Amount to convert"
// @Param date query string false "Rate date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates/{currency}/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency := c.Param("currency")
	if len(currency) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency code must be 3 letters"})
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount: " + err.Error()})
		return
	}

	date := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	conv, err := h.currencyService.ConvertToBase(c.Request.Context(), amount, currency, date)
	if err != nil {
		logger.Error("Failed to convert amount", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert amount"})
		return
	}
	c.JSON(http.StatusOK, dto.ToConversionResponse(conv))
}
