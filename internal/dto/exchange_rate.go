package dto

import (
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertExchangeRateRequest defines the data for inserting or superseding a
// rate snapshot for one (date, quote currency) key.
type UpsertExchangeRateRequest struct {
	QuoteCurrencyCode string            `json:"quoteCurrencyCode" binding:"required,len=3,uppercase"`
	Rate              decimal.Decimal   `json:"rate" binding:"required"`
	RateDate          time.Time         `json:"rateDate" binding:"required"`
	Source            domain.RateSource `json:"source" binding:"omitempty,oneof=MANUAL FEED"`
}

// ExchangeRateResponse defines the API shape of a rate snapshot.
type ExchangeRateResponse struct {
	ExchangeRateID    string            `json:"exchangeRateID"`
	RateDate          time.Time         `json:"rateDate"`
	BaseCurrencyCode  string            `json:"baseCurrencyCode"`
	QuoteCurrencyCode string            `json:"quoteCurrencyCode"`
	Rate              decimal.Decimal   `json:"rate"`
	Source            domain.RateSource `json:"source"`
	LastUpdatedAt     time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy     string            `json:"lastUpdatedBy"`
}

// ConversionResponse is the API shape of a currency conversion result.
type ConversionResponse struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	RateUsed        decimal.Decimal `json:"rateUsed"`
	RateDate        *time.Time      `json:"rateDate,omitempty"`
	IsFallback      bool            `json:"isFallback"`
	Warning         string          `json:"warning,omitempty"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its DTO.
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:    rate.ExchangeRateID,
		RateDate:          rate.RateDate,
		BaseCurrencyCode:  rate.BaseCurrencyCode,
		QuoteCurrencyCode: rate.QuoteCurrencyCode,
		Rate:              rate.Rate,
		Source:            rate.Source,
		LastUpdatedAt:     rate.LastUpdatedAt,
		LastUpdatedBy:     rate.LastUpdatedBy,
	}
}

// ToConversionResponse converts a domain.Conversion to its DTO.
func ToConversionResponse(c domain.Conversion) ConversionResponse {
	return ConversionResponse{
		ConvertedAmount: c.ConvertedAmount,
		RateUsed:        c.RateUsed,
		RateDate:        c.RateDate,
		IsFallback:      c.IsFallback,
		Warning:         c.Warning,
	}
}
