package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource records where an exchange rate snapshot came from.
type RateSource string

const (
	SourceManual RateSource = "MANUAL"
	SourceFeed   RateSource = "FEED"
)

// ExchangeRate stores a quote-currency -> TRY rate for a specific date.
// At most one row exists per (RateDate, QuoteCurrencyCode); upserts supersede
// in place, rows are never deleted.
type ExchangeRate struct {
	ExchangeRateID    string          `json:"exchangeRateID"`
	RateDate          time.Time       `json:"rateDate"`
	BaseCurrencyCode  string          `json:"baseCurrencyCode"` // always TRY
	QuoteCurrencyCode string          `json:"quoteCurrencyCode"`
	Rate              decimal.Decimal `json:"rate"`
	Source            RateSource      `json:"source"`
	AuditFields
}

// Conversion is the result of folding an amount into the base currency.
// A missing rate degrades the result (IsFallback + Warning) instead of failing
// the caller; reporting never hard-fails on absent market data.
type Conversion struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	RateUsed        decimal.Decimal `json:"rateUsed"`
	RateDate        *time.Time      `json:"rateDate,omitempty"`
	IsFallback      bool            `json:"isFallback"`
	Warning         string          `json:"warning,omitempty"`
}
