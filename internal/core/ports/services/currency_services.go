package services

import (
	"context"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyConverterSvc defines read/convert operations against the rate table.
type CurrencyConverterSvc interface {
	// ConvertToBase folds an amount into TRY using the rate for date, falling
	// back to earlier rates and finally degrading to rate 1 with a warning.
	// It never fails on missing market data.
	ConvertToBase(ctx context.Context, amount decimal.Decimal, currencyCode string, date time.Time) (domain.Conversion, error)

	// GetLatestRate retrieves the most recent rate for a quote currency.
	GetLatestRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error)

	// ListRates retrieves recent rates for a quote currency.
	ListRates(ctx context.Context, currencyCode string, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data.
type ExchangeRateWriterSvc interface {
	// UpsertRate inserts or supersedes the rate for (date, currency).
	UpsertRate(ctx context.Context, req dto.UpsertExchangeRateRequest, actorUserID string) (*domain.ExchangeRate, error)
}

// CurrencySvcFacade combines all currency-related service interfaces.
type CurrencySvcFacade interface {
	CurrencyConverterSvc
	ExchangeRateWriterSvc
}
