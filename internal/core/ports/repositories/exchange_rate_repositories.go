package repositories

import (
	"context"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateOn retrieves the rate for the exact (date, quote currency) pair.
	FindRateOn(ctx context.Context, quoteCurrency string, date time.Time) (*domain.ExchangeRate, error)

	// FindRateBefore retrieves the most recent rate strictly before date for
	// the quote currency.
	FindRateBefore(ctx context.Context, quoteCurrency string, date time.Time) (*domain.ExchangeRate, error)

	// FindLatestRate retrieves the single most recent rate for the quote
	// currency regardless of date.
	FindLatestRate(ctx context.Context, quoteCurrency string) (*domain.ExchangeRate, error)

	// ListRates retrieves rates for a currency in descending date order.
	ListRates(ctx context.Context, quoteCurrency string, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertRate inserts the rate or updates the existing row for the same
	// (rate_date, quote_currency) key. Atomic against concurrent callers on
	// the same key via the unique constraint.
	UpsertRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
