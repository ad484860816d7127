package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

// currencyService resolves exchange rates with historical fallback and folds
// amounts into the base currency.
type currencyService struct {
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewCurrencyService creates a new currency conversion service.
func NewCurrencyService(rateRepo portsrepo.ExchangeRateRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{rateRepo: rateRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// ConvertToBase resolves a rate for (date, currency) and converts the amount
// into TRY. Resolution order: exact date match, then the most recent rate
// strictly before the date, then the most recent rate regardless of date
// (flagged as fallback). When no rate exists at all the amount passes through
// at rate 1 with a warning; a missing rate never fails the caller.
//
// Each converted amount is rounded to 2 decimal places here, at the point of
// conversion. Batch totals are sums of already-rounded line items.
func (s *currencyService) ConvertToBase(ctx context.Context, amount decimal.Decimal, currencyCode string, date time.Time) (domain.Conversion, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return domain.Conversion{}, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	date = date.Truncate(24 * time.Hour)

	if currencyCode == domain.BaseCurrencyCode {
		return domain.Conversion{
			ConvertedAmount: amount.Round(2),
			RateUsed:        decimal.NewFromInt(1),
		}, nil
	}

	rate, isFallback, err := s.resolveRate(ctx, currencyCode, date)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return domain.Conversion{}, fmt.Errorf("failed to resolve exchange rate for %s: %w", currencyCode, err)
		}
		// Degraded result: no rate known for this currency at all.
		middleware.GetLoggerFromCtx(ctx).Warn("No exchange rate available, converting at 1:1",
			slog.String("currency", currencyCode), slog.Time("date", date))
		return domain.Conversion{
			ConvertedAmount: amount.Round(2),
			RateUsed:        decimal.NewFromInt(1),
			IsFallback:      true,
			Warning:         fmt.Sprintf("no exchange rate available for %s, amount kept unconverted", currencyCode),
		}, nil
	}

	rateDate := rate.RateDate
	return domain.Conversion{
		ConvertedAmount: amount.Mul(rate.Rate).Round(2),
		RateUsed:        rate.Rate,
		RateDate:        &rateDate,
		IsFallback:      isFallback,
	}, nil
}

// resolveRate walks the fallback chain. The bool reports whether the global
// latest-rate fallback was taken.
func (s *currencyService) resolveRate(ctx context.Context, currencyCode string, date time.Time) (*domain.ExchangeRate, bool, error) {
	rate, err := s.rateRepo.FindRateOn(ctx, currencyCode, date)
	if err == nil {
		return rate, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	rate, err = s.rateRepo.FindRateBefore(ctx, currencyCode, date)
	if err == nil {
		return rate, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	rate, err = s.rateRepo.FindLatestRate(ctx, currencyCode)
	if err != nil {
		return nil, false, err
	}
	return rate, true, nil
}

// GetLatestRate retrieves the most recent rate snapshot for a quote currency.
func (s *currencyService) GetLatestRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	rate, err := s.rateRepo.FindLatestRate(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rate for %s: %w", currencyCode, err)
	}
	return rate, nil
}

// ListRates retrieves recent rate snapshots for a quote currency.
func (s *currencyService) ListRates(ctx context.Context, currencyCode string, limit int) ([]domain.ExchangeRate, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	if limit <= 0 {
		limit = 30
	}
	return s.rateRepo.ListRates(ctx, currencyCode, limit)
}

// UpsertRate inserts a rate snapshot or updates the existing row for the same
// (date, currency) key; rows are superseded in place, never duplicated.
func (s *currencyService) UpsertRate(ctx context.Context, req dto.UpsertExchangeRateRequest, actorUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	quote := strings.ToUpper(req.QuoteCurrencyCode)
	if quote == domain.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: cannot store a rate for the base currency", apperrors.ErrValidation)
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:    uuid.NewString(),
		RateDate:          req.RateDate.Truncate(24 * time.Hour),
		BaseCurrencyCode:  domain.BaseCurrencyCode,
		QuoteCurrencyCode: quote,
		Rate:              req.Rate,
		Source:            source,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	saved, err := s.rateRepo.UpsertRate(ctx, rate)
	if err != nil {
		logger.Error("Failed to upsert exchange rate", slog.String("currency", quote), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to upsert exchange rate: %w", err)
	}

	logger.Info("Exchange rate upserted", slog.String("currency", quote), slog.Time("rate_date", rate.RateDate))
	return saved, nil
}
