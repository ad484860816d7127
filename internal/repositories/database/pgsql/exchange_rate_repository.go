package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, rate_date, base_currency_code, quote_currency_code, rate, source, created_at, created_by, last_updated_at, last_updated_by`

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var er domain.ExchangeRate
	err := row.Scan(
		&er.ExchangeRateID,
		&er.RateDate,
		&er.BaseCurrencyCode,
		&er.QuoteCurrencyCode,
		&er.Rate,
		&er.Source,
		&er.CreatedAt,
		&er.CreatedBy,
		&er.LastUpdatedAt,
		&er.LastUpdatedBy,
	)
	return er, err
}

// UpsertRate inserts the rate for (rate_date, quote_currency_code) or
// supersedes the existing row in place. The unique constraint makes the
// operation atomic against concurrent writers on the same key; rows are
// never deleted.
func (r *PgxExchangeRateRepository) UpsertRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (rate_date, quote_currency_code) DO UPDATE SET
			rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + exchangeRateColumns + `;
	`
	stored, err := scanExchangeRate(r.Pool.QueryRow(ctx, query,
		rate.ExchangeRateID,
		rate.RateDate,
		rate.BaseCurrencyCode,
		rate.QuoteCurrencyCode,
		rate.Rate,
		rate.Source,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rate for %s on %s: %w", rate.QuoteCurrencyCode, rate.RateDate.Format("2006-01-02"), err)
	}
	return &stored, nil
}

// FindRateOn retrieves the rate with an exact date match.
func (r *PgxExchangeRateRepository) FindRateOn(ctx context.Context, currencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates WHERE quote_currency_code = $1 AND rate_date = $2;`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, currencyCode, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate for %s on %s", currencyCode, date.Format("2006-01-02")))
		}
		return nil, fmt.Errorf("failed to find rate for %s on %s: %w", currencyCode, date.Format("2006-01-02"), err)
	}
	return &rate, nil
}

// FindRateBefore retrieves the most recent rate strictly before the date.
func (r *PgxExchangeRateRepository) FindRateBefore(ctx context.Context, currencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE quote_currency_code = $1 AND rate_date < $2
		ORDER BY rate_date DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, currencyCode, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate for %s before %s", currencyCode, date.Format("2006-01-02")))
		}
		return nil, fmt.Errorf("failed to find rate for %s before %s: %w", currencyCode, date.Format("2006-01-02"), err)
	}
	return &rate, nil
}

// FindLatestRate retrieves the most recent rate for a quote currency.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE quote_currency_code = $1
		ORDER BY rate_date DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, currencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate for %s", currencyCode))
		}
		return nil, fmt.Errorf("failed to find latest rate for %s: %w", currencyCode, err)
	}
	return &rate, nil
}

// ListRates retrieves recent rates for a quote currency, newest first.
func (r *PgxExchangeRateRepository) ListRates(ctx context.Context, currencyCode string, limit int) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE quote_currency_code = $1
		ORDER BY rate_date DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, currencyCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for %s: %w", currencyCode, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
}
