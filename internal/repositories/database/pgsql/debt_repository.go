package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils/pagination"
)

type PgxDebtRepository struct {
	BaseRepository
}

// newPgxDebtRepository creates a new repository for debt data.
func newPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

const debtColumns = `debt_id, kind, party_id, principal_amount, currency_code, vat_rate, start_date, due_date, status, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanDebt(row pgx.Row) (domain.Debt, error) {
	var d domain.Debt
	err := row.Scan(
		&d.DebtID,
		&d.Kind,
		&d.PartyID,
		&d.PrincipalAmount,
		&d.CurrencyCode,
		&d.VATRate,
		&d.StartDate,
		&d.DueDate,
		&d.Status,
		&d.Notes,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	return d, err
}

// SaveDebt inserts a new debt record.
func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	query := `
		INSERT INTO debts (` + debtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		debt.DebtID,
		debt.Kind,
		debt.PartyID,
		debt.PrincipalAmount,
		debt.CurrencyCode,
		debt.VATRate,
		debt.StartDate,
		debt.DueDate,
		debt.Status,
		debt.Notes,
		debt.CreatedAt,
		debt.CreatedBy,
		debt.LastUpdatedAt,
		debt.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save debt %s: %w", debt.DebtID, err)
	}
	return nil
}

// FindDebtByID retrieves a debt by its unique identifier.
func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE debt_id = $1;`
	debt, err := scanDebt(r.Pool.QueryRow(ctx, query, debtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("debt %s not found", debtID))
		}
		return nil, fmt.Errorf("failed to find debt by id %s: %w", debtID, err)
	}
	return &debt, nil
}

// ListDebts retrieves a token-paginated page of debts, newest first.
func (r *PgxDebtRepository) ListDebts(ctx context.Context, limit int, nextToken *string) ([]domain.Debt, *string, error) {
	args := []interface{}{limit + 1}
	query := `SELECT ` + debtColumns + ` FROM debts`

	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, debt_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, debt_id DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	debts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Debt, error) {
		return scanDebt(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan debts: %w", err)
	}

	var token *string
	if len(debts) > limit {
		debts = debts[:limit]
		last := debts[len(debts)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.DebtID)
		token = &t
	}
	return debts, token, nil
}

// SumInstallmentPaid sums paid_amount over the debt's installments.
func (r *PgxDebtRepository) SumInstallmentPaid(ctx context.Context, debtID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(paid_amount), 0) FROM installments WHERE debt_id = $1;`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, debtID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum installment payments for debt %s: %w", debtID, err)
	}
	return total, nil
}

// OpenPrincipalByKindAndCurrency groups open principal into (kind, currency) buckets.
func (r *PgxDebtRepository) OpenPrincipalByKindAndCurrency(ctx context.Context) ([]domain.KindPrincipalTotal, error) {
	query := `
		SELECT kind, currency_code, SUM(principal_amount)
		FROM debts
		WHERE status = 'OPEN'
		GROUP BY kind, currency_code
		ORDER BY kind, currency_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open principal totals: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.KindPrincipalTotal, error) {
		var t domain.KindPrincipalTotal
		err := row.Scan(&t.Kind, &t.CurrencyCode, &t.Principal)
		return t, err
	})
}

// UpdateDebt updates mutable fields of a debt.
func (r *PgxDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	query := `
		UPDATE debts
		SET party_id = $2, vat_rate = $3, due_date = $4, notes = $5, last_updated_at = $6, last_updated_by = $7
		WHERE debt_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		debt.DebtID,
		debt.PartyID,
		debt.VATRate,
		debt.DueDate,
		debt.Notes,
		debt.LastUpdatedAt,
		debt.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt %s: %w", debt.DebtID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("debt %s not found", debt.DebtID))
	}
	return nil
}

// UpdateDebtStatus sets the derived open/closed status.
func (r *PgxDebtRepository) UpdateDebtStatus(ctx context.Context, debtID string, status domain.DebtStatus, updatedBy string) error {
	query := `
		UPDATE debts
		SET status = $2, last_updated_at = now(), last_updated_by = $3
		WHERE debt_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, debtID, status, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of debt %s: %w", debtID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("debt %s not found", debtID))
	}
	return nil
}

// DeleteDebt removes a debt and all payments referencing it or its
// installments within a single DB transaction. Installments cascade via the
// schema; payments need explicit cleanup because the polymorphic
// (related_type, related_id) pair carries no foreign key.
func (r *PgxDebtRepository) DeleteDebt(ctx context.Context, debtID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	_, err = tx.Exec(ctx, `
		DELETE FROM payments
		WHERE (related_type = $1 AND related_id IN (SELECT installment_id FROM installments WHERE debt_id = $2))
		   OR (related_type = $3 AND related_id = $2);
	`, domain.RefInstallment, debtID, domain.RefDebt)
	if err != nil {
		return fmt.Errorf("failed to delete payments of debt %s: %w", debtID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM debts WHERE debt_id = $1;`, debtID)
	if err != nil {
		return fmt.Errorf("failed to delete debt %s: %w", debtID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("debt %s not found", debtID))
	}
	return r.Commit(ctx, tx)
}
