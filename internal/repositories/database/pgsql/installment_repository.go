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
)

type PgxInstallmentRepository struct {
	BaseRepository
}

// newPgxInstallmentRepository creates a new repository for installment data.
func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

const installmentColumns = `installment_id, debt_id, due_date, amount, currency_code, status, paid_amount, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanInstallment(row pgx.Row) (domain.Installment, error) {
	var i domain.Installment
	err := row.Scan(
		&i.InstallmentID,
		&i.DebtID,
		&i.DueDate,
		&i.Amount,
		&i.CurrencyCode,
		&i.Status,
		&i.PaidAmount,
		&i.Notes,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	return i, err
}

// FindInstallmentByID retrieves an installment by its unique identifier.
func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`
	installment, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("installment %s not found", installmentID))
		}
		return nil, fmt.Errorf("failed to find installment by id %s: %w", installmentID, err)
	}
	return &installment, nil
}

// FindInstallmentsByDebtID retrieves all installments of a debt ordered by due date.
func (r *PgxInstallmentRepository) FindInstallmentsByDebtID(ctx context.Context, debtID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE debt_id = $1 ORDER BY due_date, installment_id;`
	rows, err := r.Pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments of debt %s: %w", debtID, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Installment, error) {
		return scanInstallment(row)
	})
}

// SaveInstallments inserts the batch row by row, returning how many rows were
// written. A failure mid-batch stops the insert and reports the count; the
// rows already written stay.
func (r *PgxInstallmentRepository) SaveInstallments(ctx context.Context, installments []domain.Installment) (int, error) {
	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i, inst := range installments {
		_, err := r.Pool.Exec(ctx, query,
			inst.InstallmentID,
			inst.DebtID,
			inst.DueDate,
			inst.Amount,
			inst.CurrencyCode,
			inst.Status,
			inst.PaidAmount,
			inst.Notes,
			inst.CreatedAt,
			inst.CreatedBy,
			inst.LastUpdatedAt,
			inst.LastUpdatedBy,
		)
		if err != nil {
			return i, fmt.Errorf("failed to save installment %d of %d: %w", i+1, len(installments), err)
		}
	}
	return len(installments), nil
}

// applyInstallmentPayment runs the guarded paid_amount increment against the
// given connection, which may be a transaction. The guard lives in the WHERE
// clause so two concurrent payments serialize on the row and the loser sees
// zero rows.
func applyInstallmentPayment(ctx context.Context, db dbConn, installmentID string, amount decimal.Decimal, updatedBy string) (*domain.Installment, error) {
	query := `
		UPDATE installments
		SET paid_amount = paid_amount + $2,
			status = CASE
				WHEN paid_amount + $2 >= amount THEN 'PAID'
				WHEN paid_amount + $2 > 0 THEN 'PARTIAL'
				ELSE 'PENDING'
			END,
			last_updated_at = now(),
			last_updated_by = $3
		WHERE installment_id = $1 AND paid_amount + $2 <= amount
		RETURNING ` + installmentColumns + `;
	`
	installment, err := scanInstallment(db.QueryRow(ctx, query, installmentID, amount, updatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the row does not exist or the guard rejected the increment.
			var exists bool
			if checkErr := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM installments WHERE installment_id = $1);`, installmentID).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("failed to check installment %s: %w", installmentID, checkErr)
			}
			if !exists {
				return nil, apperrors.NewNotFoundError(fmt.Sprintf("installment %s not found", installmentID))
			}
			return nil, fmt.Errorf("%w: payment exceeds remaining amount on installment %s", apperrors.ErrValidation, installmentID)
		}
		return nil, fmt.Errorf("failed to apply payment to installment %s: %w", installmentID, err)
	}
	return &installment, nil
}

// RevertPayment decrements paid_amount, floored at zero, and refreshes the
// derived status.
func (r *PgxInstallmentRepository) RevertPayment(ctx context.Context, installmentID string, amount decimal.Decimal, updatedBy string) (*domain.Installment, error) {
	query := `
		UPDATE installments
		SET paid_amount = GREATEST(paid_amount - $2, 0),
			status = CASE
				WHEN GREATEST(paid_amount - $2, 0) >= amount THEN 'PAID'
				WHEN GREATEST(paid_amount - $2, 0) > 0 THEN 'PARTIAL'
				ELSE 'PENDING'
			END,
			last_updated_at = now(),
			last_updated_by = $3
		WHERE installment_id = $1
		RETURNING ` + installmentColumns + `;
	`
	installment, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID, amount, updatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("installment %s not found", installmentID))
		}
		return nil, fmt.Errorf("failed to revert payment on installment %s: %w", installmentID, err)
	}
	return &installment, nil
}

// UpdateInstallment updates mutable fields (due date, notes).
func (r *PgxInstallmentRepository) UpdateInstallment(ctx context.Context, installment domain.Installment) error {
	query := `
		UPDATE installments
		SET due_date = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE installment_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		installment.InstallmentID,
		installment.DueDate,
		installment.Notes,
		installment.LastUpdatedAt,
		installment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment %s: %w", installment.InstallmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("installment %s not found", installment.InstallmentID))
	}
	return nil
}

// DeleteInstallment removes a single installment.
func (r *PgxInstallmentRepository) DeleteInstallment(ctx context.Context, installmentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM installments WHERE installment_id = $1;`, installmentID)
	if err != nil {
		return fmt.Errorf("failed to delete installment %s: %w", installmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("installment %s not found", installmentID))
	}
	return nil
}
