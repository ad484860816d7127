package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, related_type, related_id, transaction_id, payment_date, amount, currency_code, method, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.Ref.Kind,
		&p.Ref.ID,
		&p.TransactionID,
		&p.Date,
		&p.Amount,
		&p.CurrencyCode,
		&p.Method,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// insertPayment writes a payment row through the given connection, which may
// be a transaction. The tagged reference persists as the
// (related_type, related_id) column pair.
func insertPayment(ctx context.Context, db dbConn, payment domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := db.Exec(ctx, query,
		payment.PaymentID,
		payment.Ref.Kind,
		payment.Ref.ID,
		payment.TransactionID,
		payment.Date,
		payment.Amount,
		payment.CurrencyCode,
		payment.Method,
		payment.Notes,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// RecordPayment inserts a payment and its optional linked ledger transaction
// within a single DB transaction, so neither row can exist without the other.
func (r *PgxPaymentRepository) RecordPayment(ctx context.Context, payment domain.Payment, txn *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if txn != nil {
		if err := insertTransaction(ctx, tx, *txn); err != nil {
			return err
		}
	}
	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// RecordInstallmentPayment applies the guarded paid_amount increment on the
// referenced installment and inserts the payment row (plus its optional
// linked ledger transaction) within a single DB transaction. A failure on any
// write rolls back the increment, so an installment can never show paid
// amount without a payment row behind it.
func (r *PgxPaymentRepository) RecordInstallmentPayment(ctx context.Context, payment domain.Payment, txn *domain.Transaction, updatedBy string) (*domain.Installment, error) {
	if payment.Ref.Kind != domain.RefInstallment {
		return nil, fmt.Errorf("%w: payment %s does not reference an installment", apperrors.ErrInternal, payment.PaymentID)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	installment, err := applyInstallmentPayment(ctx, tx, payment.Ref.ID, payment.Amount, updatedBy)
	if err != nil {
		return nil, err
	}
	if txn != nil {
		if err := insertTransaction(ctx, tx, *txn); err != nil {
			return nil, err
		}
	}
	if err := insertPayment(ctx, tx, payment); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return installment, nil
}

// FindPaymentByID retrieves a payment by its unique identifier.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	payment, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment %s not found", paymentID))
		}
		return nil, fmt.Errorf("failed to find payment by id %s: %w", paymentID, err)
	}
	return &payment, nil
}

// FindPaymentsByRef retrieves all payments applied against a target, ordered by date.
func (r *PgxPaymentRepository) FindPaymentsByRef(ctx context.Context, ref domain.PaymentRef) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE related_type = $1 AND related_id = $2 ORDER BY payment_date, payment_id;`
	rows, err := r.Pool.Query(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments of %s %s: %w", ref.Kind, ref.ID, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		return scanPayment(row)
	})
}

// ListPayments retrieves a token-paginated page of payments, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := []interface{}{limit + 1}
	query := `SELECT ` + paymentColumns + ` FROM payments`

	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, payment_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, payment_id DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan payments: %w", err)
	}

	var token *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[len(payments)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.PaymentID)
		token = &t
	}
	return payments, token, nil
}

// DeletePayment removes a payment row.
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("payment %s not found", paymentID))
	}
	return nil
}

// DeletePaymentsByRef removes all payments applied against a target.
func (r *PgxPaymentRepository) DeletePaymentsByRef(ctx context.Context, ref domain.PaymentRef) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE related_type = $1 AND related_id = $2;`, ref.Kind, ref.ID)
	if err != nil {
		return fmt.Errorf("failed to delete payments of %s %s: %w", ref.Kind, ref.ID, err)
	}
	return nil
}
