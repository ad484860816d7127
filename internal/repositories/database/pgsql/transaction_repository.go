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
	"github.com/kyigitoglu/debt_ledger_app/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, type, transaction_date, amount, currency_code, category, party_id, description, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.Type,
		&t.Date,
		&t.Amount,
		&t.CurrencyCode,
		&t.Category,
		&t.PartyID,
		&t.Description,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// insertTransaction writes a transaction row through the given connection,
// which may be a transaction.
func insertTransaction(ctx context.Context, db dbConn, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := db.Exec(ctx, query,
		txn.TransactionID,
		txn.Type,
		txn.Date,
		txn.Amount,
		txn.CurrencyCode,
		txn.Category,
		txn.PartyID,
		txn.Description,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// SaveTransaction inserts a new transaction record.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, r.Pool, txn)
}

// FindTransactionByID retrieves a transaction by its unique identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction by id %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactions retrieves a token-paginated page of transactions within
// the date range, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, from, to time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []interface{}{limit + 1, from, to}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_date >= $2 AND transaction_date <= $3`

	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, transaction_id) < ($4, $5)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}

// MonthlyTotals groups transactions into (year, month, type, currency) sums
// within the date range.
func (r *PgxTransactionRepository) MonthlyTotals(ctx context.Context, from, to time.Time) ([]domain.MonthlyTypeTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM transaction_date)::int,
			EXTRACT(MONTH FROM transaction_date)::int,
			type, currency_code, SUM(amount)
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		GROUP BY 1, 2, 3, 4
		ORDER BY 1, 2, 3, 4;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MonthlyTypeTotal, error) {
		var t domain.MonthlyTypeTotal
		err := row.Scan(&t.Year, &t.Month, &t.Type, &t.CurrencyCode, &t.Total)
		return t, err
	})
}

// DeleteTransaction removes a transaction row.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	return nil
}
