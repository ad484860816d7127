package repositories

import (
	"context"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a token-paginated list of transactions within
	// the date range, newest first.
	ListTransactions(ctx context.Context, from, to time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// MonthlyTotals groups transactions into (year, month, type, currency)
	// sums within the date range.
	MonthlyTotals(ctx context.Context, from, to time.Time) ([]domain.MonthlyTypeTotal, error)
}

// TransactionWriter defines write operations for ledger transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction row.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
