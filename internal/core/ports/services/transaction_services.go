package services

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// TransactionSvcFacade defines the income/expense ledger operations.
type TransactionSvcFacade interface {
	// CreateTransaction persists a new income or expense record.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorUserID string) (*domain.Transaction, error)

	// GetTransaction retrieves a single transaction.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions within a date range.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// DeleteTransaction removes a transaction. Payment-linked transactions are
	// removed through payment reversal instead.
	DeleteTransaction(ctx context.Context, transactionID string, actorUserID string) error
}
