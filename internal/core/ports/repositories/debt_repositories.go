package repositories

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DebtReader defines read operations for debt data
type DebtReader interface {
	// FindDebtByID retrieves a debt by its unique identifier.
	FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// ListDebts retrieves a token-paginated list of debts, newest first.
	ListDebts(ctx context.Context, limit int, nextToken *string) ([]domain.Debt, *string, error)

	// SumInstallmentPaid returns the sum of paid_amount across the debt's
	// installments; zero when no installments exist.
	SumInstallmentPaid(ctx context.Context, debtID string) (decimal.Decimal, error)

	// OpenPrincipalByKindAndCurrency groups open debts into (kind, currency)
	// principal buckets for the summary report.
	OpenPrincipalByKindAndCurrency(ctx context.Context) ([]domain.KindPrincipalTotal, error)
}

// DebtWriter defines write operations for debt data
type DebtWriter interface {
	// SaveDebt persists a new debt.
	SaveDebt(ctx context.Context, debt domain.Debt) error

	// UpdateDebt updates mutable fields of a debt.
	UpdateDebt(ctx context.Context, debt domain.Debt) error

	// UpdateDebtStatus sets the derived open/closed status.
	UpdateDebtStatus(ctx context.Context, debtID string, status domain.DebtStatus, updatedBy string) error

	// DeleteDebt removes a debt; its installments cascade at the schema level.
	DeleteDebt(ctx context.Context, debtID string) error
}

// DebtRepositoryFacade combines all debt-related repository interfaces
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}
