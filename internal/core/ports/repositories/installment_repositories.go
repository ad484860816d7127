package repositories

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InstallmentReader defines read operations for installment data
type InstallmentReader interface {
	// FindInstallmentByID retrieves an installment by its unique identifier.
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// FindInstallmentsByDebtID retrieves all installments of a debt ordered by due date.
	FindInstallmentsByDebtID(ctx context.Context, debtID string) ([]domain.Installment, error)
}

// InstallmentWriter defines write operations for installment data
type InstallmentWriter interface {
	// SaveInstallments inserts the batch row by row and returns how many rows
	// made it in. A partial insert is reported through the count, not rolled
	// back; callers surface it as a recoverable state.
	SaveInstallments(ctx context.Context, installments []domain.Installment) (int, error)

	// RevertPayment decrements paid_amount by amount, floored at zero, and
	// refreshes the derived status.
	RevertPayment(ctx context.Context, installmentID string, amount decimal.Decimal, updatedBy string) (*domain.Installment, error)

	// UpdateInstallment updates mutable fields (due date, notes).
	UpdateInstallment(ctx context.Context, installment domain.Installment) error

	// DeleteInstallment removes a single installment.
	DeleteInstallment(ctx context.Context, installmentID string) error
}

// InstallmentRepositoryFacade combines all installment-related repository interfaces
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
}
