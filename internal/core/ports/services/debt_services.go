package services

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// DebtStatusRecomputerSvc is the narrow dependency the payment ledger needs:
// it re-derives a debt's open/closed status from installment payment state.
type DebtStatusRecomputerSvc interface {
	// RecomputeDebtStatus is idempotent; it returns true when the debt is
	// closed after recomputation.
	RecomputeDebtStatus(ctx context.Context, debtID string, actorUserID string) (bool, error)
}

// DebtReaderSvc defines read operations for debt data.
type DebtReaderSvc interface {
	// GetDebtByID retrieves a bare debt record.
	GetDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// GetDebtWithDetails retrieves a debt with its installments, paid totals,
	// remaining balance, payment percentage and TRY principal.
	GetDebtWithDetails(ctx context.Context, debtID string) (*dto.DebtDetailsResponse, error)

	// ListDebts retrieves a token-paginated list of debts.
	ListDebts(ctx context.Context, params dto.ListParams) (*dto.ListDebtsResponse, error)

	// CalculateRemaining returns principal minus summed installment payments,
	// floored at zero.
	CalculateRemaining(ctx context.Context, debtID string) (decimal.Decimal, error)

	// GetSummaryByCurrency groups open debts/receivables into per-currency
	// principal buckets and folds them into TRY at today's rate.
	GetSummaryByCurrency(ctx context.Context) (*dto.DebtSummaryResponse, error)
}

// DebtWriterSvc defines write operations for debt data.
type DebtWriterSvc interface {
	// CreateDebt persists a new open debt.
	CreateDebt(ctx context.Context, req dto.CreateDebtRequest, actorUserID string) (*domain.Debt, error)

	// UpdateDebt updates mutable fields of a debt.
	UpdateDebt(ctx context.Context, debtID string, req dto.UpdateDebtRequest, actorUserID string) (*domain.Debt, error)

	// DeleteDebt removes a debt and, through the schema, its installments.
	DeleteDebt(ctx context.Context, debtID string, actorUserID string) error
}

// DebtSvcFacade combines all debt-related service interfaces.
type DebtSvcFacade interface {
	DebtReaderSvc
	DebtWriterSvc
	DebtStatusRecomputerSvc
}
