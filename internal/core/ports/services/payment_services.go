package services

import (
	"context"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// PaymentSvcFacade defines the payment ledger operations.
type PaymentSvcFacade interface {
	// PayInstallment applies a payment against an installment. Payments that
	// exceed the installment's remaining amount are rejected outright with a
	// validation error carrying the remaining figure.
	PayInstallment(ctx context.Context, installmentID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error)

	// PayDebt applies a payment directly against a debt that has no schedule.
	// Direct payments are not capped against the principal.
	PayDebt(ctx context.Context, debtID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error)

	// PayMilestone applies a payment against a project milestone.
	PayMilestone(ctx context.Context, milestoneID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error)

	// ReversePayment undoes a payment: the related target's paid amount is
	// decremented (floored at zero), statuses are recomputed, any linked
	// ledger transaction is deleted, and the payment row is removed.
	ReversePayment(ctx context.Context, paymentID string, actorUserID string) error

	// GetPayment retrieves a single payment.
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a token-paginated list of payments.
	ListPayments(ctx context.Context, params dto.ListParams) (*dto.ListPaymentsResponse, error)
}
