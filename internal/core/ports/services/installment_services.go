package services

import (
	"context"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// InstallmentSvcFacade defines the installment scheduling operations.
type InstallmentSvcFacade interface {
	// CreateInstallments splits a debt's principal into count installments
	// with calendar-month due date spacing. The rounding remainder lands in
	// the last installment so the batch sums exactly to the principal.
	// A partial insert is reported, not rolled back.
	CreateInstallments(ctx context.Context, debtID string, count int, startDate time.Time, actorUserID string) (*dto.CreateInstallmentsResponse, error)

	// GetInstallment retrieves a single installment.
	GetInstallment(ctx context.Context, installmentID string) (*domain.Installment, error)

	// UpdateInstallment updates due date and notes of an installment.
	UpdateInstallment(ctx context.Context, installmentID string, req dto.UpdateInstallmentRequest, actorUserID string) (*domain.Installment, error)

	// DeleteInstallment removes an installment and recomputes the owning
	// debt's status.
	DeleteInstallment(ctx context.Context, installmentID string, actorUserID string) error
}
