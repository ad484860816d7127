package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils"
)

// installmentService splits debt principals into payment schedules.
type installmentService struct {
	debtRepo        portsrepo.DebtRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	debtSvc         portssvc.DebtStatusRecomputerSvc
}

// NewInstallmentService creates a new installment scheduling service.
func NewInstallmentService(installmentRepo portsrepo.InstallmentRepositoryFacade, debtRepo portsrepo.DebtRepositoryFacade, debtSvc portssvc.DebtStatusRecomputerSvc) portssvc.InstallmentSvcFacade {
	return &installmentService{
		debtRepo:        debtRepo,
		installmentRepo: installmentRepo,
		debtSvc:         debtSvc,
	}
}

var _ portssvc.InstallmentSvcFacade = (*installmentService)(nil)

// addMonthsClamped adds calendar months, clamping the day to the last valid
// day of the target month (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// CreateInstallments splits the debt's principal into count equal installments
// rounded to 2 decimal places, with the rounding remainder absorbed by the
// last installment so the batch sums exactly to the principal. Due dates step
// by calendar months from startDate.
//
// Inserts are row by row; when some rows fail the outcome is reported as a
// partial batch rather than rolled back.
func (s *installmentService) CreateInstallments(ctx context.Context, debtID string, count int, startDate time.Time, actorUserID string) (*dto.CreateInstallmentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if count < 1 {
		return nil, fmt.Errorf("%w: installment count must be at least 1, got %d", apperrors.ErrValidation, count)
	}

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}

	if startDate.IsZero() {
		startDate = debt.StartDate
	}

	base := debt.PrincipalAmount.Div(decimal.NewFromInt(int64(count))).Round(2)
	last := debt.PrincipalAmount.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))
	if last.LessThanOrEqual(decimal.Zero) {
		// Rounding a tiny per-installment share up can push the first
		// count-1 installments past the principal, driving the
		// remainder-absorbing last one to zero or below.
		return nil, fmt.Errorf("%w: %d installments over a principal of %s leave a non-positive last installment",
			apperrors.ErrValidation, count, utils.FormatMoney(debt.PrincipalAmount))
	}
	now := time.Now().UTC()

	installments := make([]domain.Installment, count)
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			// Last installment absorbs the rounding remainder so that the
			// schedule sums to the principal to the cent.
			amount = last
		}
		installments[i] = domain.Installment{
			InstallmentID: uuid.NewString(),
			DebtID:        debt.DebtID,
			DueDate:       addMonthsClamped(startDate, i),
			Amount:        amount,
			CurrencyCode:  debt.CurrencyCode,
			Status:        domain.InstallmentPending,
			PaidAmount:    decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
	}

	created, err := s.installmentRepo.SaveInstallments(ctx, installments)
	if err != nil {
		if created == 0 {
			logger.Error("Failed to create any installments", slog.String("debt_id", debtID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to create installments: %w", err)
		}
		// Partial creation is a visible, recoverable state for the caller.
		logger.Warn("Installment batch partially created",
			slog.String("debt_id", debtID), slog.Int("requested", count), slog.Int("created", created), slog.String("error", err.Error()))
	} else {
		logger.Info("Installments created", slog.String("debt_id", debtID), slog.Int("count", created))
	}

	return &dto.CreateInstallmentsResponse{
		Success:      created == count,
		Created:      created,
		Installments: dto.ToInstallmentResponses(installments[:created]),
	}, nil
}

// GetInstallment retrieves a single installment.
func (s *installmentService) GetInstallment(ctx context.Context, installmentID string) (*domain.Installment, error) {
	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}
	return installment, nil
}

// UpdateInstallment updates an installment's due date and notes. Amount and
// paid amount only move through the scheduler and the payment ledger.
func (s *installmentService) UpdateInstallment(ctx context.Context, installmentID string, req dto.UpdateInstallmentRequest, actorUserID string) (*domain.Installment, error) {
	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}

	updated := false
	if req.DueDate != nil {
		installment.DueDate = *req.DueDate
		updated = true
	}
	if req.Notes != nil {
		installment.Notes = *req.Notes
		updated = true
	}
	if !updated {
		return installment, nil
	}

	installment.LastUpdatedAt = time.Now().UTC()
	installment.LastUpdatedBy = actorUserID

	if err := s.installmentRepo.UpdateInstallment(ctx, *installment); err != nil {
		return nil, fmt.Errorf("failed to update installment %s: %w", installmentID, err)
	}
	return installment, nil
}

// DeleteInstallment removes an installment and recomputes the owning debt's
// status, since the deletion changes the installment paid sum.
func (s *installmentService) DeleteInstallment(ctx context.Context, installmentID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}

	if err := s.installmentRepo.DeleteInstallment(ctx, installmentID); err != nil {
		return fmt.Errorf("failed to delete installment %s: %w", installmentID, err)
	}

	if _, err := s.debtSvc.RecomputeDebtStatus(ctx, installment.DebtID, actorUserID); err != nil {
		logger.Error("Failed to recompute debt status after installment deletion",
			slog.String("debt_id", installment.DebtID), slog.String("error", err.Error()))
		return fmt.Errorf("installment deleted but debt status recompute failed: %w", err)
	}

	logger.Info("Installment deleted", slog.String("installment_id", installmentID), slog.String("debt_id", installment.DebtID))
	return nil
}
