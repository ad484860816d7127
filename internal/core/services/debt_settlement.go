package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
)

// debtService owns the lifecycle and derived state of debts and receivables.
// A debt's open/closed status is never set by hand; it is recomputed from the
// sum of installment payments. Direct payments against a debt deliberately do
// not feed that sum.
type debtService struct {
	debtRepo        portsrepo.DebtRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	currencySvc     portssvc.CurrencyConverterSvc
}

// NewDebtService creates a new debt settlement service.
func NewDebtService(
	debtRepo portsrepo.DebtRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	currencySvc portssvc.CurrencyConverterSvc,
) portssvc.DebtSvcFacade {
	return &debtService{
		debtRepo:        debtRepo,
		installmentRepo: installmentRepo,
		currencySvc:     currencySvc,
	}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

// CreateDebt persists a new debt or receivable. New debts always start open.
func (s *debtService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, actorUserID string) (*domain.Debt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PrincipalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: principal amount must be positive", apperrors.ErrValidation)
	}
	if req.VATRate.IsNegative() {
		return nil, fmt.Errorf("%w: VAT rate cannot be negative", apperrors.ErrValidation)
	}
	if req.DueDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: due date cannot precede start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	debt := domain.Debt{
		DebtID:          uuid.NewString(),
		Kind:            req.Kind,
		PartyID:         req.PartyID,
		PrincipalAmount: req.PrincipalAmount.Round(2),
		CurrencyCode:    req.CurrencyCode,
		VATRate:         req.VATRate,
		StartDate:       req.StartDate,
		DueDate:         req.DueDate,
		Status:          domain.DebtOpen,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.debtRepo.SaveDebt(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to save debt: %w", err)
	}

	logger.Info("Debt created",
		slog.String("debt_id", debt.DebtID),
		slog.String("kind", string(debt.Kind)),
		slog.String("currency", debt.CurrencyCode))
	return &debt, nil
}

// UpdateDebt applies the provided mutable fields. Principal and currency are
// fixed at creation; installments would go stale otherwise.
func (s *debtService) UpdateDebt(ctx context.Context, debtID string, req dto.UpdateDebtRequest, actorUserID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}

	if req.PartyID != nil {
		debt.PartyID = *req.PartyID
	}
	if req.VATRate != nil {
		if req.VATRate.IsNegative() {
			return nil, fmt.Errorf("%w: VAT rate cannot be negative", apperrors.ErrValidation)
		}
		debt.VATRate = *req.VATRate
	}
	if req.DueDate != nil {
		debt.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		debt.Notes = *req.Notes
	}
	debt.LastUpdatedAt = time.Now().UTC()
	debt.LastUpdatedBy = actorUserID

	if err := s.debtRepo.UpdateDebt(ctx, *debt); err != nil {
		return nil, fmt.Errorf("failed to update debt %s: %w", debtID, err)
	}
	return debt, nil
}

// DeleteDebt removes a debt together with its installments and payment
// history. The repository performs the whole removal in one transaction.
func (s *debtService) DeleteDebt(ctx context.Context, debtID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.debtRepo.DeleteDebt(ctx, debtID); err != nil {
		return fmt.Errorf("failed to delete debt %s: %w", debtID, err)
	}

	logger.Info("Debt deleted", slog.String("debt_id", debtID), slog.String("deleted_by", actorUserID))
	return nil
}

// GetDebtByID retrieves a bare debt record.
func (s *debtService) GetDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}
	return debt, nil
}

// GetDebtWithDetails retrieves a debt and its installments together with the
// derived figures the detail screen shows.
func (s *debtService) GetDebtWithDetails(ctx context.Context, debtID string) (*dto.DebtDetailsResponse, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}

	installments, err := s.installmentRepo.FindInstallmentsByDebtID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments of debt %s: %w", debtID, err)
	}

	totalPaid := decimal.Zero
	for _, inst := range installments {
		totalPaid = totalPaid.Add(inst.PaidAmount)
	}

	remaining := debt.PrincipalAmount.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percentage := decimal.Zero
	if debt.PrincipalAmount.IsPositive() {
		percentage = totalPaid.Div(debt.PrincipalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	conv, err := s.currencySvc.ConvertToBase(ctx, debt.PrincipalAmount, debt.CurrencyCode, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to convert principal of debt %s: %w", debtID, err)
	}

	return &dto.DebtDetailsResponse{
		DebtResponse:      dto.ToDebtResponse(debt),
		Installments:      dto.ToInstallmentResponses(installments),
		TotalPaid:         totalPaid,
		Remaining:         remaining,
		PaymentPercentage: percentage,
		PrincipalTRY:      conv.ConvertedAmount,
		RateWarning:       conv.Warning,
	}, nil
}

// ListDebts retrieves a token-paginated list of debts.
func (s *debtService) ListDebts(ctx context.Context, params dto.ListParams) (*dto.ListDebtsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	debts, nextToken, err := s.debtRepo.ListDebts(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return &dto.ListDebtsResponse{
		Debts:     dto.ToDebtResponses(debts),
		NextToken: nextToken,
	}, nil
}

// RecomputeDebtStatus re-derives the open/closed status of a debt from the
// sum of installment payments. It is safe to call after any payment mutation
// and writes only when the status actually changed.
func (s *debtService) RecomputeDebtStatus(ctx context.Context, debtID string, actorUserID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return false, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}

	totalPaid, err := s.debtRepo.SumInstallmentPaid(ctx, debtID)
	if err != nil {
		return false, fmt.Errorf("failed to sum installment payments of debt %s: %w", debtID, err)
	}

	status := domain.DebtOpen
	if totalPaid.GreaterThanOrEqual(debt.PrincipalAmount) {
		status = domain.DebtClosed
	}

	if status != debt.Status {
		if err := s.debtRepo.UpdateDebtStatus(ctx, debtID, status, actorUserID); err != nil {
			return false, fmt.Errorf("failed to update status of debt %s: %w", debtID, err)
		}
		logger.Info("Debt status changed",
			slog.String("debt_id", debtID),
			slog.String("status", string(status)),
			slog.String("total_paid", totalPaid.String()))
	}

	return status == domain.DebtClosed, nil
}

// CalculateRemaining returns principal minus the summed installment payments,
// floored at zero so rounding overshoot never shows a negative balance.
func (s *debtService) CalculateRemaining(ctx context.Context, debtID string) (decimal.Decimal, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}

	totalPaid, err := s.debtRepo.SumInstallmentPaid(ctx, debtID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum installment payments of debt %s: %w", debtID, err)
	}

	remaining := debt.PrincipalAmount.Sub(totalPaid)
	if remaining.IsNegative() {
		return decimal.Zero, nil
	}
	return remaining, nil
}

// GetSummaryByCurrency groups open principal into per-currency buckets for
// debts and receivables, folds each bucket into TRY at today's rate and
// reports the net position. Missing rates degrade per bucket with a warning
// instead of failing the report.
func (s *debtService) GetSummaryByCurrency(ctx context.Context) (*dto.DebtSummaryResponse, error) {
	totals, err := s.debtRepo.OpenPrincipalByKindAndCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open principal totals: %w", err)
	}

	now := time.Now().UTC()
	debtBuckets := dto.CurrencyBuckets{ByCurrency: map[string]decimal.Decimal{}, TotalTRY: decimal.Zero}
	receivableBuckets := dto.CurrencyBuckets{ByCurrency: map[string]decimal.Decimal{}, TotalTRY: decimal.Zero}
	var warnings []string
	seenWarnings := map[string]bool{}

	for _, t := range totals {
		conv, err := s.currencySvc.ConvertToBase(ctx, t.Principal, t.CurrencyCode, now)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s bucket: %w", t.CurrencyCode, err)
		}
		// A fallback with an empty warning (an older rate was found) must not
		// occupy the slot a genuine no-rate warning needs.
		if conv.Warning != "" && !seenWarnings[conv.Warning] {
			seenWarnings[conv.Warning] = true
			warnings = append(warnings, conv.Warning)
		}

		switch t.Kind {
		case domain.KindDebt:
			debtBuckets.ByCurrency[t.CurrencyCode] = debtBuckets.ByCurrency[t.CurrencyCode].Add(t.Principal)
			debtBuckets.TotalTRY = debtBuckets.TotalTRY.Add(conv.ConvertedAmount)
		case domain.KindReceivable:
			receivableBuckets.ByCurrency[t.CurrencyCode] = receivableBuckets.ByCurrency[t.CurrencyCode].Add(t.Principal)
			receivableBuckets.TotalTRY = receivableBuckets.TotalTRY.Add(conv.ConvertedAmount)
		}
	}

	return &dto.DebtSummaryResponse{
		Debt:        debtBuckets,
		Receivable:  receivableBuckets,
		NetPosition: receivableBuckets.TotalTRY.Sub(debtBuckets.TotalTRY),
		RateWarning: strings.Join(warnings, "; "),
	}, nil
}
