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

// paymentService records payments against installments, debts and milestones,
// keeps paid amounts and derived statuses consistent, and mirrors payments
// into the income/expense ledger on request.
type paymentService struct {
	paymentRepo     portsrepo.PaymentRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	debtRepo        portsrepo.DebtRepositoryFacade
	projectRepo     portsrepo.ProjectRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	debtSvc         portssvc.DebtStatusRecomputerSvc
}

// NewPaymentService creates a new payment ledger service.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	debtRepo portsrepo.DebtRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	debtSvc portssvc.DebtStatusRecomputerSvc,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		debtRepo:        debtRepo,
		projectRepo:     projectRepo,
		transactionRepo: transactionRepo,
		debtSvc:         debtSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// PayInstallment applies a payment against an installment. A payment that
// exceeds the installment's remaining amount is rejected whole; nothing is
// clamped. The paid-amount increment, the payment row and the optional linked
// transaction are written atomically, with the increment guarded so two
// concurrent payments that jointly overflow the installment cannot both
// succeed.
func (s *paymentService) PayInstallment(ctx context.Context, installmentID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}

	remaining := installment.Remaining()
	if req.Amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%w: payment amount %s exceeds remaining amount %s on installment",
			apperrors.ErrValidation, utils.FormatMoney(req.Amount), utils.FormatMoney(remaining))
	}

	debt, err := s.debtRepo.FindDebtByID(ctx, installment.DebtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s for installment payment: %w", installment.DebtID, err)
	}

	payment := s.newPayment(domain.InstallmentRef(installmentID), req, installment.CurrencyCode, actorUserID)

	var txn *domain.Transaction
	if req.CreateTransaction {
		txnType := domain.Expense
		if debt.Kind == domain.KindReceivable {
			txnType = domain.Income
		}
		t := s.newLinkedTransaction(txnType, payment, debt.PartyID, actorUserID)
		txn = &t
		payment.TransactionID = &t.TransactionID
	}

	updated, err := s.paymentRepo.RecordInstallmentPayment(ctx, payment, txn, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			// A concurrent payment consumed the remaining amount between our
			// read and the guarded update; re-read for an accurate message.
			if current, ferr := s.installmentRepo.FindInstallmentByID(ctx, installmentID); ferr == nil {
				remaining = current.Remaining()
			}
			return nil, fmt.Errorf("%w: payment amount %s exceeds remaining amount %s on installment",
				apperrors.ErrValidation, utils.FormatMoney(req.Amount), utils.FormatMoney(remaining))
		}
		return nil, fmt.Errorf("failed to record installment payment: %w", err)
	}

	if _, err := s.debtSvc.RecomputeDebtStatus(ctx, updated.DebtID, actorUserID); err != nil {
		logger.Error("Failed to recompute debt status after payment",
			slog.String("debt_id", updated.DebtID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("payment saved but debt status recompute failed: %w", err)
	}

	logger.Info("Installment payment recorded",
		slog.String("installment_id", installmentID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", req.Amount.String()))
	return &payment, nil
}

// PayDebt applies a payment directly against a debt with no schedule. Unlike
// installment payments, direct payments carry no remaining-amount cap; debts
// without installments are settled by eye, not by the engine.
func (s *paymentService) PayDebt(ctx context.Context, debtID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}

	payment := s.newPayment(domain.DebtRef(debtID), req, debt.CurrencyCode, actorUserID)

	var txn *domain.Transaction
	if req.CreateTransaction {
		txnType := domain.Expense
		if debt.Kind == domain.KindReceivable {
			txnType = domain.Income
		}
		t := s.newLinkedTransaction(txnType, payment, debt.PartyID, actorUserID)
		txn = &t
		payment.TransactionID = &t.TransactionID
	}

	if err := s.paymentRepo.RecordPayment(ctx, payment, txn); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logger.Info("Direct debt payment recorded",
		slog.String("debt_id", debtID), slog.String("payment_id", payment.PaymentID))
	return &payment, nil
}

// PayMilestone applies a payment against a project milestone.
func (s *paymentService) PayMilestone(ctx context.Context, milestoneID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	milestone, err := s.projectRepo.ApplyMilestonePayment(ctx, milestoneID, req.Amount, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment to milestone %s: %w", milestoneID, err)
	}

	payment := s.newPayment(domain.MilestoneRef(milestoneID), req, milestone.CurrencyCode, actorUserID)

	var txn *domain.Transaction
	if req.CreateTransaction {
		project, err := s.projectRepo.FindProjectByID(ctx, milestone.ProjectID)
		if err != nil {
			s.compensateMilestonePayment(ctx, milestoneID, req.Amount, actorUserID)
			return nil, fmt.Errorf("failed to find project %s: %w", milestone.ProjectID, err)
		}
		// Milestone payments are client billing, always income.
		t := s.newLinkedTransaction(domain.Income, payment, project.PartyID, actorUserID)
		txn = &t
		payment.TransactionID = &t.TransactionID
	}

	if err := s.paymentRepo.RecordPayment(ctx, payment, txn); err != nil {
		s.compensateMilestonePayment(ctx, milestoneID, req.Amount, actorUserID)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logger.Info("Milestone payment recorded",
		slog.String("milestone_id", milestoneID), slog.String("payment_id", payment.PaymentID))
	return &payment, nil
}

// ReversePayment undoes a payment: the target's paid amount is decremented
// (floored at zero), statuses recomputed, the linked ledger transaction
// deleted, and the payment row removed.
func (s *paymentService) ReversePayment(ctx context.Context, paymentID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}

	switch payment.Ref.Kind {
	case domain.RefInstallment:
		installment, err := s.installmentRepo.RevertPayment(ctx, payment.Ref.ID, payment.Amount, actorUserID)
		if err != nil {
			return fmt.Errorf("failed to revert installment payment: %w", err)
		}
		if _, err := s.debtSvc.RecomputeDebtStatus(ctx, installment.DebtID, actorUserID); err != nil {
			return fmt.Errorf("failed to recompute debt status after reversal: %w", err)
		}
	case domain.RefDebt:
		// Direct debt payments never mutated a paid amount; nothing to revert.
	case domain.RefMilestone:
		if _, err := s.projectRepo.RevertMilestonePayment(ctx, payment.Ref.ID, payment.Amount, actorUserID); err != nil {
			return fmt.Errorf("failed to revert milestone payment: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown payment reference kind %q", apperrors.ErrInternal, payment.Ref.Kind)
	}

	if payment.TransactionID != nil {
		if err := s.transactionRepo.DeleteTransaction(ctx, *payment.TransactionID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to delete linked transaction %s: %w", *payment.TransactionID, err)
		}
	}

	if err := s.paymentRepo.DeletePayment(ctx, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}

	logger.Info("Payment reversed", slog.String("payment_id", paymentID), slog.String("related_type", string(payment.Ref.Kind)))
	return nil
}

// GetPayment retrieves a single payment.
func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a token-paginated list of payments.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListParams) (*dto.ListPaymentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &dto.ListPaymentsResponse{
		Payments:  dto.ToPaymentResponses(payments),
		NextToken: nextToken,
	}, nil
}

func (s *paymentService) newPayment(ref domain.PaymentRef, req dto.PayRequest, currencyCode string, actorUserID string) domain.Payment {
	now := time.Now().UTC()
	return domain.Payment{
		PaymentID:    uuid.NewString(),
		Ref:          ref,
		Date:         req.Date,
		Amount:       req.Amount,
		CurrencyCode: currencyCode,
		Method:       req.Method,
		Notes:        req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
}

func (s *paymentService) newLinkedTransaction(txnType domain.TransactionType, payment domain.Payment, partyID string, actorUserID string) domain.Transaction {
	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          txnType,
		Date:          payment.Date,
		Amount:        payment.Amount,
		CurrencyCode:  payment.CurrencyCode,
		Category:      "payment",
		Description:   payment.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
	if partyID != "" {
		txn.PartyID = &partyID
	}
	return txn
}

// compensateMilestonePayment undoes the milestone paid_amount increment after
// a later write failed, so the milestone does not show paid amount with no
// payment row behind it.
func (s *paymentService) compensateMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, actorUserID string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if _, err := s.projectRepo.RevertMilestonePayment(ctx, milestoneID, amount, actorUserID); err != nil {
		logger.Error("Failed to revert milestone payment after write failure",
			slog.String("milestone_id", milestoneID), slog.String("error", err.Error()))
	}
}
