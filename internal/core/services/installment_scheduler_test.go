package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// --- Test Suite ---
type InstallmentServiceTestSuite struct {
	suite.Suite
	mockInstallmentRepo *MockInstallmentRepository
	mockDebtRepo        *MockDebtRepository
	mockDebtSvc         *MockDebtStatusRecomputer
	service             portssvc.InstallmentSvcFacade
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.mockInstallmentRepo = new(MockInstallmentRepository)
	suite.mockDebtRepo = new(MockDebtRepository)
	suite.mockDebtSvc = new(MockDebtStatusRecomputer)
	suite.service = services.NewInstallmentService(suite.mockInstallmentRepo, suite.mockDebtRepo, suite.mockDebtSvc)
}

func newTestDebt(principal string, currency string, startDate time.Time) *domain.Debt {
	return &domain.Debt{
		DebtID:          uuid.NewString(),
		Kind:            domain.KindDebt,
		PartyID:         uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString(principal),
		CurrencyCode:    currency,
		StartDate:       startDate,
		DueDate:         startDate.AddDate(1, 0, 0),
		Status:          domain.DebtOpen,
	}
}

// --- Test Cases ---

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_EvenSplit() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt("12000.00", "TRY", start)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()

	var captured []domain.Installment
	suite.mockInstallmentRepo.On("SaveInstallments", ctx, mock.MatchedBy(func(batch []domain.Installment) bool {
		captured = batch
		return len(batch) == 6
	})).Return(6, nil).Once()

	resp, err := suite.service.CreateInstallments(ctx, debt.DebtID, 6, start, actorUserID)

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.Equal(6, resp.Created)
	suite.Len(resp.Installments, 6)

	expected := decimal.RequireFromString("2000.00")
	total := decimal.Zero
	for i, inst := range captured {
		suite.True(inst.Amount.Equal(expected), "installment %d: got %s", i, inst.Amount)
		suite.Equal(debt.DebtID, inst.DebtID)
		suite.Equal(domain.InstallmentPending, inst.Status)
		suite.True(inst.PaidAmount.IsZero())
		suite.Equal(start.AddDate(0, i, 0), inst.DueDate)
		total = total.Add(inst.Amount)
	}
	suite.True(total.Equal(debt.PrincipalAmount))
	suite.mockDebtRepo.AssertExpectations(suite.T())
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_LastAbsorbsRemainder() {
	ctx := context.Background()
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt("10000.00", "USD", start)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()

	var captured []domain.Installment
	suite.mockInstallmentRepo.On("SaveInstallments", ctx, mock.MatchedBy(func(batch []domain.Installment) bool {
		captured = batch
		return len(batch) == 3
	})).Return(3, nil).Once()

	resp, err := suite.service.CreateInstallments(ctx, debt.DebtID, 3, start, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.Require().Len(captured, 3)
	suite.True(captured[0].Amount.Equal(decimal.RequireFromString("3333.33")), "got %s", captured[0].Amount)
	suite.True(captured[1].Amount.Equal(decimal.RequireFromString("3333.33")), "got %s", captured[1].Amount)
	suite.True(captured[2].Amount.Equal(decimal.RequireFromString("3333.34")), "got %s", captured[2].Amount)

	total := captured[0].Amount.Add(captured[1].Amount).Add(captured[2].Amount)
	suite.True(total.Equal(debt.PrincipalAmount), "schedule must sum to the principal exactly")
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_DueDateClampsToMonthEnd() {
	ctx := context.Background()
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt("3000.00", "TRY", start)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()

	var captured []domain.Installment
	suite.mockInstallmentRepo.On("SaveInstallments", ctx, mock.MatchedBy(func(batch []domain.Installment) bool {
		captured = batch
		return len(batch) == 3
	})).Return(3, nil).Once()

	_, err := suite.service.CreateInstallments(ctx, debt.DebtID, 3, start, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(captured, 3)
	suite.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), captured[0].DueDate)
	// 2024 is a leap year: Jan 31 + 1 month clamps to Feb 29, not Mar 2.
	suite.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), captured[1].DueDate)
	suite.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), captured[2].DueDate)
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_RejectsNonPositiveCount() {
	ctx := context.Background()

	resp, err := suite.service.CreateInstallments(ctx, uuid.NewString(), 0, time.Now(), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "FindDebtByID")
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_RejectsCountPastPrincipalCents() {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// 0.04 / 7 rounds to 0.01 per installment; six of those already exceed
	// the principal, which would push the remainder-absorbing last
	// installment to -0.02.
	debt := newTestDebt("0.04", "TRY", start)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()

	resp, err := suite.service.CreateInstallments(ctx, debt.DebtID, 7, start, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "SaveInstallments")
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_DebtNotFound() {
	ctx := context.Background()
	debtID := uuid.NewString()

	suite.mockDebtRepo.On("FindDebtByID", ctx, debtID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.CreateInstallments(ctx, debtID, 3, time.Now(), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "SaveInstallments")
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_PartialBatchReportedNotRolledBack() {
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt("4000.00", "TRY", start)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockInstallmentRepo.On("SaveInstallments", ctx, mock.AnythingOfType("[]domain.Installment")).
		Return(2, assert.AnError).Once()

	resp, err := suite.service.CreateInstallments(ctx, debt.DebtID, 4, start, uuid.NewString())

	suite.Require().NoError(err, "a partial batch is reported, not failed")
	suite.False(resp.Success)
	suite.Equal(2, resp.Created)
	suite.Len(resp.Installments, 2, "only the rows that made it in are returned")
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_TotalInsertFailure() {
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt("4000.00", "TRY", start)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockInstallmentRepo.On("SaveInstallments", ctx, mock.AnythingOfType("[]domain.Installment")).
		Return(0, assert.AnError).Once()

	resp, err := suite.service.CreateInstallments(ctx, debt.DebtID, 4, start, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *InstallmentServiceTestSuite) TestCreateInstallments_ZeroStartDateUsesDebtStartDate() {
	ctx := context.Background()
	debtStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt("1000.00", "TRY", debtStart)

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()

	var captured []domain.Installment
	suite.mockInstallmentRepo.On("SaveInstallments", ctx, mock.MatchedBy(func(batch []domain.Installment) bool {
		captured = batch
		return len(batch) == 1
	})).Return(1, nil).Once()

	_, err := suite.service.CreateInstallments(ctx, debt.DebtID, 1, time.Time{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(captured, 1)
	suite.Equal(debtStart, captured[0].DueDate)
}

func (suite *InstallmentServiceTestSuite) TestDeleteInstallment_RecomputesDebtStatus() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	installment := &domain.Installment{
		InstallmentID: uuid.NewString(),
		DebtID:        uuid.NewString(),
		Amount:        decimal.RequireFromString("500.00"),
		PaidAmount:    decimal.RequireFromString("500.00"),
		Status:        domain.InstallmentPaid,
	}

	suite.mockInstallmentRepo.On("FindInstallmentByID", ctx, installment.InstallmentID).Return(installment, nil).Once()
	suite.mockInstallmentRepo.On("DeleteInstallment", ctx, installment.InstallmentID).Return(nil).Once()
	suite.mockDebtSvc.On("RecomputeDebtStatus", ctx, installment.DebtID, actorUserID).Return(false, nil).Once()

	err := suite.service.DeleteInstallment(ctx, installment.InstallmentID, actorUserID)

	suite.Require().NoError(err)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
	suite.mockDebtSvc.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestUpdateInstallment_NoFieldsIsNoOp() {
	ctx := context.Background()
	installment := &domain.Installment{
		InstallmentID: uuid.NewString(),
		DebtID:        uuid.NewString(),
		Amount:        decimal.RequireFromString("500.00"),
	}

	suite.mockInstallmentRepo.On("FindInstallmentByID", ctx, installment.InstallmentID).Return(installment, nil).Once()

	got, err := suite.service.UpdateInstallment(ctx, installment.InstallmentID, dto.UpdateInstallmentRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(installment.InstallmentID, got.InstallmentID)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "UpdateInstallment")
}

// --- Run Suite ---
func TestInstallmentService(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}
