package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// --- Test Suite ---
type DebtServiceTestSuite struct {
	suite.Suite
	mockDebtRepo        *MockDebtRepository
	mockInstallmentRepo *MockInstallmentRepository
	mockCurrencySvc     *MockCurrencyConverter
	service             portssvc.DebtSvcFacade
}

func (suite *DebtServiceTestSuite) SetupTest() {
	suite.mockDebtRepo = new(MockDebtRepository)
	suite.mockInstallmentRepo = new(MockInstallmentRepository)
	suite.mockCurrencySvc = new(MockCurrencyConverter)
	suite.service = services.NewDebtService(suite.mockDebtRepo, suite.mockInstallmentRepo, suite.mockCurrencySvc)
}

func identityConversion(amount decimal.Decimal) domain.Conversion {
	return domain.Conversion{
		ConvertedAmount: amount.Round(2),
		RateUsed:        decimal.NewFromInt(1),
	}
}

// --- Test Cases ---

func (suite *DebtServiceTestSuite) TestCreateDebt_Success() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	req := dto.CreateDebtRequest{
		Kind:            domain.KindDebt,
		PartyID:         uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("8000.005"),
		CurrencyCode:    "TRY",
		VATRate:         decimal.RequireFromString("20"),
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.mockDebtRepo.On("SaveDebt", ctx, mock.MatchedBy(func(d domain.Debt) bool {
		return d.Kind == domain.KindDebt &&
			d.Status == domain.DebtOpen &&
			d.PrincipalAmount.Equal(decimal.RequireFromString("8000.01")) &&
			d.CreatedBy == actorUserID
	})).Return(nil).Once()

	debt, err := suite.service.CreateDebt(ctx, req, actorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(debt)
	suite.Equal(domain.DebtOpen, debt.Status)
	suite.mockDebtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestCreateDebt_RejectsDueDateBeforeStartDate() {
	ctx := context.Background()
	req := dto.CreateDebtRequest{
		Kind:            domain.KindDebt,
		PartyID:         uuid.NewString(),
		PrincipalAmount: decimal.NewFromInt(100),
		CurrencyCode:    "TRY",
		StartDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	debt, err := suite.service.CreateDebt(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(debt)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "SaveDebt")
}

func (suite *DebtServiceTestSuite) TestRecomputeDebtStatus_ClosesWhenPaidReachesPrincipal() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("8000.00"),
		Status:          domain.DebtOpen,
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockDebtRepo.On("SumInstallmentPaid", ctx, debt.DebtID).Return(decimal.RequireFromString("8000.00"), nil).Once()
	suite.mockDebtRepo.On("UpdateDebtStatus", ctx, debt.DebtID, domain.DebtClosed, actorUserID).Return(nil).Once()

	closed, err := suite.service.RecomputeDebtStatus(ctx, debt.DebtID, actorUserID)

	suite.Require().NoError(err)
	suite.True(closed)
	suite.mockDebtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestRecomputeDebtStatus_StaysOpenBelowPrincipal() {
	ctx := context.Background()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("8000.00"),
		Status:          domain.DebtOpen,
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockDebtRepo.On("SumInstallmentPaid", ctx, debt.DebtID).Return(decimal.RequireFromString("7999.99"), nil).Once()

	closed, err := suite.service.RecomputeDebtStatus(ctx, debt.DebtID, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(closed)
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "UpdateDebtStatus")
}

func (suite *DebtServiceTestSuite) TestRecomputeDebtStatus_ReopensWhenPaymentReversed() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("1000.00"),
		Status:          domain.DebtClosed,
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockDebtRepo.On("SumInstallmentPaid", ctx, debt.DebtID).Return(decimal.RequireFromString("600.00"), nil).Once()
	suite.mockDebtRepo.On("UpdateDebtStatus", ctx, debt.DebtID, domain.DebtOpen, actorUserID).Return(nil).Once()

	closed, err := suite.service.RecomputeDebtStatus(ctx, debt.DebtID, actorUserID)

	suite.Require().NoError(err)
	suite.False(closed)
	suite.mockDebtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestRecomputeDebtStatus_IsIdempotent() {
	ctx := context.Background()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("1000.00"),
		Status:          domain.DebtClosed,
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Twice()
	suite.mockDebtRepo.On("SumInstallmentPaid", ctx, debt.DebtID).Return(decimal.RequireFromString("1000.00"), nil).Twice()

	for i := 0; i < 2; i++ {
		closed, err := suite.service.RecomputeDebtStatus(ctx, debt.DebtID, uuid.NewString())
		suite.Require().NoError(err)
		suite.True(closed)
	}
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "UpdateDebtStatus")
}

func (suite *DebtServiceTestSuite) TestCalculateRemaining_FlooredAtZero() {
	ctx := context.Background()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("1000.00"),
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	// Overshoot from a direct repo-level adjustment must not surface as negative.
	suite.mockDebtRepo.On("SumInstallmentPaid", ctx, debt.DebtID).Return(decimal.RequireFromString("1000.01"), nil).Once()

	remaining, err := suite.service.CalculateRemaining(ctx, debt.DebtID)

	suite.Require().NoError(err)
	suite.True(remaining.IsZero(), "got %s", remaining)
}

func (suite *DebtServiceTestSuite) TestCalculateRemaining_PartiallyPaid() {
	ctx := context.Background()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("5000.00"),
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockDebtRepo.On("SumInstallmentPaid", ctx, debt.DebtID).Return(decimal.RequireFromString("1250.50"), nil).Once()

	remaining, err := suite.service.CalculateRemaining(ctx, debt.DebtID)

	suite.Require().NoError(err)
	suite.True(remaining.Equal(decimal.RequireFromString("3749.50")), "got %s", remaining)
}

func (suite *DebtServiceTestSuite) TestGetDebtWithDetails_DerivedFigures() {
	ctx := context.Background()
	debt := &domain.Debt{
		DebtID:          uuid.NewString(),
		Kind:            domain.KindDebt,
		PrincipalAmount: decimal.RequireFromString("4000.00"),
		CurrencyCode:    "USD",
		Status:          domain.DebtOpen,
	}
	installments := []domain.Installment{
		{InstallmentID: uuid.NewString(), DebtID: debt.DebtID, Amount: decimal.RequireFromString("2000.00"), PaidAmount: decimal.RequireFromString("2000.00"), Status: domain.InstallmentPaid},
		{InstallmentID: uuid.NewString(), DebtID: debt.DebtID, Amount: decimal.RequireFromString("2000.00"), PaidAmount: decimal.RequireFromString("1000.00"), Status: domain.InstallmentPartial},
	}

	suite.mockDebtRepo.On("FindDebtByID", ctx, debt.DebtID).Return(debt, nil).Once()
	suite.mockInstallmentRepo.On("FindInstallmentsByDebtID", ctx, debt.DebtID).Return(installments, nil).Once()
	suite.mockCurrencySvc.On("ConvertToBase", ctx, debt.PrincipalAmount, "USD", mock.AnythingOfType("time.Time")).
		Return(domain.Conversion{ConvertedAmount: decimal.RequireFromString("128000.00"), RateUsed: decimal.RequireFromString("32.00")}, nil).Once()

	details, err := suite.service.GetDebtWithDetails(ctx, debt.DebtID)

	suite.Require().NoError(err)
	suite.True(details.TotalPaid.Equal(decimal.RequireFromString("3000.00")))
	suite.True(details.Remaining.Equal(decimal.RequireFromString("1000.00")))
	suite.True(details.PaymentPercentage.Equal(decimal.RequireFromString("75.00")), "got %s", details.PaymentPercentage)
	suite.True(details.PrincipalTRY.Equal(decimal.RequireFromString("128000.00")))
	suite.Len(details.Installments, 2)
}

func (suite *DebtServiceTestSuite) TestGetSummaryByCurrency_FoldsAndNets() {
	ctx := context.Background()
	totals := []domain.KindPrincipalTotal{
		{Kind: domain.KindDebt, CurrencyCode: "TRY", Principal: decimal.RequireFromString("10000.00")},
		{Kind: domain.KindDebt, CurrencyCode: "USD", Principal: decimal.RequireFromString("1000.00")},
		{Kind: domain.KindReceivable, CurrencyCode: "TRY", Principal: decimal.RequireFromString("50000.00")},
	}

	suite.mockDebtRepo.On("OpenPrincipalByKindAndCurrency", ctx).Return(totals, nil).Once()
	suite.mockCurrencySvc.On("ConvertToBase", ctx, totals[0].Principal, "TRY", mock.AnythingOfType("time.Time")).
		Return(identityConversion(totals[0].Principal), nil).Once()
	suite.mockCurrencySvc.On("ConvertToBase", ctx, totals[1].Principal, "USD", mock.AnythingOfType("time.Time")).
		Return(domain.Conversion{ConvertedAmount: decimal.RequireFromString("32000.00"), RateUsed: decimal.RequireFromString("32.00")}, nil).Once()
	suite.mockCurrencySvc.On("ConvertToBase", ctx, totals[2].Principal, "TRY", mock.AnythingOfType("time.Time")).
		Return(identityConversion(totals[2].Principal), nil).Once()

	summary, err := suite.service.GetSummaryByCurrency(ctx)

	suite.Require().NoError(err)
	suite.True(summary.Debt.TotalTRY.Equal(decimal.RequireFromString("42000.00")), "got %s", summary.Debt.TotalTRY)
	suite.True(summary.Receivable.TotalTRY.Equal(decimal.RequireFromString("50000.00")))
	suite.True(summary.NetPosition.Equal(decimal.RequireFromString("8000.00")), "net = receivable - debt, got %s", summary.NetPosition)
	suite.True(summary.Debt.ByCurrency["USD"].Equal(decimal.RequireFromString("1000.00")))
	suite.Empty(summary.RateWarning)
}

func (suite *DebtServiceTestSuite) TestGetSummaryByCurrency_CarriesFallbackWarning() {
	ctx := context.Background()
	totals := []domain.KindPrincipalTotal{
		{Kind: domain.KindDebt, CurrencyCode: "GBP", Principal: decimal.RequireFromString("100.00")},
	}

	suite.mockDebtRepo.On("OpenPrincipalByKindAndCurrency", ctx).Return(totals, nil).Once()
	suite.mockCurrencySvc.On("ConvertToBase", ctx, totals[0].Principal, "GBP", mock.AnythingOfType("time.Time")).
		Return(domain.Conversion{
			ConvertedAmount: totals[0].Principal,
			RateUsed:        decimal.NewFromInt(1),
			IsFallback:      true,
			Warning:         "no exchange rate available for GBP, amount kept unconverted",
		}, nil).Once()

	summary, err := suite.service.GetSummaryByCurrency(ctx)

	suite.Require().NoError(err)
	suite.NotEmpty(summary.RateWarning)
}

func (suite *DebtServiceTestSuite) TestGetSummaryByCurrency_SilentFallbackDoesNotMaskNoRateWarning() {
	ctx := context.Background()
	totals := []domain.KindPrincipalTotal{
		{Kind: domain.KindDebt, CurrencyCode: "USD", Principal: decimal.RequireFromString("1000.00")},
		{Kind: domain.KindDebt, CurrencyCode: "GBP", Principal: decimal.RequireFromString("100.00")},
	}

	suite.mockDebtRepo.On("OpenPrincipalByKindAndCurrency", ctx).Return(totals, nil).Once()
	// USD converts via an older rate: a fallback, but not worth a warning.
	suite.mockCurrencySvc.On("ConvertToBase", ctx, totals[0].Principal, "USD", mock.AnythingOfType("time.Time")).
		Return(domain.Conversion{
			ConvertedAmount: decimal.RequireFromString("32000.00"),
			RateUsed:        decimal.RequireFromString("32.00"),
			IsFallback:      true,
		}, nil).Once()
	suite.mockCurrencySvc.On("ConvertToBase", ctx, totals[1].Principal, "GBP", mock.AnythingOfType("time.Time")).
		Return(domain.Conversion{
			ConvertedAmount: totals[1].Principal,
			RateUsed:        decimal.NewFromInt(1),
			IsFallback:      true,
			Warning:         "no exchange rate available for GBP, amount kept unconverted",
		}, nil).Once()

	summary, err := suite.service.GetSummaryByCurrency(ctx)

	suite.Require().NoError(err)
	suite.Contains(summary.RateWarning, "GBP")
}

func (suite *DebtServiceTestSuite) TestDeleteDebt_Success() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	debtID := uuid.NewString()

	suite.mockDebtRepo.On("DeleteDebt", ctx, debtID).Return(nil).Once()

	err := suite.service.DeleteDebt(ctx, debtID, actorUserID)

	suite.Require().NoError(err)
	suite.mockDebtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestDeleteDebt_NotFound() {
	ctx := context.Background()
	debtID := uuid.NewString()

	suite.mockDebtRepo.On("DeleteDebt", ctx, debtID).Return(apperrors.NewNotFoundError("debt not found")).Once()

	err := suite.service.DeleteDebt(ctx, debtID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestDebtService(t *testing.T) {
	suite.Run(t, new(DebtServiceTestSuite))
}
