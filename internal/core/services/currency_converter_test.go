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

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRateOn(ctx context.Context, quoteCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, quoteCurrency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindRateBefore(ctx context.Context, quoteCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, quoteCurrency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestRate(ctx context.Context, quoteCurrency string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, quoteCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListRates(ctx context.Context, quoteCurrency string, limit int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, quoteCurrency, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExchangeRateRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExchangeRateRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

func usdRate(date time.Time, rate string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ExchangeRateID:    uuid.NewString(),
		RateDate:          date,
		BaseCurrencyCode:  domain.BaseCurrencyCode,
		QuoteCurrencyCode: "USD",
		Rate:              decimal.RequireFromString(rate),
		Source:            domain.SourceManual,
	}
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestConvertToBase_BaseCurrencyPassthrough() {
	ctx := context.Background()
	amount := decimal.RequireFromString("123.456")

	conv, err := suite.service.ConvertToBase(ctx, amount, "TRY", time.Now())

	suite.Require().NoError(err)
	suite.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("123.46")))
	suite.True(conv.RateUsed.Equal(decimal.NewFromInt(1)))
	suite.False(conv.IsFallback)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindRateOn")
}

func (suite *CurrencyServiceTestSuite) TestConvertToBase_ExactDateMatch() {
	ctx := context.Background()
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	rate := usdRate(date, "32.50")

	suite.mockRepo.On("FindRateOn", ctx, "USD", date).Return(rate, nil).Once()

	conv, err := suite.service.ConvertToBase(ctx, decimal.NewFromInt(100), "usd", date)

	suite.Require().NoError(err)
	suite.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("3250.00")), "got %s", conv.ConvertedAmount)
	suite.True(conv.RateUsed.Equal(rate.Rate))
	suite.False(conv.IsFallback)
	suite.Require().NotNil(conv.RateDate)
	suite.Equal(date, *conv.RateDate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvertToBase_FallsBackToMostRecentEarlierRate() {
	ctx := context.Background()
	askDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rate := usdRate(earlier, "32.00")

	suite.mockRepo.On("FindRateOn", ctx, "USD", askDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindRateBefore", ctx, "USD", askDate).Return(rate, nil).Once()

	conv, err := suite.service.ConvertToBase(ctx, decimal.NewFromInt(100), "USD", askDate)

	suite.Require().NoError(err)
	suite.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("3200.00")), "got %s", conv.ConvertedAmount)
	suite.False(conv.IsFallback, "earlier-dated rate is not the global fallback")
	suite.Require().NotNil(conv.RateDate)
	suite.Equal(earlier, *conv.RateDate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvertToBase_LatestRateFallbackIsFlagged() {
	ctx := context.Background()
	askDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	latest := usdRate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "33.10")

	suite.mockRepo.On("FindRateOn", ctx, "USD", askDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindRateBefore", ctx, "USD", askDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "USD").Return(latest, nil).Once()

	conv, err := suite.service.ConvertToBase(ctx, decimal.NewFromInt(10), "USD", askDate)

	suite.Require().NoError(err)
	suite.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("331.00")), "got %s", conv.ConvertedAmount)
	suite.True(conv.IsFallback)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvertToBase_NoRateAtAll_DegradedOneToOne() {
	ctx := context.Background()
	askDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("FindRateOn", ctx, "EUR", askDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindRateBefore", ctx, "EUR", askDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "EUR").Return(nil, apperrors.ErrNotFound).Once()

	conv, err := suite.service.ConvertToBase(ctx, decimal.RequireFromString("150.00"), "EUR", askDate)

	suite.Require().NoError(err, "a missing rate must not fail the caller")
	suite.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("150.00")))
	suite.True(conv.RateUsed.Equal(decimal.NewFromInt(1)))
	suite.True(conv.IsFallback)
	suite.NotEmpty(conv.Warning)
	suite.Nil(conv.RateDate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvertToBase_HalfUpRounding() {
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rate := usdRate(date, "32.005")

	suite.mockRepo.On("FindRateOn", ctx, "USD", date).Return(rate, nil).Once()

	conv, err := suite.service.ConvertToBase(ctx, decimal.NewFromInt(1), "USD", date)

	suite.Require().NoError(err)
	// 1 * 32.005 rounds half up to 32.01
	suite.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("32.01")), "got %s", conv.ConvertedAmount)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvertToBase_InvalidCurrencyCode() {
	ctx := context.Background()

	_, err := suite.service.ConvertToBase(ctx, decimal.NewFromInt(1), "USDX", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestUpsertRate_Success_DefaultsToManualSource() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	rateDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	req := dto.UpsertExchangeRateRequest{
		QuoteCurrencyCode: "usd",
		Rate:              decimal.RequireFromString("32.40"),
		RateDate:          rateDate,
	}

	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.QuoteCurrencyCode == "USD" &&
			r.BaseCurrencyCode == domain.BaseCurrencyCode &&
			r.Rate.Equal(req.Rate) &&
			r.Source == domain.SourceManual &&
			r.CreatedBy == actorUserID
	})).Return(&domain.ExchangeRate{QuoteCurrencyCode: "USD", Rate: req.Rate}, nil).Once()

	saved, err := suite.service.UpsertRate(ctx, req, actorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved)
	suite.Equal("USD", saved.QuoteCurrencyCode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestUpsertRate_RejectsBaseCurrency() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		QuoteCurrencyCode: "TRY",
		Rate:              decimal.NewFromInt(1),
		RateDate:          time.Now(),
	}

	_, err := suite.service.UpsertRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertRate")
}

func (suite *CurrencyServiceTestSuite) TestUpsertRate_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		QuoteCurrencyCode: "USD",
		Rate:              decimal.Zero,
		RateDate:          time.Now(),
	}

	_, err := suite.service.UpsertRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertRate")
}

// --- Run Suite ---
func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
