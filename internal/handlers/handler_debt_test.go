package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kyigitoglu/debt_ledger_app/internal/apperrors"
	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
	"github.com/kyigitoglu/debt_ledger_app/internal/middleware"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils"
)

// --- Mock DebtService ---
type MockDebtService struct {
	mock.Mock
}

func (m *MockDebtService) GetDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) GetDebtWithDetails(ctx context.Context, debtID string) (*dto.DebtDetailsResponse, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DebtDetailsResponse), args.Error(1)
}

func (m *MockDebtService) ListDebts(ctx context.Context, params dto.ListParams) (*dto.ListDebtsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDebtsResponse), args.Error(1)
}

func (m *MockDebtService) CalculateRemaining(ctx context.Context, debtID string) (decimal.Decimal, error) {
	args := m.Called(ctx, debtID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDebtService) GetSummaryByCurrency(ctx context.Context) (*dto.DebtSummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DebtSummaryResponse), args.Error(1)
}

func (m *MockDebtService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, actorUserID string) (*domain.Debt, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) UpdateDebt(ctx context.Context, debtID string, req dto.UpdateDebtRequest, actorUserID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) DeleteDebt(ctx context.Context, debtID string, actorUserID string) error {
	args := m.Called(ctx, debtID, actorUserID)
	return args.Error(0)
}

func (m *MockDebtService) RecomputeDebtStatus(ctx context.Context, debtID string, actorUserID string) (bool, error) {
	args := m.Called(ctx, debtID, actorUserID)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.DebtSvcFacade = (*MockDebtService)(nil)

// --- Mock InstallmentService ---
type MockInstallmentService struct {
	mock.Mock
}

func (m *MockInstallmentService) CreateInstallments(ctx context.Context, debtID string, count int, startDate time.Time, actorUserID string) (*dto.CreateInstallmentsResponse, error) {
	args := m.Called(ctx, debtID, count, startDate, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateInstallmentsResponse), args.Error(1)
}

func (m *MockInstallmentService) GetInstallment(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) UpdateInstallment(ctx context.Context, installmentID string, req dto.UpdateInstallmentRequest, actorUserID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) DeleteInstallment(ctx context.Context, installmentID string, actorUserID string) error {
	args := m.Called(ctx, installmentID, actorUserID)
	return args.Error(0)
}

var _ portssvc.InstallmentSvcFacade = (*MockInstallmentService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) PayInstallment(ctx context.Context, installmentID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, installmentID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) PayDebt(ctx context.Context, debtID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, debtID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) PayMilestone(ctx context.Context, milestoneID string, req dto.PayRequest, actorUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, milestoneID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ReversePayment(ctx context.Context, paymentID string, actorUserID string) error {
	args := m.Called(ctx, paymentID, actorUserID)
	return args.Error(0)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, params dto.ListParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Test Suite ---
type DebtHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockDebtService        *MockDebtService
	mockInstallmentService *MockInstallmentService
	mockPaymentService     *MockPaymentService
	jwtSecret              string
}

func (suite *DebtHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockDebtService = new(MockDebtService)
	suite.mockInstallmentService = new(MockInstallmentService)
	suite.mockPaymentService = new(MockPaymentService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerDebtRoutes(v1, suite.mockDebtService, suite.mockInstallmentService, suite.mockPaymentService)
}

func (suite *DebtHandlerTestSuite) tokenFor(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "dla-test")
	suite.Require().NoError(err)
	return token
}

func (suite *DebtHandlerTestSuite) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *DebtHandlerTestSuite) TestCreateDebt_Success() {
	userID := uuid.NewString()
	req := dto.CreateDebtRequest{
		Kind:            domain.KindDebt,
		PartyID:         uuid.NewString(),
		PrincipalAmount: decimal.RequireFromString("8000.00"),
		CurrencyCode:    "TRY",
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	created := &domain.Debt{
		DebtID:          uuid.NewString(),
		Kind:            req.Kind,
		PartyID:         req.PartyID,
		PrincipalAmount: req.PrincipalAmount,
		CurrencyCode:    req.CurrencyCode,
		Status:          domain.DebtOpen,
	}

	suite.mockDebtService.On("CreateDebt", mock.Anything, mock.AnythingOfType("dto.CreateDebtRequest"), userID).
		Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/debts", suite.tokenFor(userID, domain.RoleStaff), req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.DebtID, resp.DebtID)
	suite.Equal(domain.DebtOpen, resp.Status)
	suite.mockDebtService.AssertExpectations(suite.T())
}

func (suite *DebtHandlerTestSuite) TestCreateDebt_MissingToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/debts", "", dto.CreateDebtRequest{})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDebtService.AssertNotCalled(suite.T(), "CreateDebt")
}

func (suite *DebtHandlerTestSuite) TestGetDebt_NotFound() {
	debtID := uuid.NewString()
	suite.mockDebtService.On("GetDebtWithDetails", mock.Anything, debtID).
		Return(nil, fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/debts/"+debtID, suite.tokenFor(uuid.NewString(), domain.RoleStaff), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DebtHandlerTestSuite) TestGetRemaining_Success() {
	debtID := uuid.NewString()
	suite.mockDebtService.On("CalculateRemaining", mock.Anything, debtID).
		Return(decimal.RequireFromString("1250.50"), nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/debts/%s/remaining", debtID), suite.tokenFor(uuid.NewString(), domain.RoleStaff), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "1250.5")
}

func (suite *DebtHandlerTestSuite) TestDeleteDebt_RequiresAdmin() {
	debtID := uuid.NewString()

	w := suite.doJSON(http.MethodDelete, "/api/v1/debts/"+debtID, suite.tokenFor(uuid.NewString(), domain.RoleStaff), nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockDebtService.AssertNotCalled(suite.T(), "DeleteDebt")
}

func (suite *DebtHandlerTestSuite) TestDeleteDebt_AdminSucceeds() {
	debtID := uuid.NewString()
	adminID := uuid.NewString()

	suite.mockDebtService.On("DeleteDebt", mock.Anything, debtID, adminID).Return(nil).Once()

	w := suite.doJSON(http.MethodDelete, "/api/v1/debts/"+debtID, suite.tokenFor(adminID, domain.RoleAdmin), nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockDebtService.AssertExpectations(suite.T())
}

func (suite *DebtHandlerTestSuite) TestCreateInstallments_ValidationError() {
	debtID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockInstallmentService.On("CreateInstallments", mock.Anything, debtID, -1, mock.AnythingOfType("time.Time"), userID).
		Return(nil, fmt.Errorf("%w: installment count must be at least 1, got -1", apperrors.ErrValidation)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/debts/%s/installments", debtID), suite.tokenFor(userID, domain.RoleStaff), gin.H{"count": -1})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInstallmentService.AssertExpectations(suite.T())
}

func (suite *DebtHandlerTestSuite) TestPayDebt_Success() {
	debtID := uuid.NewString()
	userID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:    uuid.NewString(),
		Ref:          domain.DebtRef(debtID),
		Amount:       decimal.RequireFromString("500.00"),
		CurrencyCode: "TRY",
		Method:       domain.MethodBank,
	}

	suite.mockPaymentService.On("PayDebt", mock.Anything, debtID, mock.AnythingOfType("dto.PayRequest"), userID).
		Return(payment, nil).Once()

	body := gin.H{"amount": "500.00", "date": "2024-07-01T00:00:00Z", "method": "BANK"}
	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/debts/%s/payments", debtID), suite.tokenFor(userID, domain.RoleStaff), body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(payment.PaymentID, resp.PaymentID)
	suite.Equal(domain.RefDebt, resp.RelatedType)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestDebtHandler(t *testing.T) {
	suite.Run(t, new(DebtHandlerTestSuite))
}
