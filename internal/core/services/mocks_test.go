package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
)

// Shared repository and service mocks for the service test suites.

// --- Mock DebtRepository ---
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListDebts(ctx context.Context, limit int, nextToken *string) ([]domain.Debt, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var debts []domain.Debt
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.Debt)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return debts, token, args.Error(2)
}

func (m *MockDebtRepository) SumInstallmentPaid(ctx context.Context, debtID string) (decimal.Decimal, error) {
	args := m.Called(ctx, debtID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDebtRepository) OpenPrincipalByKindAndCurrency(ctx context.Context) ([]domain.KindPrincipalTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KindPrincipalTotal), args.Error(1)
}

func (m *MockDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) UpdateDebtStatus(ctx context.Context, debtID string, status domain.DebtStatus, updatedBy string) error {
	args := m.Called(ctx, debtID, status, updatedBy)
	return args.Error(0)
}

func (m *MockDebtRepository) DeleteDebt(ctx context.Context, debtID string) error {
	args := m.Called(ctx, debtID)
	return args.Error(0)
}

// --- Mock InstallmentRepository ---
type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindInstallmentsByDebtID(ctx context.Context, debtID string) ([]domain.Installment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) SaveInstallments(ctx context.Context, installments []domain.Installment) (int, error) {
	args := m.Called(ctx, installments)
	return args.Int(0), args.Error(1)
}

func (m *MockInstallmentRepository) RevertPayment(ctx context.Context, installmentID string, amount decimal.Decimal, updatedBy string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID, amount, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) UpdateInstallment(ctx context.Context, installment domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockInstallmentRepository) DeleteInstallment(ctx context.Context, installmentID string) error {
	args := m.Called(ctx, installmentID)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByRef(ctx context.Context, ref domain.PaymentRef) ([]domain.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return payments, token, args.Error(2)
}

func (m *MockPaymentRepository) RecordPayment(ctx context.Context, payment domain.Payment, txn *domain.Transaction) error {
	args := m.Called(ctx, payment, txn)
	return args.Error(0)
}

func (m *MockPaymentRepository) RecordInstallmentPayment(ctx context.Context, payment domain.Payment, txn *domain.Transaction, updatedBy string) (*domain.Installment, error) {
	args := m.Called(ctx, payment, txn, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePaymentsByRef(ctx context.Context, ref domain.PaymentRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjectsByParty(ctx context.Context, partyID string) ([]domain.Project, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockProjectRepository) FindMilestonesByProjectID(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Milestone), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveMilestone(ctx context.Context, milestone domain.Milestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *MockProjectRepository) ApplyMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, updatedBy string) (*domain.Milestone, error) {
	args := m.Called(ctx, milestoneID, amount, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockProjectRepository) RevertMilestonePayment(ctx context.Context, milestoneID string, amount decimal.Decimal, updatedBy string) (*domain.Milestone, error) {
	args := m.Called(ctx, milestoneID, amount, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockProjectRepository) DeleteMilestone(ctx context.Context, milestoneID string) error {
	args := m.Called(ctx, milestoneID)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, from, to time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, from, to, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) MonthlyTotals(ctx context.Context, from, to time.Time) ([]domain.MonthlyTypeTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyTypeTotal), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock DebtStatusRecomputer ---
type MockDebtStatusRecomputer struct {
	mock.Mock
}

func (m *MockDebtStatusRecomputer) RecomputeDebtStatus(ctx context.Context, debtID string, actorUserID string) (bool, error) {
	args := m.Called(ctx, debtID, actorUserID)
	return args.Bool(0), args.Error(1)
}

// --- Mock CurrencyConverter ---
type MockCurrencyConverter struct {
	mock.Mock
}

func (m *MockCurrencyConverter) ConvertToBase(ctx context.Context, amount decimal.Decimal, currencyCode string, date time.Time) (domain.Conversion, error) {
	args := m.Called(ctx, amount, currencyCode, date)
	return args.Get(0).(domain.Conversion), args.Error(1)
}

func (m *MockCurrencyConverter) GetLatestRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockCurrencyConverter) ListRates(ctx context.Context, currencyCode string, limit int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}
