package services

import (
	"time"

	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires all application services against the repository
// provider. Construction order matters only for the debt service, which both
// the installment scheduler and the payment ledger depend on for status
// recomputation.
func NewServiceContainer(repos portsrepo.RepositoryProvider, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.ExchangeRateRepo)
	debtSvc := NewDebtService(repos.DebtRepo, repos.InstallmentRepo, currencySvc)
	installmentSvc := NewInstallmentService(repos.InstallmentRepo, repos.DebtRepo, debtSvc)
	paymentSvc := NewPaymentService(repos.PaymentRepo, repos.InstallmentRepo, repos.DebtRepo, repos.ProjectRepo, repos.TransactionRepo, debtSvc)

	return &portssvc.ServiceContainer{
		Currency:    currencySvc,
		Debt:        debtSvc,
		Installment: installmentSvc,
		Payment:     paymentSvc,
		Transaction: NewTransactionService(repos.TransactionRepo),
		Party:       NewPartyService(repos.PartyRepo),
		Project:     NewProjectService(repos.ProjectRepo, repos.PartyRepo, repos.PaymentRepo),
		User:        NewUserService(repos.UserRepo),
		Token:       NewTokenService(jwtSecret, jwtExpiry, jwtIssuer),
		Reporting:   NewReportingService(debtSvc, repos.TransactionRepo, currencySvc),
	}
}
