package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories against the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DebtRepo:         newPgxDebtRepository(dbPool),
		InstallmentRepo:  newPgxInstallmentRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		PartyRepo:        newPgxPartyRepository(dbPool),
		ProjectRepo:      newPgxProjectRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
