package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	DebtRepo         DebtRepositoryFacade
	InstallmentRepo  InstallmentRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	PartyRepo        PartyRepositoryFacade
	ProjectRepo      ProjectRepositoryFacade
	UserRepo         UserRepositoryFacade
}
