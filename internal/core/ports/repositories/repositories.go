package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TransactionRepo CardTransactionRepositoryFacade
	MerchantRepo    MerchantRepositoryFacade
	ProgramRepo     ProgramRepositoryFacade
	ProgressRepo    ProgressRepositoryWithTx
	ClaimRepo       ClaimRepositoryFacade
	APITokenRepo    APITokenRepository
}
