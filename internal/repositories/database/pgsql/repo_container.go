package pgsql

import (
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	transactionRepo := newPgxCardTransactionRepository(dbPool)
	merchantRepo := newPgxMerchantRepository(dbPool)
	programRepo := newPgxProgramRepository(dbPool)
	progressRepo := newPgxProgressRepository(dbPool)
	claimRepo := newPgxClaimRepository(dbPool)
	apiTokenRepo := newPgxAPITokenRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TransactionRepo: transactionRepo,
		MerchantRepo:    merchantRepo,
		ProgramRepo:     programRepo,
		ProgressRepo:    progressRepo,
		ClaimRepo:       claimRepo,
		APITokenRepo:    apiTokenRepo,
	}
}
