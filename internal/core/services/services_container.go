package services

import (
	"log/slog"

	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/platform/config"
	"github.com/cardperks/card_perks_app/internal/platform/notifier"
	"github.com/cardperks/card_perks_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	rewardNotifier := notifier.NewLogNotifier()

	container.Merchant = NewMerchantService(repos.MerchantRepo)
	container.Matcher = NewMatcherService(repos.MerchantRepo)

	codeSvc := NewRewardCodeService(repos.ClaimRepo)
	container.Ledger = NewLedgerService(
		repos.MerchantRepo,
		repos.ProgramRepo,
		repos.ProgressRepo,
		repos.ClaimRepo,
		codeSvc,
		rewardNotifier,
	)

	container.Dispatcher = NewDispatcherService(repos.TransactionRepo, container.Matcher, container.Ledger)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.MerchantRepo, container.Ledger)
	container.Redemption = NewRedemptionService(repos.ClaimRepo, container.Merchant, analytics)
	container.APIToken = NewAPITokenService(repos.APITokenRepo)

	return container
}
