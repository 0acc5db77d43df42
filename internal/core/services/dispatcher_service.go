package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// dispatchBatchSize bounds one pass over the unresolved backlog. A full batch
// means the backlog may not be empty, so the drain loop goes again.
const dispatchBatchSize = 100

// dispatcherService drains the backlog of unresolved transactions, invoking
// the matcher and the ledger per item. Triggered by the bank-sync webhook,
// never by a user request path.
type dispatcherService struct {
	transactionRepo portsrepo.CardTransactionRepositoryFacade
	matcherSvc      portssvc.MatcherSvcFacade
	ledgerSvc       portssvc.LedgerSvcFacade
}

// NewDispatcherService creates a new DispatcherService.
func NewDispatcherService(
	transactionRepo portsrepo.CardTransactionRepositoryFacade,
	matcherSvc portssvc.MatcherSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.DispatcherSvcFacade {
	return &dispatcherService{
		transactionRepo: transactionRepo,
		matcherSvc:      matcherSvc,
		ledgerSvc:       ledgerSvc,
	}
}

var _ portssvc.DispatcherSvcFacade = (*dispatcherService)(nil)

// ProcessPending drains the unresolved backlog in batches of dispatchBatchSize,
// newest first, sequentially within each batch. Item failures are logged and
// the item stays UNRESOLVED for the next trigger; they never abort the batch.
// Safe under duplicate or concurrent triggers: resolution writes are
// status-guarded, the ledger serializes per (customer, program) key, and claim
// codes are unique.
func (s *dispatcherService) ProcessPending(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	total := 0
	for {
		batch, err := s.transactionRepo.ListUnresolved(ctx, dispatchBatchSize)
		if err != nil {
			return total, fmt.Errorf("failed to list unresolved transactions: %w", err)
		}

		settled := 0
		for _, txn := range batch {
			if err := s.processOne(ctx, txn); err != nil {
				logger.Error("Failed to process transaction, leaving unresolved",
					slog.String("transaction_id", txn.TransactionID),
					slog.String("error", err.Error()))
				continue
			}
			settled++
		}
		total += settled

		if len(batch) < dispatchBatchSize {
			// Backlog drained.
			break
		}
		if settled == 0 {
			// A full batch that settled nothing would be refetched verbatim;
			// stop and let the next trigger retry.
			logger.Warn("Dispatcher batch made no progress, stopping drain")
			break
		}
	}

	logger.Info("Dispatcher drain finished", slog.Int("settled", total))
	return total, nil
}

// processOne matches a single transaction and persists its resolution. An
// ErrConflict from the status-guarded updates means a concurrent run already
// settled the item, which is a no-op here, not a failure.
func (s *dispatcherService) processOne(ctx context.Context, txn domain.CardTransaction) error {
	result, err := s.matcherSvc.MatchTransaction(ctx, txn)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if result == nil {
		err := s.transactionRepo.MarkNoMatch(ctx, txn.TransactionID, systemActorID, now)
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return err
	}

	if err := s.ledgerSvc.Apply(ctx, txn.CustomerID, result.MerchantID, txn); err != nil {
		return err
	}

	err = s.transactionRepo.MarkResolved(ctx, txn.TransactionID, result.MerchantID, systemActorID, now)
	if errors.Is(err, apperrors.ErrConflict) {
		return nil
	}
	return err
}
