package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/dto"
	"github.com/cardperks/card_perks_app/internal/middleware"
	"github.com/cardperks/card_perks_app/internal/utils"
)

// transactionService covers the feed-ingest and administrative-override
// surfaces of the transaction store.
type transactionService struct {
	transactionRepo portsrepo.CardTransactionRepositoryFacade
	merchantRepo    portsrepo.MerchantReader
	ledgerSvc       portssvc.LedgerSvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactionRepo portsrepo.CardTransactionRepositoryFacade,
	merchantRepo portsrepo.MerchantReader,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		merchantRepo:    merchantRepo,
		ledgerSvc:       ledgerSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// IngestTransaction inserts a transaction in UNRESOLVED state. The external id
// is the idempotency key: re-delivering a known id returns the existing row
// with created=false and writes nothing.
func (s *transactionService) IngestTransaction(ctx context.Context, req dto.IngestTransactionRequest) (*domain.CardTransaction, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	txn := domain.CardTransaction{
		TransactionID:   uuid.NewString(),
		ExternalTxnID:   req.ExternalTxnID,
		CustomerID:      req.CustomerID,
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		Descriptor:      req.Descriptor,
		Categories:      req.Categories,
		TransactionDate: req.TransactionDate,
		Resolution:      domain.Unresolved,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActorID,
		},
	}

	err := s.transactionRepo.SaveTransaction(ctx, txn)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			existing, findErr := s.transactionRepo.FindTransactionByExternalID(ctx, req.ExternalTxnID)
			if findErr != nil {
				return nil, false, fmt.Errorf("failed to load existing transaction for external id %s: %w", req.ExternalTxnID, findErr)
			}
			logger.Debug("Duplicate transaction delivery ignored",
				slog.String("external_txn_id", req.ExternalTxnID))
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction ingested",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("external_txn_id", txn.ExternalTxnID),
		slog.String("amount", utils.FormatMinorUnits(txn.Amount, 2)),
		slog.String("currency", txn.CurrencyCode))
	return &txn, true, nil
}

// ResetResolution forces a transaction back to UNRESOLVED so the next
// dispatcher run re-evaluates it. Administrative override only.
func (s *transactionService) ResetResolution(ctx context.Context, transactionID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.transactionRepo.FindTransactionByID(ctx, transactionID); err != nil {
		return err
	}
	if err := s.transactionRepo.ResetResolution(ctx, transactionID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reset transaction %s: %w", transactionID, err)
	}
	logger.Info("Transaction resolution reset",
		slog.String("transaction_id", transactionID))
	return nil
}

// ForceAssign pins a transaction to a merchant, bypassing the matcher, and
// applies the reward ledger as if it had matched. Used for support escalations.
func (s *transactionService) ForceAssign(ctx context.Context, transactionID string, merchantID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if _, err := s.merchantRepo.FindMerchantByID(ctx, merchantID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if txn.Resolution != domain.Unresolved {
		// Clear any previous resolution so the status-guarded transition below
		// can take effect.
		if err := s.transactionRepo.ResetResolution(ctx, transactionID, userID, now); err != nil {
			return fmt.Errorf("failed to reset transaction %s before assignment: %w", transactionID, err)
		}
	}

	if err := s.ledgerSvc.Apply(ctx, txn.CustomerID, merchantID, *txn); err != nil {
		return fmt.Errorf("failed to apply ledger for forced assignment: %w", err)
	}
	if err := s.transactionRepo.MarkResolved(ctx, transactionID, merchantID, userID, now); err != nil && !errors.Is(err, apperrors.ErrConflict) {
		return fmt.Errorf("failed to mark transaction %s resolved: %w", transactionID, err)
	}

	logger.Info("Transaction force-assigned",
		slog.String("transaction_id", transactionID),
		slog.String("merchant_id", merchantID))
	return nil
}
