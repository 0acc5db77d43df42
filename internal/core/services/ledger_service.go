package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// systemActorID is the audit identity for rows written by the engine itself.
const systemActorID = "reward-engine"

// applyRetryAttempts bounds the retry-with-fresh-read loop for per-key write
// conflicts. Conflicts are recovered locally and never surfaced to callers.
const applyRetryAttempts = 3

// ledgerService advances, completes and renews reward progress. All currency
// math in this service is int64 minor units on absolute transaction amounts.
type ledgerService struct {
	merchantRepo portsrepo.MerchantReader
	programRepo  portsrepo.ProgramReader
	progressRepo portsrepo.ProgressRepositoryWithTx
	claimRepo    portsrepo.ClaimRepositoryFacade
	codeSvc      portssvc.RewardCodeSvc
	notifier     portssvc.Notifier
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	merchantRepo portsrepo.MerchantReader,
	programRepo portsrepo.ProgramReader,
	progressRepo portsrepo.ProgressRepositoryWithTx,
	claimRepo portsrepo.ClaimRepositoryFacade,
	codeSvc portssvc.RewardCodeSvc,
	notifier portssvc.Notifier,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		merchantRepo: merchantRepo,
		programRepo:  programRepo,
		progressRepo: progressRepo,
		claimRepo:    claimRepo,
		codeSvc:      codeSvc,
		notifier:     notifier,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Apply advances the reward progress of every ACTIVE program owned by
// merchantID for the transaction's customer. Each program is processed in its
// own database transaction so one program's failure never leaves another
// half-applied.
func (s *ledgerService) Apply(ctx context.Context, customerID string, merchantID string, txn domain.CardTransaction) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	merchant, err := s.merchantRepo.FindMerchantByID(ctx, merchantID)
	if err != nil {
		// Should not occur for a verified match; a missing merchant here is a
		// data inconsistency that aborts this transaction's processing.
		logger.Error("Merchant missing for matched transaction",
			slog.String("merchant_id", merchantID),
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
		return fmt.Errorf("merchant %s not found for ledger apply: %w", merchantID, err)
	}

	programs, err := s.programRepo.ListActiveProgramsByMerchant(ctx, merchantID)
	if err != nil {
		return fmt.Errorf("failed to list active programs for merchant %s: %w", merchantID, err)
	}

	// A single transaction can advance several concurrently active programs.
	var firstErr error
	for _, program := range programs {
		if err := s.applyProgram(ctx, merchant, program, customerID, txn); err != nil {
			logger.Error("Failed to apply transaction to program",
				slog.String("program_id", program.ProgramID),
				slog.String("transaction_id", txn.TransactionID),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// applyProgram advances one program, retrying with a fresh read when a
// concurrent writer wins the per-key race (duplicate active row or lost
// status guard).
func (s *ledgerService) applyProgram(ctx context.Context, merchant *domain.Merchant, program domain.RewardProgram, customerID string, txn domain.CardTransaction) error {
	// Visit-based minimum-spend gate: the visit does not count at all, so no
	// ledger mutation and no audit entry.
	if program.ProgramType == domain.VisitBased &&
		program.MinSpendPerVisit > 0 &&
		txn.AbsAmount() < program.MinSpendPerVisit {
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < applyRetryAttempts; attempt++ {
		notification, err := s.applyProgramOnce(ctx, merchant, program, customerID, txn)
		if err == nil {
			if notification != nil {
				s.dispatchNotification(ctx, *notification)
			}
			return nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrConflict) {
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("ledger apply for program %s gave up after %d conflicts: %w", program.ProgramID, applyRetryAttempts, lastErr)
}

// applyProgramOnce runs one fetch-decide-write cycle inside a database
// transaction. The ACTIVE row is locked for the duration, so the completion
// decision and every write it implies (progress update, claim insert,
// successor insert) commit together or not at all.
func (s *ledgerService) applyProgramOnce(ctx context.Context, merchant *domain.Merchant, program domain.RewardProgram, customerID string, txn domain.CardTransaction) (*portssvc.RewardNotification, error) {
	now := time.Now().UTC()

	tx, err := s.progressRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.progressRepo.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	progress, err := s.progressRepo.FindActiveProgressForUpdate(ctx, tx, customerID, program.ProgramID)
	isNew := false
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// Lazy creation on first qualifying transaction for the pair.
		isNew = true
		progress = &domain.RewardProgress{
			ProgressID: uuid.NewString(),
			CustomerID: customerID,
			ProgramID:  program.ProgramID,
			Status:     domain.ProgressActive,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     systemActorID,
				LastUpdatedAt: now,
				LastUpdatedBy: systemActorID,
			},
		}
	}

	// Re-delivery guard: a transaction already on the audit trail has been
	// applied to this cycle and must not accrue twice.
	for _, id := range progress.ContributingTxnIDs {
		if id == txn.TransactionID {
			return nil, nil
		}
	}

	switch program.ProgramType {
	case domain.VisitBased:
		progress.VisitCount++
	case domain.SpendBased:
		progress.TotalSpend += txn.AbsAmount()
	default:
		return nil, fmt.Errorf("unknown program type %q for program %s", program.ProgramType, program.ProgramID)
	}
	progress.ContributingTxnIDs = append(progress.ContributingTxnIDs, txn.TransactionID)
	progress.LastActivityAt = now
	progress.LastUpdatedAt = now
	progress.LastUpdatedBy = systemActorID

	completed := false
	switch program.ProgramType {
	case domain.VisitBased:
		completed = progress.VisitCount >= program.RequiredVisits
	case domain.SpendBased:
		completed = progress.TotalSpend >= program.SpendThreshold
	}

	var notification *portssvc.RewardNotification
	if completed {
		progress.Status = domain.ProgressCompleted
		progress.Completions++
	}

	if isNew {
		err = s.progressRepo.SaveProgressTx(ctx, tx, *progress)
	} else {
		err = s.progressRepo.UpdateProgressTx(ctx, tx, *progress)
	}
	if err != nil {
		return nil, err
	}

	if completed {
		claim, err := s.mintClaim(ctx, tx, merchant, program, customerID, now)
		if err != nil {
			// Includes code exhaustion: the rollback leaves the completion
			// unapplied rather than completed-but-unclaimed.
			return nil, err
		}

		successor := s.buildSuccessor(program, *progress, txn, now)
		if err := s.progressRepo.SaveProgressTx(ctx, tx, successor); err != nil {
			return nil, err
		}

		notification = &portssvc.RewardNotification{
			CustomerID:        customerID,
			MerchantID:        merchant.MerchantID,
			MerchantName:      merchant.Name,
			RewardDescription: claim.RewardDescription,
			ClaimID:           claim.ClaimID,
			Code:              claim.Code,
		}
	}

	if err := s.progressRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return notification, nil
}

// mintClaim creates the claim for a completed cycle within tx, snapshotting
// the program's reward description so later edits don't alter issued claims.
func (s *ledgerService) mintClaim(ctx context.Context, tx pgx.Tx, merchant *domain.Merchant, program domain.RewardProgram, customerID string, now time.Time) (*domain.RewardClaim, error) {
	code, err := s.codeSvc.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	claim := domain.RewardClaim{
		ClaimID:           uuid.NewString(),
		Code:              code,
		CustomerID:        customerID,
		MerchantID:        merchant.MerchantID,
		ProgramID:         program.ProgramID,
		RewardDescription: program.RewardDescription,
		Status:            domain.ClaimPending,
		IssuedAt:          now,
	}
	if err := s.claimRepo.SaveClaimTx(ctx, tx, claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// buildSuccessor creates the next cycle's ACTIVE row. Visit-based cycles start
// from zero; spend-based cycles carry the overflow beyond the threshold, with
// the triggering transaction pre-seeded into the audit trail when overflow is
// positive.
func (s *ledgerService) buildSuccessor(program domain.RewardProgram, completed domain.RewardProgress, txn domain.CardTransaction, now time.Time) domain.RewardProgress {
	successor := domain.RewardProgress{
		ProgressID:     uuid.NewString(),
		CustomerID:     completed.CustomerID,
		ProgramID:      completed.ProgramID,
		Completions:    completed.Completions,
		Status:         domain.ProgressActive,
		LastActivityAt: now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActorID,
		},
	}
	if program.ProgramType == domain.SpendBased {
		if overflow := completed.TotalSpend - program.SpendThreshold; overflow > 0 {
			successor.TotalSpend = overflow
			successor.ContributingTxnIDs = []string{txn.TransactionID}
		}
	}
	return successor
}

// dispatchNotification hands a freshly minted claim to the notification
// dispatcher. Best-effort: runs detached from the request so a cancelled
// request or a delivery failure never affects the committed ledger mutation.
func (s *ledgerService) dispatchNotification(ctx context.Context, notification portssvc.RewardNotification) {
	if s.notifier == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	go func() {
		detached := middleware.ContextWithLogger(context.Background(), logger)
		if err := s.notifier.NotifyRewardEarned(detached, notification); err != nil {
			logger.Warn("Reward notification dispatch failed",
				slog.String("claim_id", notification.ClaimID),
				slog.String("error", err.Error()))
		}
	}()
}
