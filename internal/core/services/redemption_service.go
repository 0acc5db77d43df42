package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
	"github.com/cardperks/card_perks_app/internal/utils"
)

// redemptionService is the merchant-facing verify/confirm workflow for
// customer-presented reward codes.
type redemptionService struct {
	claimRepo   portsrepo.ClaimRepositoryFacade
	merchantSvc portssvc.MerchantAuthorizerSvc
	analytics   *utils.PosthogClientWrapper
}

// NewRedemptionService creates a new RedemptionService.
func NewRedemptionService(
	claimRepo portsrepo.ClaimRepositoryFacade,
	merchantSvc portssvc.MerchantAuthorizerSvc,
	analytics *utils.PosthogClientWrapper,
) portssvc.RedemptionSvcFacade {
	return &redemptionService{
		claimRepo:   claimRepo,
		merchantSvc: merchantSvc,
		analytics:   analytics,
	}
}

var _ portssvc.RedemptionSvcFacade = (*redemptionService)(nil)

// Preview reports what Confirm would do without mutating anything.
func (s *redemptionService) Preview(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error) {
	if err := s.merchantSvc.AuthorizeMerchantAction(ctx, userID, merchantID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.lookupClaim(ctx, merchantID, code)
}

// Confirm transitions a PENDING claim owned by merchantID to REDEEMED. It is
// the only writer of that transition, and idempotent under retry: the
// underlying update is guarded on PENDING status, so re-confirming reports
// ALREADY_REDEEMED without re-applying.
func (s *redemptionService) Confirm(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.merchantSvc.AuthorizeMerchantAction(ctx, userID, merchantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	result, err := s.lookupClaim(ctx, merchantID, code)
	if err != nil {
		return nil, err
	}
	if result.Outcome != domain.RedemptionSuccess {
		return result, nil
	}

	now := time.Now().UTC()
	err = s.claimRepo.RedeemClaim(ctx, result.Claim.ClaimID, userID, now)
	if errors.Is(err, apperrors.ErrConflict) {
		// Lost a race with another confirmation; report the terminal state.
		fresh, lookupErr := s.lookupClaim(ctx, merchantID, code)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to redeem claim %s: %w", result.Claim.ClaimID, err)
	}

	result.Claim.Status = domain.ClaimRedeemed
	result.Claim.RedeemedAt = &now
	result.Claim.RedeemedBy = &userID

	logger.Info("Reward claim redeemed",
		slog.String("claim_id", result.Claim.ClaimID),
		slog.String("merchant_id", merchantID))
	s.analytics.Enqueue(userID, "reward_claim_redeemed", map[string]any{
		"claim_id":    result.Claim.ClaimID,
		"merchant_id": merchantID,
		"program_id":  result.Claim.ProgramID,
	})
	return result, nil
}

// lookupClaim resolves a code to its typed outcome for a merchant. Cancelled
// claims present as NOT_FOUND; codes owned by another merchant present as
// WRONG_BUSINESS so support can tell the two cases apart.
func (s *redemptionService) lookupClaim(ctx context.Context, merchantID string, code string) (*domain.RedemptionResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	claim, err := s.claimRepo.FindClaimByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.RedemptionResult{Outcome: domain.RedemptionNotFound}, nil
		}
		return nil, fmt.Errorf("failed to look up claim by code: %w", err)
	}

	switch {
	case claim.Status == domain.ClaimCancelled:
		return &domain.RedemptionResult{Outcome: domain.RedemptionNotFound}, nil
	case claim.MerchantID != merchantID:
		return &domain.RedemptionResult{Outcome: domain.RedemptionWrongBusiness}, nil
	case claim.Status == domain.ClaimRedeemed:
		return &domain.RedemptionResult{Outcome: domain.RedemptionAlreadyRedeemed, Claim: claim}, nil
	default:
		return &domain.RedemptionResult{Outcome: domain.RedemptionSuccess, Claim: claim}, nil
	}
}
