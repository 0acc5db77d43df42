package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
	"github.com/cardperks/card_perks_app/internal/utils"
)

// ErrCodeExhausted is returned when code generation keeps colliding with
// stored claims. It signals either a very large claim volume or a broken
// random source, so it is surfaced to the caller rather than swallowed.
var ErrCodeExhausted = errors.New("reward code generation exhausted its retry attempts")

// codeGenerationAttempts bounds the collision retry loop.
const codeGenerationAttempts = 5

// rewardCodeService mints unique redeemable claim codes.
type rewardCodeService struct {
	claimRepo portsrepo.ClaimReader
}

// NewRewardCodeService creates a new RewardCodeService.
func NewRewardCodeService(claimRepo portsrepo.ClaimReader) portssvc.RewardCodeSvc {
	return &rewardCodeService{claimRepo: claimRepo}
}

var _ portssvc.RewardCodeSvc = (*rewardCodeService)(nil)

// GenerateCode draws codes until one is not already stored, up to
// codeGenerationAttempts. The unique index on the claims table remains the
// authoritative guard; a code that collides between this check and the insert
// surfaces as a duplicate there and the minting transaction retries.
func (s *rewardCodeService) GenerateCode(ctx context.Context) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for attempt := 1; attempt <= codeGenerationAttempts; attempt++ {
		code, err := utils.GenerateRewardCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate reward code: %w", err)
		}

		exists, err := s.claimRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check reward code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}

		logger.Warn("Reward code collision, drawing a fresh code",
			slog.Int("attempt", attempt))
	}

	return "", ErrCodeExhausted
}
