package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
	"github.com/cardperks/card_perks_app/internal/utils"
)

const apiTokenSecretLength = 32

type apiTokenService struct {
	tokenRepo portsrepo.APITokenRepository
}

// NewAPITokenService creates a new APITokenService.
func NewAPITokenService(tokenRepo portsrepo.APITokenRepository) portssvc.APITokenSvc {
	return &apiTokenService{tokenRepo: tokenRepo}
}

var _ portssvc.APITokenSvc = (*apiTokenService)(nil)

// CreateToken generates a fresh secret, stores only its bcrypt hash, and
// returns the plaintext once. It cannot be recovered afterwards.
func (s *apiTokenService) CreateToken(ctx context.Context, name string, expiresIn *time.Duration) (string, *domain.APIToken, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	secret, err := utils.GenerateSecureRandomString(apiTokenSecretLength)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash token secret: %w", err)
	}

	now := time.Now().UTC()
	token := domain.APIToken{
		TokenID:   uuid.NewString(),
		Name:      name,
		TokenHash: string(hash),
		CreatedAt: now,
	}
	if expiresIn != nil {
		expiry := now.Add(*expiresIn)
		token.ExpiresAt = &expiry
	}

	if err := s.tokenRepo.SaveToken(ctx, token); err != nil {
		return "", nil, fmt.Errorf("failed to save API token: %w", err)
	}

	logger.Info("API token created",
		slog.String("token_id", token.TokenID),
		slog.String("name", token.Name))
	return secret, &token, nil
}

func (s *apiTokenService) ListTokens(ctx context.Context) ([]domain.APIToken, error) {
	return s.tokenRepo.ListTokens(ctx)
}

func (s *apiTokenService) DeleteToken(ctx context.Context, tokenID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.tokenRepo.DeleteToken(ctx, tokenID); err != nil {
		return err
	}
	logger.Info("API token deleted", slog.String("token_id", tokenID))
	return nil
}

// ValidateToken compares the presented secret against every stored hash.
// Token volume is tiny (one per feed producer) so the linear scan is fine.
func (s *apiTokenService) ValidateToken(ctx context.Context, token string) (*domain.APIToken, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stored, err := s.tokenRepo.ListTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list API tokens: %w", err)
	}

	now := time.Now().UTC()
	for i := range stored {
		candidate := stored[i]
		if candidate.ExpiresAt != nil && candidate.ExpiresAt.Before(now) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(candidate.TokenHash), []byte(token)) != nil {
			continue
		}
		if err := s.tokenRepo.UpdateLastUsed(ctx, candidate.TokenID, now); err != nil {
			// Best-effort bookkeeping, the validation itself stands.
			logger.Warn("Failed to update token last-used timestamp",
				slog.String("token_id", candidate.TokenID),
				slog.String("error", err.Error()))
		}
		return &candidate, nil
	}
	return nil, apperrors.ErrNotFound
}
