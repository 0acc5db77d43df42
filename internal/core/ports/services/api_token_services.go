package services

import (
	"context"
	"time"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// APITokenSvc manages machine tokens for the transaction feed producer.
type APITokenSvc interface {
	// CreateToken generates a new token and returns the plaintext secret
	// exactly once alongside the stored record.
	CreateToken(ctx context.Context, name string, expiresIn *time.Duration) (string, *domain.APIToken, error)

	// ListTokens retrieves all stored tokens.
	ListTokens(ctx context.Context) ([]domain.APIToken, error)

	// DeleteToken revokes a token.
	DeleteToken(ctx context.Context, tokenID string) error

	// ValidateToken checks a presented secret against the stored hashes and
	// returns the matching token, or apperrors.ErrNotFound.
	ValidateToken(ctx context.Context, token string) (*domain.APIToken, error)
}
