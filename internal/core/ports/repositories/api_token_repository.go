package repositories

import (
	"context"
	"time"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// APITokenRepository defines operations for machine API token data
type APITokenRepository interface {
	// SaveToken persists a new API token (hash only, never the secret).
	SaveToken(ctx context.Context, token domain.APIToken) error

	// ListTokens retrieves all stored tokens.
	ListTokens(ctx context.Context) ([]domain.APIToken, error)

	// UpdateLastUsed records a successful validation.
	UpdateLastUsed(ctx context.Context, tokenID string, usedAt time.Time) error

	// DeleteToken removes a token.
	DeleteToken(ctx context.Context, tokenID string) error
}
