package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
)

type PgxAPITokenRepository struct {
	BaseRepository
}

// newPgxAPITokenRepository creates a new repository for machine API tokens.
func newPgxAPITokenRepository(pool *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

func (r *PgxAPITokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	query := `
		INSERT INTO api_tokens (token_id, name, token_hash, created_at, expires_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		token.TokenID,
		token.Name,
		token.TokenHash,
		token.CreatedAt,
		token.ExpiresAt,
		token.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save API token %s: %w", token.TokenID, err)
	}
	return nil
}

func (r *PgxAPITokenRepository) ListTokens(ctx context.Context) ([]domain.APIToken, error) {
	query := `
		SELECT token_id, name, token_hash, created_at, expires_at, last_used_at
		FROM api_tokens
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query API tokens: %w", err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.APIToken])
	if err != nil {
		return nil, fmt.Errorf("failed to collect API tokens: %w", err)
	}
	return tokens, nil
}

func (r *PgxAPITokenRepository) UpdateLastUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	query := `UPDATE api_tokens SET last_used_at = $1 WHERE token_id = $2;`

	tag, err := r.Pool.Exec(ctx, query, usedAt, tokenID)
	if err != nil {
		return fmt.Errorf("failed to update last used for token %s: %w", tokenID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAPITokenRepository) DeleteToken(ctx context.Context, tokenID string) error {
	query := `DELETE FROM api_tokens WHERE token_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, tokenID)
	if err != nil {
		return fmt.Errorf("failed to delete API token %s: %w", tokenID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
