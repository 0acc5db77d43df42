package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
)

const merchantColumns = `
	merchant_id, name, status, category_codes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMerchantRepository struct {
	BaseRepository
}

// newPgxMerchantRepository creates a new repository for merchant data.
func newPgxMerchantRepository(pool *pgxpool.Pool) portsrepo.MerchantRepositoryFacade {
	return &PgxMerchantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.MerchantRepositoryFacade = (*PgxMerchantRepository)(nil)

func (r *PgxMerchantRepository) FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE merchant_id = $1;`

	rows, err := r.Pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant %s: %w", merchantID, err)
	}
	merchant, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Merchant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find merchant %s: %w", merchantID, err)
	}
	return &merchant, nil
}

// ListVerifiedMerchants returns VERIFIED merchants in merchant_id order. The
// matcher relies on this ordering for deterministic tie-breaking.
func (r *PgxMerchantRepository) ListVerifiedMerchants(ctx context.Context) ([]domain.Merchant, error) {
	query := `
		SELECT ` + merchantColumns + `
		FROM merchants
		WHERE status = $1
		ORDER BY merchant_id;
	`
	rows, err := r.Pool.Query(ctx, query, domain.MerchantVerified)
	if err != nil {
		return nil, fmt.Errorf("failed to query verified merchants: %w", err)
	}
	merchants, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Merchant])
	if err != nil {
		return nil, fmt.Errorf("failed to collect verified merchants: %w", err)
	}
	return merchants, nil
}

func (r *PgxMerchantRepository) FindMerchantUser(ctx context.Context, userID string, merchantID string) (*domain.MerchantUser, error) {
	query := `
		SELECT user_id, merchant_id, role, joined_at
		FROM merchant_users
		WHERE user_id = $1 AND merchant_id = $2;
	`
	var membership domain.MerchantUser
	err := r.Pool.QueryRow(ctx, query, userID, merchantID).Scan(
		&membership.UserID,
		&membership.MerchantID,
		&membership.Role,
		&membership.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership of user %s in merchant %s: %w", userID, merchantID, err)
	}
	return &membership, nil
}
