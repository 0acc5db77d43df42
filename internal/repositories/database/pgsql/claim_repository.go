package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
)

const claimColumns = `
	claim_id, code, customer_id, merchant_id, program_id, reward_description,
	status, issued_at, redeemed_at, redeemed_by`

type PgxClaimRepository struct {
	BaseRepository
}

// newPgxClaimRepository creates a new repository for reward claim data.
func newPgxClaimRepository(pool *pgxpool.Pool) portsrepo.ClaimRepositoryFacade {
	return &PgxClaimRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ClaimRepositoryFacade = (*PgxClaimRepository)(nil)

func (r *PgxClaimRepository) FindClaimByCode(ctx context.Context, code string) (*domain.RewardClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM reward_claims WHERE code = $1;`

	rows, err := r.Pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query claim by code: %w", err)
	}
	claim, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.RewardClaim])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find claim by code: %w", err)
	}
	return &claim, nil
}

func (r *PgxClaimRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reward_claims WHERE code = $1);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check claim code existence: %w", err)
	}
	return exists, nil
}

// SaveClaimTx inserts a claim inside the caller's ledger transaction so a
// completed cycle and its claim land atomically.
func (r *PgxClaimRepository) SaveClaimTx(ctx context.Context, tx pgx.Tx, claim domain.RewardClaim) error {
	query := `
		INSERT INTO reward_claims (` + claimColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		claim.ClaimID,
		claim.Code,
		claim.CustomerID,
		claim.MerchantID,
		claim.ProgramID,
		claim.RewardDescription,
		claim.Status,
		claim.IssuedAt,
		claim.RedeemedAt,
		claim.RedeemedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on code
			return fmt.Errorf("%w: claim code already in use", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save claim %s: %w", claim.ClaimID, err)
	}
	return nil
}

// RedeemClaim is status-guarded: only a PENDING claim transitions, and a
// zero-row update means someone else won the race.
func (r *PgxClaimRepository) RedeemClaim(ctx context.Context, claimID string, redeemedBy string, now time.Time) error {
	query := `
		UPDATE reward_claims
		SET status = $1, redeemed_at = $2, redeemed_by = $3
		WHERE claim_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query,
		domain.ClaimRedeemed, now, redeemedBy, claimID, domain.ClaimPending)
	if err != nil {
		return fmt.Errorf("failed to redeem claim %s: %w", claimID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: claim %s is not PENDING", apperrors.ErrConflict, claimID)
	}
	return nil
}
