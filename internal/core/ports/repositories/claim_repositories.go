package repositories

import (
	"context"
	"time"

	"github.com/cardperks/card_perks_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ClaimReader defines read operations for reward claim data
type ClaimReader interface {
	// FindClaimByCode retrieves a claim by its redeemable code, or
	// apperrors.ErrNotFound when no claim carries the code.
	FindClaimByCode(ctx context.Context, code string) (*domain.RewardClaim, error)

	// CodeExists reports whether any claim already carries the given code.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// ClaimWriter defines write operations for reward claim data
type ClaimWriter interface {
	// SaveClaimTx inserts a claim within tx. The unique index on code surfaces
	// collisions as apperrors.ErrDuplicate.
	SaveClaimTx(ctx context.Context, tx pgx.Tx, claim domain.RewardClaim) error

	// RedeemClaim transitions a claim PENDING -> REDEEMED, recording the
	// redeemer and timestamp. Returns apperrors.ErrConflict when the claim is
	// no longer PENDING.
	RedeemClaim(ctx context.Context, claimID string, redeemedBy string, now time.Time) error
}

// ClaimRepositoryFacade combines all claim repository interfaces
type ClaimRepositoryFacade interface {
	ClaimReader
	ClaimWriter
}
