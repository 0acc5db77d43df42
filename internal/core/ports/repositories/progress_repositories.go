package repositories

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ProgressReader defines read operations for reward progress data
type ProgressReader interface {
	// FindActiveProgress retrieves the ACTIVE progress row for a (customer,
	// program) pair, or apperrors.ErrNotFound when none exists.
	FindActiveProgress(ctx context.Context, customerID string, programID string) (*domain.RewardProgress, error)
}

// ProgressWriter defines write operations for reward progress data.
//
// The fetch-decide-write sequence for one (customer, program) key must be
// serialized, so every mutation runs inside a caller-owned database
// transaction: FindActiveProgressForUpdate takes a row lock that the sibling
// Tx methods then write under.
type ProgressWriter interface {
	// FindActiveProgressForUpdate locks and returns the ACTIVE progress row
	// for a (customer, program) pair within tx, or apperrors.ErrNotFound.
	FindActiveProgressForUpdate(ctx context.Context, tx pgx.Tx, customerID string, programID string) (*domain.RewardProgress, error)

	// SaveProgressTx inserts a progress row within tx. A partial unique index
	// on (customer_id, program_id) WHERE status=ACTIVE backs the one-active-row
	// invariant; violations surface as apperrors.ErrDuplicate.
	SaveProgressTx(ctx context.Context, tx pgx.Tx, progress domain.RewardProgress) error

	// UpdateProgressTx persists the mutable ledger fields of a progress row
	// within tx.
	UpdateProgressTx(ctx context.Context, tx pgx.Tx, progress domain.RewardProgress) error
}

// ProgressRepositoryFacade combines all progress repository interfaces
type ProgressRepositoryFacade interface {
	ProgressReader
	ProgressWriter
}

// ProgressRepositoryWithTx extends ProgressRepositoryFacade with transaction management
type ProgressRepositoryWithTx interface {
	ProgressRepositoryFacade
	TransactionManager
}
