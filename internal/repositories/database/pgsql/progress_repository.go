package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
)

const progressColumns = `
	progress_id, customer_id, program_id, visit_count, total_spend,
	contributing_txn_ids, completions, status, last_activity_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProgressRepository struct {
	BaseRepository
}

// newPgxProgressRepository creates a new repository for reward progress data.
func newPgxProgressRepository(pool *pgxpool.Pool) portsrepo.ProgressRepositoryWithTx {
	return &PgxProgressRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProgressRepositoryWithTx = (*PgxProgressRepository)(nil)

func (r *PgxProgressRepository) FindActiveProgress(ctx context.Context, customerID string, programID string) (*domain.RewardProgress, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM reward_progress
		WHERE customer_id = $1 AND program_id = $2 AND status = $3;
	`
	rows, err := r.Pool.Query(ctx, query, customerID, programID, domain.ProgressActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active progress for customer %s program %s: %w", customerID, programID, err)
	}
	progress, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.RewardProgress])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active progress for customer %s program %s: %w", customerID, programID, err)
	}
	return &progress, nil
}

// FindActiveProgressForUpdate locks the ACTIVE row for the (customer, program)
// key. Together with the partial unique index this serializes all ledger
// mutations for the key: concurrent appliers queue on the row lock, and
// concurrent creators collide on the index.
func (r *PgxProgressRepository) FindActiveProgressForUpdate(ctx context.Context, tx pgx.Tx, customerID string, programID string) (*domain.RewardProgress, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM reward_progress
		WHERE customer_id = $1 AND program_id = $2 AND status = $3
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, customerID, programID, domain.ProgressActive)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active progress for customer %s program %s: %w", customerID, programID, err)
	}
	progress, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.RewardProgress])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock active progress for customer %s program %s: %w", customerID, programID, err)
	}
	return &progress, nil
}

func (r *PgxProgressRepository) SaveProgressTx(ctx context.Context, tx pgx.Tx, progress domain.RewardProgress) error {
	query := `
		INSERT INTO reward_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		progress.ProgressID,
		progress.CustomerID,
		progress.ProgramID,
		progress.VisitCount,
		progress.TotalSpend,
		progress.ContributingTxnIDs,
		progress.Completions,
		progress.Status,
		progress.LastActivityAt,
		progress.CreatedAt,
		progress.CreatedBy,
		progress.LastUpdatedAt,
		progress.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on the one-active-row index
			return fmt.Errorf("%w: active progress already exists for customer %s program %s", apperrors.ErrDuplicate, progress.CustomerID, progress.ProgramID)
		}
		return fmt.Errorf("failed to save progress %s: %w", progress.ProgressID, err)
	}
	return nil
}

func (r *PgxProgressRepository) UpdateProgressTx(ctx context.Context, tx pgx.Tx, progress domain.RewardProgress) error {
	query := `
		UPDATE reward_progress
		SET visit_count = $1, total_spend = $2, contributing_txn_ids = $3,
			completions = $4, status = $5, last_activity_at = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE progress_id = $9;
	`
	tag, err := tx.Exec(ctx, query,
		progress.VisitCount,
		progress.TotalSpend,
		progress.ContributingTxnIDs,
		progress.Completions,
		progress.Status,
		progress.LastActivityAt,
		progress.LastUpdatedAt,
		progress.LastUpdatedBy,
		progress.ProgressID,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress %s: %w", progress.ProgressID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
