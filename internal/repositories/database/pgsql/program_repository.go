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

const programColumns = `
	program_id, merchant_id, program_type, required_visits, min_spend_per_visit,
	spend_threshold, reward_description, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProgramRepository struct {
	BaseRepository
}

// newPgxProgramRepository creates a new repository for reward program data.
func newPgxProgramRepository(pool *pgxpool.Pool) portsrepo.ProgramRepositoryFacade {
	return &PgxProgramRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProgramRepositoryFacade = (*PgxProgramRepository)(nil)

func (r *PgxProgramRepository) FindProgramByID(ctx context.Context, programID string) (*domain.RewardProgram, error) {
	query := `SELECT ` + programColumns + ` FROM reward_programs WHERE program_id = $1;`

	rows, err := r.Pool.Query(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to query program %s: %w", programID, err)
	}
	program, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.RewardProgram])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find program %s: %w", programID, err)
	}
	return &program, nil
}

func (r *PgxProgramRepository) ListActiveProgramsByMerchant(ctx context.Context, merchantID string) ([]domain.RewardProgram, error) {
	query := `
		SELECT ` + programColumns + `
		FROM reward_programs
		WHERE merchant_id = $1 AND status = $2
		ORDER BY program_id;
	`
	rows, err := r.Pool.Query(ctx, query, merchantID, domain.ProgramActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active programs for merchant %s: %w", merchantID, err)
	}
	programs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.RewardProgram])
	if err != nil {
		return nil, fmt.Errorf("failed to collect active programs for merchant %s: %w", merchantID, err)
	}
	return programs, nil
}
