package repositories

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// ProgramReader defines read operations for reward program data. Programs are
// read-only to the engine; the business-management subsystem owns them.
type ProgramReader interface {
	// FindProgramByID retrieves a program by id.
	FindProgramByID(ctx context.Context, programID string) (*domain.RewardProgram, error)

	// ListActiveProgramsByMerchant retrieves all ACTIVE programs owned by a merchant.
	ListActiveProgramsByMerchant(ctx context.Context, merchantID string) ([]domain.RewardProgram, error)
}

// ProgramRepositoryFacade combines all program repository interfaces
type ProgramRepositoryFacade interface {
	ProgramReader
}
