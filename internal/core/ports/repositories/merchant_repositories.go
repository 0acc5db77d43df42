package repositories

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// MerchantReader defines read operations for merchant data. The engine never
// writes merchants; the business-management subsystem owns them.
type MerchantReader interface {
	// FindMerchantByID retrieves a merchant by id.
	FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error)

	// ListVerifiedMerchants retrieves all VERIFIED merchants ordered by
	// merchant_id ascending. The ordering is what makes match tie-breaking
	// deterministic, so it is part of the contract.
	ListVerifiedMerchants(ctx context.Context) ([]domain.Merchant, error)
}

// MerchantUserReader defines read operations for merchant membership data.
type MerchantUserReader interface {
	// FindMerchantUser retrieves a user's membership in a merchant, or
	// apperrors.ErrNotFound when the user is not a member.
	FindMerchantUser(ctx context.Context, userID string, merchantID string) (*domain.MerchantUser, error)
}

// MerchantRepositoryFacade combines all merchant repository interfaces
type MerchantRepositoryFacade interface {
	MerchantReader
	MerchantUserReader
}
