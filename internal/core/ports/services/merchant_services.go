package services

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// MerchantAuthorizerSvc checks merchant-scoped permissions. The auth subsystem
// establishes identity; this only answers whether that identity may act on a
// given merchant.
type MerchantAuthorizerSvc interface {
	// AuthorizeMerchantAction returns nil when userID holds at least
	// requiredRole in merchantID. Returns apperrors.ErrNotFound for
	// non-members (obscuring merchant existence) and apperrors.ErrForbidden
	// for members below the required role.
	AuthorizeMerchantAction(ctx context.Context, userID string, merchantID string, requiredRole domain.MerchantUserRole) error
}

// MerchantSvcFacade combines all merchant-related service interfaces
type MerchantSvcFacade interface {
	MerchantAuthorizerSvc
}
