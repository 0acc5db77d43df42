package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// roleRank orders merchant roles for authorization checks. Higher covers lower.
var roleRank = map[domain.MerchantUserRole]int{
	domain.RoleStaff: 1,
	domain.RoleAdmin: 2,
	domain.RoleOwner: 3,
}

type merchantService struct {
	merchantRepo portsrepo.MerchantRepositoryFacade
}

// NewMerchantService creates a new MerchantService.
func NewMerchantService(merchantRepo portsrepo.MerchantRepositoryFacade) portssvc.MerchantSvcFacade {
	return &merchantService{merchantRepo: merchantRepo}
}

var _ portssvc.MerchantSvcFacade = (*merchantService)(nil)

// AuthorizeMerchantAction verifies that userID belongs to merchantID with at
// least requiredRole. Non-members get ErrNotFound rather than ErrForbidden so
// the response does not leak merchant membership.
func (s *merchantService) AuthorizeMerchantAction(ctx context.Context, userID string, merchantID string, requiredRole domain.MerchantUserRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.merchantRepo.FindMerchantUser(ctx, userID, merchantID)
	if err != nil {
		return err
	}

	required, ok := roleRank[requiredRole]
	if !ok {
		return fmt.Errorf("unknown merchant role %q: %w", requiredRole, apperrors.ErrInternal)
	}
	if roleRank[membership.Role] < required {
		logger.Warn("Merchant action denied",
			slog.String("user_id", userID),
			slog.String("merchant_id", merchantID),
			slog.String("role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.NewAppError(403, "insufficient merchant role", apperrors.ErrForbidden)
	}
	return nil
}
