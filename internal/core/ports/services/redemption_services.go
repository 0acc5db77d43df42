package services

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// RedemptionSvcFacade is the merchant-facing verify/confirm workflow for
// customer-presented reward codes. Callers must already be authorized for the
// merchant; the service re-checks membership as a precondition.
type RedemptionSvcFacade interface {
	// Preview reports what Confirm would do without mutating anything, so the
	// merchant UI can show claim details before committing.
	Preview(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error)

	// Confirm transitions a PENDING claim owned by merchantID to REDEEMED,
	// recording the redeemer and timestamp. Idempotent under retry: confirming
	// an already-redeemed code reports ALREADY_REDEEMED without re-applying.
	Confirm(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error)
}
