package services

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// LedgerSvcFacade advances reward progress for a matched transaction.
type LedgerSvcFacade interface {
	// Apply advances or completes the reward progress of every ACTIVE program
	// owned by merchantID for the transaction's customer. Invoked only after a
	// matcher success (or an administrative force-assign). Programs are
	// processed independently; one program's failure never blocks another.
	Apply(ctx context.Context, customerID string, merchantID string, txn domain.CardTransaction) error
}

// RewardCodeSvc mints unique redeemable claim codes.
type RewardCodeSvc interface {
	// GenerateCode draws an 8-character code from the restricted alphabet,
	// retrying on collision up to a fixed number of attempts before returning
	// an exhaustion error.
	GenerateCode(ctx context.Context) (string, error)
}
