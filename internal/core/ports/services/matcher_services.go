package services

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// MatcherSvcFacade scores a transaction against the verified merchant
// directory. Matching has no side effects and may be called speculatively.
type MatcherSvcFacade interface {
	// MatchTransaction returns the best-scoring merchant at or above the
	// confidence threshold, or nil when no merchant qualifies. Absence of a
	// match is a normal outcome, not an error.
	MatchTransaction(ctx context.Context, txn domain.CardTransaction) (*domain.MatchResult, error)
}
