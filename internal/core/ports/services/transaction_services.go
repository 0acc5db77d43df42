package services

import (
	"context"

	"github.com/cardperks/card_perks_app/internal/core/domain"
	"github.com/cardperks/card_perks_app/internal/dto"
)

// TransactionSvcFacade covers the feed-ingest and administrative-override
// surfaces of the transaction store.
type TransactionSvcFacade interface {
	// IngestTransaction inserts a transaction in UNRESOLVED state. The
	// external id is the idempotency key: re-delivering a known id returns the
	// existing transaction with created=false and writes nothing.
	IngestTransaction(ctx context.Context, req dto.IngestTransactionRequest) (txn *domain.CardTransaction, created bool, err error)

	// ResetResolution forces a transaction back to UNRESOLVED so the next
	// dispatcher run re-evaluates it (support escalation path).
	ResetResolution(ctx context.Context, transactionID string, userID string) error

	// ForceAssign pins a transaction to a merchant, bypassing the matcher, and
	// applies the reward ledger as if it had matched.
	ForceAssign(ctx context.Context, transactionID string, merchantID string, userID string) error
}
