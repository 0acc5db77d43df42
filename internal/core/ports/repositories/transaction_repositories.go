package repositories

import (
	"context"
	"time"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// CardTransactionReader defines read operations for card transaction data
type CardTransactionReader interface {
	// FindTransactionByID retrieves a transaction by its internal id.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.CardTransaction, error)

	// FindTransactionByExternalID retrieves a transaction by its feed-assigned external id.
	FindTransactionByExternalID(ctx context.Context, externalTxnID string) (*domain.CardTransaction, error)

	// ListUnresolved retrieves up to limit UNRESOLVED transactions, newest first.
	ListUnresolved(ctx context.Context, limit int) ([]domain.CardTransaction, error)
}

// CardTransactionWriter defines write operations for card transaction data
type CardTransactionWriter interface {
	// SaveTransaction inserts a transaction. Returns apperrors.ErrDuplicate when a
	// transaction with the same external id already exists.
	SaveTransaction(ctx context.Context, txn domain.CardTransaction) error

	// MarkResolved transitions a transaction UNRESOLVED -> RESOLVED, recording the
	// matched merchant. Returns apperrors.ErrConflict when the transaction is no
	// longer UNRESOLVED (a concurrent run already resolved it).
	MarkResolved(ctx context.Context, transactionID string, merchantID string, updatedBy string, now time.Time) error

	// MarkNoMatch transitions a transaction UNRESOLVED -> NO_MATCH. Returns
	// apperrors.ErrConflict when the transaction is no longer UNRESOLVED.
	MarkNoMatch(ctx context.Context, transactionID string, updatedBy string, now time.Time) error

	// ResetResolution forces a transaction back to UNRESOLVED and clears its
	// merchant reference (administrative override only).
	ResetResolution(ctx context.Context, transactionID string, updatedBy string, now time.Time) error
}

// CardTransactionRepositoryFacade combines all transaction repository interfaces
type CardTransactionRepositoryFacade interface {
	CardTransactionReader
	CardTransactionWriter
}
