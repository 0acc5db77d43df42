package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
)

const cardTransactionColumns = `
	transaction_id, external_txn_id, customer_id, amount, currency_code,
	descriptor, categories, transaction_date, resolution, merchant_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCardTransactionRepository struct {
	BaseRepository
}

// newPgxCardTransactionRepository creates a new repository for card transaction data.
func newPgxCardTransactionRepository(pool *pgxpool.Pool) portsrepo.CardTransactionRepositoryFacade {
	return &PgxCardTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CardTransactionRepositoryFacade = (*PgxCardTransactionRepository)(nil)

// SaveTransaction inserts a transaction. The unique index on external_txn_id
// is the feed idempotency key; violations come back as ErrDuplicate.
func (r *PgxCardTransactionRepository) SaveTransaction(ctx context.Context, txn domain.CardTransaction) error {
	query := `
		INSERT INTO card_transactions (` + cardTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.ExternalTxnID,
		txn.CustomerID,
		txn.Amount,
		txn.CurrencyCode,
		txn.Descriptor,
		txn.Categories,
		txn.TransactionDate,
		txn.Resolution,
		txn.MerchantID,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: transaction with external id %s already exists", apperrors.ErrDuplicate, txn.ExternalTxnID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

func (r *PgxCardTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CardTransaction, error) {
	query := `SELECT ` + cardTransactionColumns + ` FROM card_transactions WHERE transaction_id = $1;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction %s: %w", transactionID, err)
	}
	txn, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.CardTransaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

func (r *PgxCardTransactionRepository) FindTransactionByExternalID(ctx context.Context, externalTxnID string) (*domain.CardTransaction, error) {
	query := `SELECT ` + cardTransactionColumns + ` FROM card_transactions WHERE external_txn_id = $1;`

	rows, err := r.Pool.Query(ctx, query, externalTxnID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction by external id %s: %w", externalTxnID, err)
	}
	txn, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.CardTransaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by external id %s: %w", externalTxnID, err)
	}
	return &txn, nil
}

// ListUnresolved retrieves up to limit UNRESOLVED transactions, newest first.
func (r *PgxCardTransactionRepository) ListUnresolved(ctx context.Context, limit int) ([]domain.CardTransaction, error) {
	query := `
		SELECT ` + cardTransactionColumns + `
		FROM card_transactions
		WHERE resolution = $1
		ORDER BY transaction_date DESC, transaction_id
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, domain.Unresolved, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved transactions: %w", err)
	}
	txns, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.CardTransaction])
	if err != nil {
		return nil, fmt.Errorf("failed to collect unresolved transactions: %w", err)
	}
	return txns, nil
}

// MarkResolved is status-guarded: the WHERE clause only hits UNRESOLVED rows,
// so a concurrent run that already resolved the transaction surfaces as
// ErrConflict instead of a silent overwrite.
func (r *PgxCardTransactionRepository) MarkResolved(ctx context.Context, transactionID string, merchantID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE card_transactions
		SET resolution = $1, merchant_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $5 AND resolution = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		domain.Resolved, merchantID, now, updatedBy, transactionID, domain.Unresolved)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s resolved: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not UNRESOLVED", apperrors.ErrConflict, transactionID)
	}
	return nil
}

func (r *PgxCardTransactionRepository) MarkNoMatch(ctx context.Context, transactionID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE card_transactions
		SET resolution = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND resolution = $5;
	`
	tag, err := r.Pool.Exec(ctx, query,
		domain.NoMatch, now, updatedBy, transactionID, domain.Unresolved)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s no-match: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not UNRESOLVED", apperrors.ErrConflict, transactionID)
	}
	return nil
}

// ResetResolution is the administrative override path and deliberately carries
// no status guard.
func (r *PgxCardTransactionRepository) ResetResolution(ctx context.Context, transactionID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE card_transactions
		SET resolution = $1, merchant_id = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.Unresolved, now, updatedBy, transactionID)
	if err != nil {
		return fmt.Errorf("failed to reset transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
