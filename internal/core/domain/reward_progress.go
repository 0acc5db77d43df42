package domain

import "time"

// ProgressStatus indicates whether a progress row is the in-flight cycle or a
// finished one.
type ProgressStatus string

const (
	ProgressActive    ProgressStatus = "ACTIVE"
	ProgressCompleted ProgressStatus = "COMPLETED"
)

// RewardProgress is the accrual ledger for one (customer, program) pair.
// At most one ACTIVE row exists per pair at any time; completing a cycle marks
// the row COMPLETED and creates a fresh ACTIVE successor (carrying spend
// overflow for spend-based programs).
type RewardProgress struct {
	ProgressID         string         `json:"progressID" db:"progress_id"` // Primary key (UUID)
	CustomerID         string         `json:"customerID" db:"customer_id"`
	ProgramID          string         `json:"programID" db:"program_id"`
	VisitCount         int            `json:"visitCount" db:"visit_count"`
	TotalSpend         int64          `json:"totalSpend" db:"total_spend"`                  // Minor units, absolute amounts only
	ContributingTxnIDs []string       `json:"contributingTxnIDs" db:"contributing_txn_ids"` // Append-only audit trail
	Completions        int            `json:"completions" db:"completions"`                 // Lifetime completed cycles for the pair
	Status             ProgressStatus `json:"status" db:"status"`
	LastActivityAt     time.Time      `json:"lastActivityAt" db:"last_activity_at"`
	AuditFields
}
