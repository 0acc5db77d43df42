package domain

// ProgramType discriminates the two reward rule shapes.
type ProgramType string

const (
	VisitBased ProgramType = "VISIT"
	SpendBased ProgramType = "SPEND"
)

// ProgramStatus gates whether a program accrues further progress.
type ProgramStatus string

const (
	ProgramActive   ProgramStatus = "ACTIVE"
	ProgramPaused   ProgramStatus = "PAUSED"
	ProgramArchived ProgramStatus = "ARCHIVED"
)

// RewardProgram is a merchant-owned rule set. Exactly one rule shape is
// populated, selected by ProgramType: visit-based programs use RequiredVisits
// and the optional MinSpendPerVisit gate, spend-based programs use
// SpendThreshold. Amounts are integer minor currency units.
type RewardProgram struct {
	ProgramID         string        `json:"programID" db:"program_id"`   // Primary key (UUID)
	MerchantID        string        `json:"merchantID" db:"merchant_id"` // Owning merchant
	ProgramType       ProgramType   `json:"programType" db:"program_type"`
	RequiredVisits    int           `json:"requiredVisits" db:"required_visits"`       // VISIT: visits needed to complete a cycle
	MinSpendPerVisit  int64         `json:"minSpendPerVisit" db:"min_spend_per_visit"` // VISIT: 0 means no per-visit minimum
	SpendThreshold    int64         `json:"spendThreshold" db:"spend_threshold"`       // SPEND: cumulative spend to complete a cycle
	RewardDescription string        `json:"rewardDescription" db:"reward_description"` // Snapshot source for minted claims
	Status            ProgramStatus `json:"status" db:"status"`
	AuditFields
}
