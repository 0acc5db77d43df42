package domain

import "time"

// ClaimStatus tracks a claim through its lifecycle. Transitions are monotonic:
// PENDING -> REDEEMED or PENDING -> CANCELLED, both terminal.
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "PENDING"
	ClaimRedeemed  ClaimStatus = "REDEEMED"
	ClaimCancelled ClaimStatus = "CANCELLED"
)

// RewardClaim is a redeemable voucher minted when a RewardProgress cycle
// completes. RewardDescription is a snapshot taken at minting time so later
// program edits do not alter already-issued claims.
type RewardClaim struct {
	ClaimID           string      `json:"claimID" db:"claim_id"` // Primary key (UUID)
	Code              string      `json:"code" db:"code"`        // Globally unique human-enterable code
	CustomerID        string      `json:"customerID" db:"customer_id"`
	MerchantID        string      `json:"merchantID" db:"merchant_id"`
	ProgramID         string      `json:"programID" db:"program_id"`
	RewardDescription string      `json:"rewardDescription" db:"reward_description"`
	Status            ClaimStatus `json:"status" db:"status"`
	IssuedAt          time.Time   `json:"issuedAt" db:"issued_at"`
	RedeemedAt        *time.Time  `json:"redeemedAt" db:"redeemed_at"` // Nil until redemption
	RedeemedBy        *string     `json:"redeemedBy" db:"redeemed_by"` // UserID of the confirming merchant user
}
