package dto

import (
	"time"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// ClaimResponse is the API representation of a reward claim.
type ClaimResponse struct {
	ClaimID           string     `json:"claimID"`
	Code              string     `json:"code"`
	CustomerID        string     `json:"customerID"`
	MerchantID        string     `json:"merchantID"`
	ProgramID         string     `json:"programID"`
	RewardDescription string     `json:"rewardDescription"`
	Status            string     `json:"status"`
	IssuedAt          time.Time  `json:"issuedAt"`
	RedeemedAt        *time.Time `json:"redeemedAt,omitempty"`
	RedeemedBy        *string    `json:"redeemedBy,omitempty"`
}

// ToClaimResponse maps a domain claim to its API representation.
func ToClaimResponse(claim *domain.RewardClaim) ClaimResponse {
	return ClaimResponse{
		ClaimID:           claim.ClaimID,
		Code:              claim.Code,
		CustomerID:        claim.CustomerID,
		MerchantID:        claim.MerchantID,
		ProgramID:         claim.ProgramID,
		RewardDescription: claim.RewardDescription,
		Status:            string(claim.Status),
		IssuedAt:          claim.IssuedAt,
		RedeemedAt:        claim.RedeemedAt,
		RedeemedBy:        claim.RedeemedBy,
	}
}
