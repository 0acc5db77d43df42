package domain

// RedemptionOutcome is the typed result of a claim preview or confirm call.
// These are routine results from the merchant's perspective, not errors.
type RedemptionOutcome string

const (
	// RedemptionNotFound covers both unknown codes and cancelled claims, which
	// are deliberately indistinguishable to the caller.
	RedemptionNotFound RedemptionOutcome = "NOT_FOUND"
	// RedemptionWrongBusiness means the code exists but belongs to another
	// merchant. Distinguished from NOT_FOUND to aid support diagnostics.
	RedemptionWrongBusiness   RedemptionOutcome = "WRONG_BUSINESS"
	RedemptionAlreadyRedeemed RedemptionOutcome = "ALREADY_REDEEMED"
	RedemptionSuccess         RedemptionOutcome = "SUCCESS"
)

// RedemptionResult pairs an outcome with the claim it refers to. Claim is nil
// for NOT_FOUND and WRONG_BUSINESS.
type RedemptionResult struct {
	Outcome RedemptionOutcome
	Claim   *RewardClaim
}
