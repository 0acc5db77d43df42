package dto

// RedeemCodeRequest carries the customer-presented reward code for the
// merchant-facing verify/confirm workflow.
type RedeemCodeRequest struct {
	Code string `json:"code" binding:"required,len=8"`
}

// RedemptionResponse reports the typed outcome of a preview or confirm call.
// Claim is populated only for SUCCESS and ALREADY_REDEEMED outcomes.
type RedemptionResponse struct {
	Outcome string         `json:"outcome"`
	Claim   *ClaimResponse `json:"claim,omitempty"`
}
