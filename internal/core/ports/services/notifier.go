package services

import "context"

// RewardNotification carries what the customer-facing notification dispatcher
// needs for a freshly minted claim.
type RewardNotification struct {
	CustomerID        string
	MerchantID        string
	MerchantName      string
	RewardDescription string
	ClaimID           string
	Code              string
}

// Notifier is the outbound port to the notification dispatcher. Delivery is
// best-effort: failures are logged by the caller and never roll back the
// ledger mutation that produced the claim.
type Notifier interface {
	NotifyRewardEarned(ctx context.Context, notification RewardNotification) error
}
