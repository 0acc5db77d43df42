// Package notifier holds outbound notification dispatchers for freshly minted
// reward claims.
package notifier

import (
	"context"
	"log/slog"

	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// LogNotifier records reward notifications to the structured log. It stands in
// for a push/email dispatcher in environments where none is configured.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) NotifyRewardEarned(ctx context.Context, notification portssvc.RewardNotification) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Reward earned notification",
		slog.String("customer_id", notification.CustomerID),
		slog.String("merchant_id", notification.MerchantID),
		slog.String("merchant_name", notification.MerchantName),
		slog.String("claim_id", notification.ClaimID),
		slog.String("reward", notification.RewardDescription))
	return nil
}
