package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

const (
	// MatchConfidenceThreshold is the minimum score required to accept a match.
	// A best score of 79 is a no-match; 80 is accepted.
	MatchConfidenceThreshold = 80

	scoreExactName        = 100 // descriptor equals the merchant name
	scoreNameInDescriptor = 80  // merchant name contained in the descriptor (POS suffixes, store numbers)
	scoreDescriptorInName = 60  // descriptor contained in the merchant name
	scoreSharedToken      = 40  // a shared token longer than 3 characters
	scoreCategoryBonus    = 20  // category-code overlap, additive to any of the above

	// sharedTokenMinLength excludes short filler tokens ("the", "and", "co")
	// from the shared-token rule.
	sharedTokenMinLength = 4
)

// matcherService scores transactions against the verified merchant directory.
type matcherService struct {
	merchantRepo portsrepo.MerchantReader
}

// NewMatcherService creates a new MatcherService.
func NewMatcherService(merchantRepo portsrepo.MerchantReader) portssvc.MatcherSvcFacade {
	return &matcherService{merchantRepo: merchantRepo}
}

var _ portssvc.MatcherSvcFacade = (*matcherService)(nil)

// MatchTransaction scores every verified merchant against the transaction's
// descriptor and returns the best candidate at or above the confidence
// threshold, or nil when none qualifies. Pure for a fixed merchant snapshot:
// the merchant list is read fresh on every call, never cached.
func (s *matcherService) MatchTransaction(ctx context.Context, txn domain.CardTransaction) (*domain.MatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	descriptor := normalizeName(txn.Descriptor)
	if descriptor == "" {
		// A transaction without a merchant-name string has no candidates at
		// all. Hard requirement, not a best-effort fallback.
		return nil, nil
	}

	merchants, err := s.merchantRepo.ListVerifiedMerchants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified merchants: %w", err)
	}

	// Merchants arrive ordered by merchant_id ascending; only a strictly
	// greater score replaces the current best, so the lowest merchant_id wins
	// ties deterministically.
	var best *domain.MatchResult
	for _, merchant := range merchants {
		score := scoreMerchant(descriptor, txn.Categories, merchant)
		if score == 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &domain.MatchResult{MerchantID: merchant.MerchantID, Score: score}
		}
	}

	if best == nil || best.Score < MatchConfidenceThreshold {
		logger.Debug("No merchant reached the confidence threshold",
			slog.String("transaction_id", txn.TransactionID))
		return nil, nil
	}
	return best, nil
}

// scoreMerchant computes the match score for one merchant. Rules 1-4 are
// mutually exclusive (highest applicable wins); the category bonus is additive.
func scoreMerchant(descriptor string, categories []string, merchant domain.Merchant) int {
	name := normalizeName(merchant.Name)
	if name == "" {
		return 0
	}

	score := 0
	switch {
	case name == descriptor:
		score = scoreExactName
	case strings.Contains(descriptor, name):
		score = scoreNameInDescriptor
	case strings.Contains(name, descriptor):
		score = scoreDescriptorInName
	case hasSharedToken(descriptor, name):
		score = scoreSharedToken
	}

	if hasCategoryOverlap(categories, merchant.CategoryCodes) {
		score += scoreCategoryBonus
	}
	return score
}

// normalizeName lowercases and trims a merchant-name string for comparison.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// hasSharedToken reports whether the two names share a whitespace-delimited
// token of at least sharedTokenMinLength characters.
func hasSharedToken(descriptor, name string) bool {
	nameTokens := make(map[string]struct{})
	for _, token := range strings.Fields(name) {
		if len(token) >= sharedTokenMinLength {
			nameTokens[token] = struct{}{}
		}
	}
	if len(nameTokens) == 0 {
		return false
	}
	for _, token := range strings.Fields(descriptor) {
		if len(token) < sharedTokenMinLength {
			continue
		}
		if _, ok := nameTokens[token]; ok {
			return true
		}
	}
	return false
}

// hasCategoryOverlap reports whether the transaction's category tags intersect
// the merchant's declared category codes (case-insensitive).
func hasCategoryOverlap(txnCategories, merchantCodes []string) bool {
	if len(txnCategories) == 0 || len(merchantCodes) == 0 {
		return false
	}
	codes := make(map[string]struct{}, len(merchantCodes))
	for _, code := range merchantCodes {
		codes[strings.ToLower(code)] = struct{}{}
	}
	for _, category := range txnCategories {
		if _, ok := codes[strings.ToLower(category)]; ok {
			return true
		}
	}
	return false
}
