package domain

// MatchResult is the outcome of scoring one transaction against the verified
// merchant directory. Score is 0-120 (base rule plus category bonus); a result
// is only accepted when Score reaches the engine's confidence threshold.
type MatchResult struct {
	MerchantID string `json:"merchantID"`
	Score      int    `json:"score"`
}
