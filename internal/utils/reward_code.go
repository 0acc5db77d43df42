package utils

import (
	"crypto/rand"
	"fmt"
)

// RewardCodeAlphabet is the 33-character set reward codes are drawn from.
// Uppercase letters and digits, excluding 0, O and I so handwritten or printed
// codes cannot be misread.
const RewardCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ123456789"

// RewardCodeLength is the fixed length of every reward code.
const RewardCodeLength = 8

// GenerateRewardCode draws a random code of RewardCodeLength characters from
// RewardCodeAlphabet using crypto/rand. Uniqueness against stored claims is
// the caller's responsibility.
func GenerateRewardCode() (string, error) {
	b := make([]byte, RewardCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	code := make([]byte, RewardCodeLength)
	for i, v := range b {
		code[i] = RewardCodeAlphabet[int(v)%len(RewardCodeAlphabet)]
	}
	return string(code), nil
}
