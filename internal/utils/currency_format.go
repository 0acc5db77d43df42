package utils

import "github.com/shopspring/decimal"

// FormatMinorUnits renders an integer minor-unit amount as a display string
// with the given currency exponent.
// Example: amount 12345 with exponent 2 returns "123.45".
// Example: amount 500 with exponent 0 (JPY) returns "500".
// Ledger arithmetic never uses this; it exists for notification text and API
// responses only.
func FormatMinorUnits(amount int64, exponent int) string {
	return decimal.New(amount, -int32(exponent)).StringFixed(int32(exponent))
}
