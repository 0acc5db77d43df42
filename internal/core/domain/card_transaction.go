package domain

import "time"

// ResolutionStatus indicates where a card transaction sits in the matching lifecycle.
type ResolutionStatus string

const (
	Unresolved ResolutionStatus = "UNRESOLVED"
	Resolved   ResolutionStatus = "RESOLVED"
	NoMatch    ResolutionStatus = "NO_MATCH"
)

// CardTransaction represents a raw bank transaction delivered by the feed ingester.
// The transaction itself is an immutable external fact; only its resolution state
// (and the merchant reference set alongside it) moves.
type CardTransaction struct {
	TransactionID   string           `json:"transactionID" db:"transaction_id"`  // Primary key (UUID)
	ExternalTxnID   string           `json:"externalTxnID" db:"external_txn_id"` // Feed-assigned id, unique, dedup key
	CustomerID      string           `json:"customerID" db:"customer_id"`        // Owning customer
	Amount          int64            `json:"amount" db:"amount"`                 // Minor currency units, sign meaningful
	CurrencyCode    string           `json:"currencyCode" db:"currency_code"`    // ISO code
	Descriptor      string           `json:"descriptor" db:"descriptor"`         // Raw merchant-name string, may be empty
	Categories      []string         `json:"categories" db:"categories"`         // Coarse category tags from the feed
	TransactionDate time.Time        `json:"transactionDate" db:"transaction_date"`
	Resolution      ResolutionStatus `json:"resolution" db:"resolution"`
	MerchantID      *string          `json:"merchantID" db:"merchant_id"` // Non-null and immutable once RESOLVED
	AuditFields
}

// AbsAmount returns the absolute transaction amount in minor units.
// All ledger accrual math works on absolute values.
func (t CardTransaction) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}
