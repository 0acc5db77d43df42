package dto

import (
	"time"

	"github.com/cardperks/card_perks_app/internal/core/domain"
)

// IngestTransactionRequest is the payload the transaction feed delivers for one
// bank transaction. Re-delivering the same externalTxnID must not create a
// duplicate.
type IngestTransactionRequest struct {
	ExternalTxnID   string    `json:"externalTxnID" binding:"required"`
	CustomerID      string    `json:"customerID" binding:"required"`
	Amount          int64     `json:"amount" binding:"required"` // Minor units, sign meaningful
	CurrencyCode    string    `json:"currencyCode" binding:"required,len=3"`
	Descriptor      string    `json:"descriptor"` // Raw merchant-name string, may be empty
	Categories      []string  `json:"categories"`
	TransactionDate time.Time `json:"transactionDate" binding:"required"`
}

// ForceAssignRequest is the administrative override payload that bypasses the
// matcher and pins a transaction to a merchant.
type ForceAssignRequest struct {
	MerchantID string `json:"merchantID" binding:"required"`
}

// TransactionResponse is the API representation of a card transaction.
type TransactionResponse struct {
	TransactionID   string    `json:"transactionID"`
	ExternalTxnID   string    `json:"externalTxnID"`
	CustomerID      string    `json:"customerID"`
	Amount          int64     `json:"amount"`
	CurrencyCode    string    `json:"currencyCode"`
	Descriptor      string    `json:"descriptor"`
	Categories      []string  `json:"categories"`
	TransactionDate time.Time `json:"transactionDate"`
	Resolution      string    `json:"resolution"`
	MerchantID      *string   `json:"merchantID,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its API representation.
func ToTransactionResponse(txn *domain.CardTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		ExternalTxnID:   txn.ExternalTxnID,
		CustomerID:      txn.CustomerID,
		Amount:          txn.Amount,
		CurrencyCode:    txn.CurrencyCode,
		Descriptor:      txn.Descriptor,
		Categories:      txn.Categories,
		TransactionDate: txn.TransactionDate,
		Resolution:      string(txn.Resolution),
		MerchantID:      txn.MerchantID,
	}
}

// SyncCompleteResponse reports the outcome of one dispatcher drain.
type SyncCompleteResponse struct {
	Processed int `json:"processed"`
}
