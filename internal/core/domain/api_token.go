package domain

import "time"

// APIToken authenticates machine callers (the transaction feed producer and the
// sync webhook). Only a bcrypt hash of the secret is stored.
type APIToken struct {
	TokenID    string     `json:"tokenID" db:"token_id"` // Primary key (UUID)
	Name       string     `json:"name" db:"name"`
	TokenHash  string     `json:"-" db:"token_hash"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt  *time.Time `json:"expiresAt" db:"expires_at"`    // Nil means no expiry
	LastUsedAt *time.Time `json:"lastUsedAt" db:"last_used_at"` // Updated on successful validation
}
