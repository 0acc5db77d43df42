package dto

import "time"

// CreateAPITokenRequest creates a machine token for the transaction feed.
type CreateAPITokenRequest struct {
	Name          string `json:"name" binding:"required"`
	ExpiresInDays *int   `json:"expiresInDays" binding:"omitempty,min=1"`
}

// APITokenResponse is the API representation of a stored token (never the secret).
type APITokenResponse struct {
	TokenID    string     `json:"tokenID"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// CreateAPITokenResponse returns the plaintext secret exactly once, at creation.
type CreateAPITokenResponse struct {
	APITokenResponse
	Token string `json:"token"`
}
