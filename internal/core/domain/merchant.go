package domain

import "time"

// MerchantStatus indicates the verification state of a merchant.
type MerchantStatus string

const (
	MerchantPending  MerchantStatus = "PENDING"
	MerchantVerified MerchantStatus = "VERIFIED"
	MerchantRejected MerchantStatus = "REJECTED"
)

// Merchant is a participating business. Only VERIFIED merchants are candidates
// for transaction matching. The engine reads merchants; the business-management
// subsystem owns them.
type Merchant struct {
	MerchantID    string         `json:"merchantID" db:"merchant_id"` // Primary key (UUID)
	Name          string         `json:"name" db:"name"`              // Canonical business name
	Status        MerchantStatus `json:"status" db:"status"`
	CategoryCodes []string       `json:"categoryCodes" db:"category_codes"` // Optional declared category codes
	AuditFields
}

// MerchantUserRole defines the role a user holds within a merchant.
type MerchantUserRole string

const (
	RoleOwner MerchantUserRole = "OWNER"
	RoleAdmin MerchantUserRole = "ADMIN"
	RoleStaff MerchantUserRole = "STAFF"
)

// MerchantUser represents a user's membership in a merchant.
type MerchantUser struct {
	UserID     string           `json:"userID" db:"user_id"`
	MerchantID string           `json:"merchantID" db:"merchant_id"`
	Role       MerchantUserRole `json:"role" db:"role"`
	JoinedAt   time.Time        `json:"joinedAt" db:"joined_at"`
}
