package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose scopes a system token to the flow that may redeem it.
type TokenPurpose string

const (
	TokenPurposeSecurityReset TokenPurpose = "security_reset"
)

// ResetToken is a single-use code letting a user replace their
// secondary credential without knowing the old one.
type ResetToken struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	AccountID  uuid.UUID    `json:"account_id" db:"account_id"`
	Code       string       `json:"code" db:"code"`
	Purpose    TokenPurpose `json:"purpose" db:"purpose"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at" db:"expires_at"`
	RedeemedAt *time.Time   `json:"redeemed_at,omitempty" db:"redeemed_at"`
}

// Redeemable reports whether the token can still be used.
func (t *ResetToken) Redeemable(now time.Time) bool {
	return t.RedeemedAt == nil && now.Before(t.ExpiresAt)
}
