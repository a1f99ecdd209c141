package model

import (
	"time"

	"github.com/google/uuid"
)

// CredentialType identifies which security policy applies to a
// secondary credential. Set at creation, immutable afterwards.
type CredentialType string

const (
	CredentialTypeStandard CredentialType = "standard-secondary"
	CredentialTypeAdmin    CredentialType = "admin-secondary"
)

// SecurityPolicy holds the strength rules for one credential type.
// A threshold of zero means the rule is not enforced.
type SecurityPolicy struct {
	MinLength          int `json:"min_length" mapstructure:"min_length"`
	MinAlpha           int `json:"min_alpha" mapstructure:"min_alpha"`
	MinNumeric         int `json:"min_numeric" mapstructure:"min_numeric"`
	MinNonAlphaNumeric int `json:"min_non_alphanumeric" mapstructure:"min_non_alphanumeric"`
	MinLifetimeDays    int `json:"min_lifetime_days" mapstructure:"min_lifetime_days"`
}

// SecondaryCredential is the stored second security layer for an
// account. At most one exists per account; the security service
// enforces this by replacing rather than updating.
type SecondaryCredential struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	AccountID uuid.UUID      `json:"account_id" db:"account_id"`
	Type      CredentialType `json:"type" db:"type"`
	Value     string         `json:"-" db:"value"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty" db:"expires_at"`
}
