package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusSent     NotificationStatus = "sent"
	NotificationStatusRetrying NotificationStatus = "retrying"
	NotificationStatusFailed   NotificationStatus = "failed"
)

// Email template codes used by the secondary-credential flows.
const (
	TemplateSecurityReset  = "SSO_SLS_RESET"
	TemplateSecurityForgot = "SSO_SLS_FORGOT"
)

// QueuedEmail is a pending outbound notification. The core flows only
// enqueue; the mail worker drains the queue and delivers.
type QueuedEmail struct {
	ID                uuid.UUID          `json:"id" db:"id"`
	TemplateCode      string             `json:"template_code" db:"template_code"`
	AccountID         uuid.UUID          `json:"account_id" db:"account_id"`
	RecipientOverride *string            `json:"recipient_override,omitempty" db:"recipient_override"`
	Payload           json.RawMessage    `json:"payload" db:"payload"`
	Status            NotificationStatus `json:"status" db:"status"`
	RetryCount        int                `json:"retry_count" db:"retry_count"`
	LastError         string             `json:"last_error,omitempty" db:"last_error"`
	NextRetryAt       *time.Time         `json:"next_retry_at,omitempty" db:"next_retry_at"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	SentAt            *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
}
