package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NoteOrigin records whether a note was written by a person or by the
// system itself.
type NoteOrigin string

const (
	NoteOriginManual NoteOrigin = "manual"
	NoteOriginAuto   NoteOrigin = "auto"
)

// Account note event codes emitted by the secondary-credential
// subsystem.
const (
	NoteAuthSecondarySuccess   = "ACCOUNT/AUTH_SECONDARY_SUCCESS"
	NoteAuthSecondaryFailure   = "ACCOUNT/AUTH_SECONDARY_FAILURE"
	NoteSecurityResetRequest   = "ACCOUNT/SECURITY_RESET_REQUEST"
	NoteSecurityResetConfirmed = "ACCOUNT/SECURITY_RESET_CONFIRMED"
)

// AccountNote is an audit entry attached to an account.
type AccountNote struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	AccountID uuid.UUID       `json:"account_id" db:"account_id"`
	EventCode string          `json:"event_code" db:"event_code"`
	SubjectID uuid.UUID       `json:"subject_id" db:"subject_id"`
	Context   json.RawMessage `json:"context" db:"context"`
	Origin    NoteOrigin      `json:"origin" db:"origin"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
