package security

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/service/note"
	"github.com/jwalitptl/sso-api/internal/session"
	"github.com/jwalitptl/sso-api/pkg/metrics"
	pkgsecurity "github.com/jwalitptl/sso-api/pkg/security"
)

// GraceSessionKey is the fixed session-store key holding the last
// successful authorization timestamp.
const GraceSessionKey = "sso_security_grace"

const graceTimeLayout = time.RFC3339

// State describes where an account's login session sits in the
// secondary-authorization lifecycle.
type State string

const (
	StateNoCredentialRequired  State = "no_credential_required"
	StateAwaitingAuthorization State = "awaiting_authorization"
	StateGracePeriodActive     State = "grace_period_active"
)

// Authorizer evaluates submitted secondary credentials and manages the
// per-session grace period. Repeated failures are audited but never
// blocked; lockout is a known gap, tracked in DESIGN.md.
type Authorizer struct {
	records  *Service
	sessions session.Store
	notes    *note.Service
	hasher   pkgsecurity.Hasher
	grace    time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewAuthorizer(records *Service, sessions session.Store, notes *note.Service,
	hasher pkgsecurity.Hasher, gracePeriod time.Duration, m *metrics.Metrics) *Authorizer {
	return &Authorizer{
		records:  records,
		sessions: sessions,
		notes:    notes,
		hasher:   hasher,
		grace:    gracePeriod,
		metrics:  m,
		now:      time.Now,
	}
}

// State resolves the current authorization state for the account and
// session. An expired credential still awaits authorization; it is the
// caller's cue to force a replacement, not an exemption.
func (a *Authorizer) State(ctx context.Context, accountID uuid.UUID, sessionID string) (State, error) {
	cred, err := a.records.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return StateNoCredentialRequired, nil
	}

	required, err := a.RequiresAuthorization(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !required {
		return StateGracePeriodActive, nil
	}
	return StateAwaitingAuthorization, nil
}

// RequiresAuthorization reports whether the session's grace period has
// lapsed. A missing or unreadable grace timestamp means authorization
// is due.
func (a *Authorizer) RequiresAuthorization(ctx context.Context, sessionID string) (bool, error) {
	cutoff := a.now().UTC().Add(-a.grace)

	raw, ok, err := a.sessions.Get(ctx, sessionID, GraceSessionKey)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}

	last, err := time.Parse(graceTimeLayout, raw)
	if err != nil {
		return true, nil
	}
	return !last.After(cutoff), nil
}

// Authorize checks a candidate against the stored credential. Accounts
// without a credential pass trivially. A match refreshes the grace
// timestamp when it is due or when forceRefresh is set. Every
// comparison outcome is audited; a mismatch is a normal false result,
// not an error.
func (a *Authorizer) Authorize(ctx context.Context, accountID uuid.UUID, sessionID, candidate string, forceRefresh bool) (bool, error) {
	cred, err := a.records.Get(ctx, accountID)
	if err != nil {
		return false, err
	}
	if cred == nil {
		return true, nil
	}

	if !a.hasher.Verify(cred.Value, candidate) {
		a.writeNote(ctx, cred.AccountID, model.NoteAuthSecondaryFailure, cred.ID)
		if a.metrics != nil {
			a.metrics.AuthorizeFailure.Inc()
		}
		return false, nil
	}

	a.writeNote(ctx, cred.AccountID, model.NoteAuthSecondarySuccess, cred.ID)

	required, err := a.RequiresAuthorization(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to read grace timestamp, refreshing")
		required = true
	}
	if required || forceRefresh {
		stamp := a.now().UTC().Format(graceTimeLayout)
		if err := a.sessions.Set(ctx, sessionID, GraceSessionKey, stamp, a.grace); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to update grace timestamp")
		}
	}

	if a.metrics != nil {
		a.metrics.AuthorizeSuccess.Inc()
	}
	return true, nil
}

// Deauthorize clears the grace timestamp so the next request prompts
// again.
func (a *Authorizer) Deauthorize(ctx context.Context, sessionID string) error {
	return a.sessions.Delete(ctx, sessionID, GraceSessionKey)
}

func (a *Authorizer) writeNote(ctx context.Context, accountID uuid.UUID, eventCode string, subjectID uuid.UUID) {
	if err := a.notes.Write(ctx, accountID, eventCode, subjectID, nil, model.NoteOriginAuto); err != nil {
		log.Error().Err(err).Str("event_code", eventCode).Msg("failed to write account note")
	}
}
