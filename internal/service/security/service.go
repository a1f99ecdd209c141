package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
	"github.com/jwalitptl/sso-api/internal/service/note"
	"github.com/jwalitptl/sso-api/internal/service/policy"
	"github.com/jwalitptl/sso-api/pkg/metrics"
	pkgsecurity "github.com/jwalitptl/sso-api/pkg/security"
)

// Service manages the secondary credential record for an account. It
// owns every write to account_security and keeps the at-most-one
// credential invariant by replacing, never updating.
type Service struct {
	repo     repository.SecurityRepository
	policies *policy.Registry
	hasher   pkgsecurity.Hasher
	notes    *note.Service
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(repo repository.SecurityRepository, policies *policy.Registry,
	hasher pkgsecurity.Hasher, notes *note.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		policies: policies,
		hasher:   hasher,
		notes:    notes,
		metrics:  m,
		now:      time.Now,
	}
}

// SetSecondary validates the plaintext against the policy for the
// credential type and replaces any existing credential. Expiry is
// derived from the policy's minimum lifetime; a zero lifetime leaves
// the credential open-ended.
func (s *Service) SetSecondary(ctx context.Context, accountID uuid.UUID, credentialType model.CredentialType, plaintext string) error {
	return s.set(ctx, accountID, credentialType, plaintext, false)
}

// SetTemporary stores a credential that is already expired, forcing a
// mandatory replacement at the next login. Used by the reset flow for
// randomized temporary credentials.
func (s *Service) SetTemporary(ctx context.Context, accountID uuid.UUID, credentialType model.CredentialType, plaintext string) error {
	return s.set(ctx, accountID, credentialType, plaintext, true)
}

func (s *Service) set(ctx context.Context, accountID uuid.UUID, credentialType model.CredentialType, plaintext string, expireNow bool) error {
	pol, err := s.policies.PolicyFor(credentialType)
	if err != nil {
		return err
	}

	if err := Evaluate(pol, plaintext); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash credential: %w", err)
	}

	now := s.now().UTC()
	cred := &model.SecondaryCredential{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      credentialType,
		Value:     hashed,
		CreatedAt: now,
	}

	switch {
	case expireNow:
		expires := now
		cred.ExpiresAt = &expires
	case pol.MinLifetimeDays > 0:
		expires := now.AddDate(0, 0, pol.MinLifetimeDays)
		cred.ExpiresAt = &expires
	}

	if err := s.repo.Replace(ctx, cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CredentialReplacements.Inc()
	}
	return nil
}

// Get returns the account's credential, or nil when none exists.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (*model.SecondaryCredential, error) {
	return s.repo.GetByAccount(ctx, accountID)
}

// IsActive reports whether the credential is still in force. An absent
// credential is active in the sense that no secondary authorization is
// required; a present credential goes inactive once its expiry passes,
// which signals the caller to force a replacement.
func (s *Service) IsActive(cred *model.SecondaryCredential) bool {
	if cred == nil {
		return true
	}
	if cred.ExpiresAt != nil && !s.now().UTC().Before(*cred.ExpiresAt) {
		return false
	}
	return true
}

// Revoke deletes the account's credential if one exists. A failure
// note is written whether or not a row was deleted; the historical
// system logged the event unconditionally and downstream tooling
// depends on seeing it, so the behavior is kept pending product
// review.
func (s *Service) Revoke(ctx context.Context, accountID uuid.UUID) error {
	existed, err := s.repo.Delete(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to revoke credential: %w", err)
	}

	if err := s.notes.Write(ctx, accountID, model.NoteAuthSecondaryFailure, accountID,
		map[string]interface{}{"revoked": true, "existed": existed}, model.NoteOriginAuto); err != nil {
		log.Error().Err(err).Str("account_id", accountID.String()).Msg("failed to write revoke note")
	}

	if s.metrics != nil {
		s.metrics.CredentialRevocations.Inc()
	}
	return nil
}
