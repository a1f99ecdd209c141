package reset

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
	"github.com/jwalitptl/sso-api/internal/service/note"
	"github.com/jwalitptl/sso-api/internal/service/notification"
	"github.com/jwalitptl/sso-api/internal/service/security"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
	"github.com/jwalitptl/sso-api/pkg/metrics"
	pkgsecurity "github.com/jwalitptl/sso-api/pkg/security"
)

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// OriginUnavailable is recorded when the requester's network origin
// cannot be determined.
const OriginUnavailable = "Unavailable"

// Service drives the forgotten-credential flows: one-time reset
// tokens and randomized temporary credentials. Unknown accounts are a
// silent no-op so the endpoints cannot be used to enumerate accounts.
type Service struct {
	accounts      repository.AccountRepository
	records       *security.Service
	tokens        repository.TokenRepository
	notes         *note.Service
	notifications *notification.Service
	resetTTL      time.Duration
	metrics       *metrics.Metrics
}

func NewService(accounts repository.AccountRepository, records *security.Service,
	tokens repository.TokenRepository, notes *note.Service,
	notifications *notification.Service, resetTTL time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		accounts:      accounts,
		records:       records,
		tokens:        tokens,
		notes:         notes,
		notifications: notifications,
		resetTTL:      resetTTL,
		metrics:       m,
	}
}

// RequestResetToken mints a one-time reset token and queues the reset
// email. Returns false without error when the account does not exist;
// any other lookup failure propagates.
func (s *Service) RequestResetToken(ctx context.Context, accountID uuid.UUID, requestIP string) (bool, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}

	token, err := s.tokens.Issue(ctx, account.ID, model.TokenPurposeSecurityReset, s.resetTTL)
	if err != nil {
		return false, apperrors.TokenIssueFailed(err)
	}

	if err := s.notes.Write(ctx, account.ID, model.NoteSecurityResetRequest, account.ID,
		map[string]interface{}{"code": token.Code}, model.NoteOriginAuto); err != nil {
		log.Error().Err(err).Str("account_id", account.ID.String()).Msg("failed to write reset-request note")
	}

	if requestIP == "" {
		requestIP = OriginUnavailable
	}

	if err := s.notifications.Enqueue(ctx, model.TemplateSecurityReset, account.ID, nil, map[string]interface{}{
		"timestamp":  token.CreatedAt,
		"ip_address": requestIP,
		"reset_code": token.Code,
	}); err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.ResetTokensIssued.Inc()
	}
	return true, nil
}

// IssueRandomPassword generates a temporary credential, stores it
// already expired so the next login forces a replacement, and queues
// an email carrying the plaintext. The plaintext leaves the system
// only through the out-of-band mail channel; nothing else may log or
// return it.
func (s *Service) IssueRandomPassword(ctx context.Context, accountID uuid.UUID, credentialType model.CredentialType) (bool, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}

	plaintext, err := pkgsecurity.TempPassword()
	if err != nil {
		return false, err
	}

	// The generated shape targets typical policies but the actual
	// policy for the type still decides.
	if err := s.records.SetTemporary(ctx, account.ID, credentialType, plaintext); err != nil {
		return false, err
	}

	if err := s.notes.Write(ctx, account.ID, model.NoteSecurityResetConfirmed, account.ID,
		nil, model.NoteOriginAuto); err != nil {
		log.Error().Err(err).Str("account_id", account.ID.String()).Msg("failed to write reset-confirmed note")
	}

	if err := s.notifications.Enqueue(ctx, model.TemplateSecurityForgot, account.ID, nil, map[string]interface{}{
		"temp_password": plaintext,
	}); err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.TempPasswordsIssued.Inc()
	}
	return true, nil
}

// ConfirmReset redeems a reset token and sets the new credential. The
// token must be unredeemed and unexpired; it is consumed only after
// the new credential is stored.
func (s *Service) ConfirmReset(ctx context.Context, code string, credentialType model.CredentialType, newPlaintext string) error {
	token, err := s.tokens.GetByCode(ctx, code, model.TokenPurposeSecurityReset)
	if err != nil {
		return err
	}
	if token == nil || !token.Redeemable(time.Now().UTC()) {
		return ErrInvalidResetToken
	}

	if err := s.records.SetSecondary(ctx, token.AccountID, credentialType, newPlaintext); err != nil {
		return err
	}

	if err := s.tokens.Redeem(ctx, code); err != nil {
		return err
	}
	return nil
}
