package reset

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/sso-api/internal/model"
	noteService "github.com/jwalitptl/sso-api/internal/service/note"
	notificationService "github.com/jwalitptl/sso-api/internal/service/notification"
	"github.com/jwalitptl/sso-api/internal/service/policy"
	securityService "github.com/jwalitptl/sso-api/internal/service/security"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
	pkgsecurity "github.com/jwalitptl/sso-api/pkg/security"
)

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*model.Account
	err      error
}

func (r *fakeAccountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	if acct, ok := r.accounts[id]; ok {
		return acct, nil
	}
	return nil, apperrors.AccountNotFound(nil)
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, acct := range r.accounts {
		if acct.Email == email {
			return acct, nil
		}
	}
	return nil, apperrors.AccountNotFound(nil)
}

type fakeSecurityRepo struct {
	creds map[uuid.UUID]*model.SecondaryCredential
}

func (r *fakeSecurityRepo) GetByAccount(_ context.Context, accountID uuid.UUID) (*model.SecondaryCredential, error) {
	return r.creds[accountID], nil
}

func (r *fakeSecurityRepo) Replace(_ context.Context, cred *model.SecondaryCredential) error {
	r.creds[cred.AccountID] = cred
	return nil
}

func (r *fakeSecurityRepo) Delete(_ context.Context, accountID uuid.UUID) (bool, error) {
	_, existed := r.creds[accountID]
	delete(r.creds, accountID)
	return existed, nil
}

type fakeTokenRepo struct {
	tokens  map[string]*model.ResetToken
	failing bool
}

func (r *fakeTokenRepo) Issue(_ context.Context, accountID uuid.UUID, purpose model.TokenPurpose, validity time.Duration) (*model.ResetToken, error) {
	if r.failing {
		return nil, errors.New("token store unavailable")
	}
	now := time.Now().UTC()
	token := &model.ResetToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Code:      uuid.New().String(),
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(validity),
	}
	r.tokens[token.Code] = token
	return token, nil
}

func (r *fakeTokenRepo) GetByCode(_ context.Context, code string, purpose model.TokenPurpose) (*model.ResetToken, error) {
	token, ok := r.tokens[code]
	if !ok || token.Purpose != purpose {
		return nil, nil
	}
	return token, nil
}

func (r *fakeTokenRepo) Redeem(_ context.Context, code string) error {
	token, ok := r.tokens[code]
	if !ok || token.RedeemedAt != nil {
		return errors.New("token not redeemable")
	}
	now := time.Now().UTC()
	token.RedeemedAt = &now
	return nil
}

func (r *fakeTokenRepo) DeleteExpiredBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeNoteRepo struct {
	notes []*model.AccountNote
}

func (r *fakeNoteRepo) Create(_ context.Context, n *model.AccountNote) error {
	r.notes = append(r.notes, n)
	return nil
}

type fakeNotificationRepo struct {
	queued []*model.QueuedEmail
}

func (r *fakeNotificationRepo) Enqueue(_ context.Context, email *model.QueuedEmail) error {
	r.queued = append(r.queued, email)
	return nil
}

func (r *fakeNotificationRepo) GetPending(_ context.Context, _ int) ([]*model.QueuedEmail, error) {
	return r.queued, nil
}

func (r *fakeNotificationRepo) MarkSent(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeNotificationRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ *time.Time) error {
	return nil
}

type resetFixture struct {
	svc          *Service
	accounts     *fakeAccountRepo
	securityRepo *fakeSecurityRepo
	tokens       *fakeTokenRepo
	notes        *fakeNoteRepo
	queue        *fakeNotificationRepo
	accountID    uuid.UUID
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	accountID := uuid.New()
	accounts := &fakeAccountRepo{accounts: map[uuid.UUID]*model.Account{
		accountID: {Base: model.Base{ID: accountID}, Email: "member@example.com", Status: model.AccountStatusActive},
	}}
	securityRepo := &fakeSecurityRepo{creds: make(map[uuid.UUID]*model.SecondaryCredential)}
	tokens := &fakeTokenRepo{tokens: make(map[string]*model.ResetToken)}
	noteRepo := &fakeNoteRepo{}
	queue := &fakeNotificationRepo{}

	notes := noteService.NewService(noteRepo)
	notifications := notificationService.NewService(queue, nil)
	records := securityService.NewService(securityRepo, policy.NewRegistry(nil),
		pkgsecurity.NewLegacyHasher(), notes, nil)

	svc := NewService(accounts, records, tokens, notes, notifications, 24*time.Hour, nil)

	return &resetFixture{
		svc:          svc,
		accounts:     accounts,
		securityRepo: securityRepo,
		tokens:       tokens,
		notes:        noteRepo,
		queue:        queue,
		accountID:    accountID,
	}
}

func payloadOf(t *testing.T, email *model.QueuedEmail) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(email.Payload, &payload))
	return payload
}

func TestRequestResetTokenQueuesEmail(t *testing.T) {
	f := newResetFixture(t)

	ok, err := f.svc.RequestResetToken(context.Background(), f.accountID, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, f.queue.queued, 1)
	queued := f.queue.queued[0]
	assert.Equal(t, model.TemplateSecurityReset, queued.TemplateCode)
	assert.Equal(t, f.accountID, queued.AccountID)

	payload := payloadOf(t, queued)
	assert.Equal(t, "203.0.113.9", payload["ip_address"])
	assert.NotEmpty(t, payload["reset_code"])

	require.Len(t, f.notes.notes, 1)
	assert.Equal(t, model.NoteSecurityResetRequest, f.notes.notes[0].EventCode)
}

func TestRequestResetTokenUnknownOrigin(t *testing.T) {
	f := newResetFixture(t)

	ok, err := f.svc.RequestResetToken(context.Background(), f.accountID, "")
	require.NoError(t, err)
	assert.True(t, ok)

	payload := payloadOf(t, f.queue.queued[0])
	assert.Equal(t, OriginUnavailable, payload["ip_address"])
}

func TestRequestResetTokenUnknownAccountIsSilent(t *testing.T) {
	f := newResetFixture(t)

	ok, err := f.svc.RequestResetToken(context.Background(), uuid.New(), "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.queue.queued)
	assert.Empty(t, f.notes.notes)
}

func TestRequestResetTokenSurfacesLookupFailure(t *testing.T) {
	f := newResetFixture(t)
	f.accounts.err = errors.New("connection refused")

	// A storage outage must surface, not masquerade as a missing
	// account.
	ok, err := f.svc.RequestResetToken(context.Background(), f.accountID, "203.0.113.9")
	assert.False(t, ok)
	require.Error(t, err)
	assert.False(t, apperrors.IsCode(err, apperrors.ErrAccountNotFound))
	assert.Empty(t, f.queue.queued)
}

func TestIssueRandomPasswordSurfacesLookupFailure(t *testing.T) {
	f := newResetFixture(t)
	f.accounts.err = errors.New("connection refused")

	ok, err := f.svc.IssueRandomPassword(context.Background(), f.accountID, model.CredentialTypeStandard)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Empty(t, f.queue.queued)
	assert.Nil(t, f.securityRepo.creds[f.accountID])
}

func TestRequestResetTokenIssuerFailure(t *testing.T) {
	f := newResetFixture(t)
	f.tokens.failing = true

	ok, err := f.svc.RequestResetToken(context.Background(), f.accountID, "203.0.113.9")
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrTokenIssueFailed))
}

func TestIssueRandomPasswordStoresExpiredCredential(t *testing.T) {
	f := newResetFixture(t)

	ok, err := f.svc.IssueRandomPassword(context.Background(), f.accountID, model.CredentialTypeStandard)
	require.NoError(t, err)
	assert.True(t, ok)

	cred := f.securityRepo.creds[f.accountID]
	require.NotNil(t, cred)
	require.NotNil(t, cred.ExpiresAt, "temporary credential must arrive expired")
	assert.False(t, cred.ExpiresAt.After(time.Now().UTC()))

	require.Len(t, f.queue.queued, 1)
	queued := f.queue.queued[0]
	assert.Equal(t, model.TemplateSecurityForgot, queued.TemplateCode)

	payload := payloadOf(t, queued)
	plaintext, _ := payload["temp_password"].(string)
	require.NotEmpty(t, plaintext)
	assert.Len(t, plaintext, 17)
	assert.Equal(t, byte('!'), plaintext[len(plaintext)-1])

	require.Len(t, f.notes.notes, 1)
	assert.Equal(t, model.NoteSecurityResetConfirmed, f.notes.notes[0].EventCode)
}

func TestIssueRandomPasswordUnknownAccountIsSilent(t *testing.T) {
	f := newResetFixture(t)

	ok, err := f.svc.IssueRandomPassword(context.Background(), uuid.New(), model.CredentialTypeStandard)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.queue.queued)
}

func TestConfirmResetRedeemsToken(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestResetToken(ctx, f.accountID, "")
	require.NoError(t, err)

	payload := payloadOf(t, f.queue.queued[0])
	code := payload["reset_code"].(string)

	require.NoError(t, f.svc.ConfirmReset(ctx, code, model.CredentialTypeStandard, "abcdefg1"))
	assert.NotNil(t, f.securityRepo.creds[f.accountID])
	assert.NotNil(t, f.tokens.tokens[code].RedeemedAt)

	// A redeemed token cannot be used again.
	err = f.svc.ConfirmReset(ctx, code, model.CredentialTypeStandard, "hijklmn2")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConfirmResetUnknownToken(t *testing.T) {
	f := newResetFixture(t)

	err := f.svc.ConfirmReset(context.Background(), "no-such-code", model.CredentialTypeStandard, "abcdefg1")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConfirmResetStillValidatesPolicy(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestResetToken(ctx, f.accountID, "")
	require.NoError(t, err)
	code := payloadOf(t, f.queue.queued[0])["reset_code"].(string)

	err = f.svc.ConfirmReset(ctx, code, model.CredentialTypeStandard, "abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPolicyViolation))
	assert.Nil(t, f.tokens.tokens[code].RedeemedAt, "token survives a rejected candidate")
}
