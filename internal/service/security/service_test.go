package security

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/service/note"
	"github.com/jwalitptl/sso-api/internal/service/policy"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
	pkgsecurity "github.com/jwalitptl/sso-api/pkg/security"
)

type fakeSecurityRepo struct {
	creds map[uuid.UUID]*model.SecondaryCredential
}

func newFakeSecurityRepo() *fakeSecurityRepo {
	return &fakeSecurityRepo{creds: make(map[uuid.UUID]*model.SecondaryCredential)}
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

type fakeNoteRepo struct {
	notes []*model.AccountNote
}

func (r *fakeNoteRepo) Create(_ context.Context, n *model.AccountNote) error {
	r.notes = append(r.notes, n)
	return nil
}

func (r *fakeNoteRepo) byCode(code string) []*model.AccountNote {
	var out []*model.AccountNote
	for _, n := range r.notes {
		if n.EventCode == code {
			out = append(out, n)
		}
	}
	return out
}

func newTestService(t *testing.T) (*Service, *fakeSecurityRepo, *fakeNoteRepo) {
	t.Helper()
	repo := newFakeSecurityRepo()
	noteRepo := &fakeNoteRepo{}
	svc := NewService(repo, policy.NewRegistry(nil), pkgsecurity.NewLegacyHasher(),
		note.NewService(noteRepo), nil)
	return svc, repo, noteRepo
}

func TestSetSecondaryStoresHashedCredential(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	accountID := uuid.New()

	err := svc.SetSecondary(ctx, accountID, model.CredentialTypeStandard, "abcdefg1")
	require.NoError(t, err)

	cred := repo.creds[accountID]
	require.NotNil(t, cred)
	assert.Equal(t, accountID, cred.AccountID)
	assert.Equal(t, model.CredentialTypeStandard, cred.Type)
	assert.NotEqual(t, "abcdefg1", cred.Value)
	assert.Len(t, cred.Value, 40)
	assert.Nil(t, cred.ExpiresAt)
}

func TestSetSecondaryReplacesExisting(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	accountID := uuid.New()

	require.NoError(t, svc.SetSecondary(ctx, accountID, model.CredentialTypeStandard, "abcdefg1"))
	first := repo.creds[accountID]

	require.NoError(t, svc.SetSecondary(ctx, accountID, model.CredentialTypeStandard, "hijklmn2"))
	second := repo.creds[accountID]

	assert.Len(t, repo.creds, 1)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Value, second.Value)
}

func TestSetSecondaryRejectsPolicyViolation(t *testing.T) {
	svc, repo, _ := newTestService(t)

	err := svc.SetSecondary(context.Background(), uuid.New(), model.CredentialTypeStandard, "abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPolicyViolation))
	assert.Empty(t, repo.creds)
}

func TestSetSecondaryUnknownPolicy(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.SetSecondary(context.Background(), uuid.New(), model.CredentialType("bogus"), "abcdefg1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnknownPolicy))
}

func TestSetSecondaryExpiryFromPolicyLifetime(t *testing.T) {
	svc, repo, _ := newTestService(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	accountID := uuid.New()

	// Admin policy carries a 90 day minimum lifetime.
	require.NoError(t, svc.SetSecondary(context.Background(), accountID, model.CredentialTypeAdmin, "abcdefgh1234!x"))

	cred := repo.creds[accountID]
	require.NotNil(t, cred.ExpiresAt)
	assert.Equal(t, now.AddDate(0, 0, 90), *cred.ExpiresAt)
}

func TestSetTemporaryExpiresImmediately(t *testing.T) {
	svc, repo, _ := newTestService(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	accountID := uuid.New()

	require.NoError(t, svc.SetTemporary(context.Background(), accountID, model.CredentialTypeStandard, "abcdefg1"))

	cred := repo.creds[accountID]
	require.NotNil(t, cred.ExpiresAt)
	assert.Equal(t, now, *cred.ExpiresAt)
	assert.False(t, svc.IsActive(cred))
}

func TestIsActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	assert.True(t, svc.IsActive(nil), "absent credential means none required")

	future := now.Add(time.Hour)
	assert.True(t, svc.IsActive(&model.SecondaryCredential{ExpiresAt: &future}))

	past := now.Add(-time.Hour)
	assert.False(t, svc.IsActive(&model.SecondaryCredential{ExpiresAt: &past}))

	assert.True(t, svc.IsActive(&model.SecondaryCredential{}), "nil expiry never lapses")
}

func TestRevokeDeletesAndAlwaysNotes(t *testing.T) {
	svc, repo, noteRepo := newTestService(t)
	ctx := context.Background()
	accountID := uuid.New()

	require.NoError(t, svc.SetSecondary(ctx, accountID, model.CredentialTypeStandard, "abcdefg1"))
	require.NoError(t, svc.Revoke(ctx, accountID))
	assert.Empty(t, repo.creds)
	assert.Len(t, noteRepo.byCode(model.NoteAuthSecondaryFailure), 1)

	// Revoking again is a no-op delete but still writes the event.
	require.NoError(t, svc.Revoke(ctx, accountID))
	assert.Len(t, noteRepo.byCode(model.NoteAuthSecondaryFailure), 2)
}
