package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewSessionTokenService("test-secret", time.Hour)
	accountID := uuid.New()
	sessionID := uuid.New().String()

	token, err := svc.Generate(accountID, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, accountID.String(), claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewSessionTokenService("secret-a", time.Hour)
	verifier := NewSessionTokenService("secret-b", time.Hour)

	token, err := issuer.Generate(uuid.New(), uuid.New().String())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewSessionTokenService("test-secret", -time.Minute)

	token, err := svc.Generate(uuid.New(), uuid.New().String())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewSessionTokenService("test-secret", time.Hour)

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsEmptySessionID(t *testing.T) {
	svc := NewSessionTokenService("test-secret", time.Hour)

	token, err := svc.Generate(uuid.New(), "")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
