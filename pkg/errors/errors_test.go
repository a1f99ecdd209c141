package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryCodes(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"bad request", NewBadRequest("field missing", cause), ErrBadRequest},
		{"unauthorized", Unauthorized(cause), ErrUnauthorized},
		{"policy violation", PolicyViolation("too short"), ErrPolicyViolation},
		{"unknown policy", UnknownPolicy("bogus"), ErrUnknownPolicy},
		{"token issue failed", TokenIssueFailed(cause), ErrTokenIssueFailed},
		{"account not found", AccountNotFound(cause), ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.True(t, IsCode(tt.err, tt.code))
		})
	}
}

func TestIsCodeSeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", AccountNotFound(nil))
	assert.True(t, IsCode(wrapped, ErrAccountNotFound))
	assert.False(t, IsCode(wrapped, ErrPolicyViolation))
	assert.False(t, IsCode(errors.New("plain"), ErrAccountNotFound))
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewBadRequest("field missing", cause)

	assert.Contains(t, err.Error(), "field missing")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}
