package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal

	// Secondary-credential subsystem codes
	ErrPolicyViolation
	ErrUnknownPolicy
	ErrTokenIssueFailed
	ErrAccountNotFound
)

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// PolicyViolation reports a candidate credential that fails the
// strength rules of its policy. Recoverable: the caller re-prompts.
func PolicyViolation(rule string) *AppError {
	return &AppError{
		Code:    ErrPolicyViolation,
		Message: fmt.Sprintf("credential does not satisfy policy: %s", rule),
	}
}

// UnknownPolicy reports a credential type with no registered policy.
// This is a deployment misconfiguration, not a user error.
func UnknownPolicy(credentialType string) *AppError {
	return &AppError{
		Code:    ErrUnknownPolicy,
		Message: fmt.Sprintf("no security policy registered for type %q", credentialType),
	}
}

// TokenIssueFailed reports a token-issuer collaborator failure.
func TokenIssueFailed(err error) *AppError {
	return &AppError{
		Code:    ErrTokenIssueFailed,
		Message: "failed to issue reset token",
		Err:     err,
	}
}

func AccountNotFound(err error) *AppError {
	return &AppError{
		Code:    ErrAccountNotFound,
		Message: "account not found",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
