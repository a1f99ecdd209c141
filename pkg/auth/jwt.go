package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("expired session token")
)

// SessionClaims identify the login session and account acting on the
// secondary-credential endpoints. The session ID keys the grace-period
// entry in the session store.
type SessionClaims struct {
	AccountID uuid.UUID `json:"account_id"`
	SessionID string    `json:"session_id"`
	jwt.RegisteredClaims
}

// SessionTokenService issues and validates signed login-session tokens.
type SessionTokenService interface {
	Generate(accountID uuid.UUID, sessionID string) (string, error)
	Validate(token string) (*SessionClaims, error)
}

type sessionTokenService struct {
	secret []byte
	expiry time.Duration
}

func NewSessionTokenService(secret string, expiry time.Duration) SessionTokenService {
	return &sessionTokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (s *sessionTokenService) Generate(accountID uuid.UUID, sessionID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		AccountID: accountID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Subject:   accountID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *sessionTokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.AccountID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
