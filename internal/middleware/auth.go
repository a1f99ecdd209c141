package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/sso-api/pkg/auth"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
)

const (
	ContextAccountID = "account_id"
	ContextSessionID = "session_id"
)

// AuthMiddleware validates the login-session token and exposes the
// account and session IDs the secondary-credential handlers act on.
type AuthMiddleware struct {
	tokens auth.SessionTokenService
}

func NewAuthMiddleware(tokens auth.SessionTokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, apperrors.Unauthorized(errors.New("missing session token")))
			return
		}

		claims, err := m.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c, apperrors.Unauthorized(err))
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextSessionID, claims.SessionID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": appErr.Message,
	})
}
