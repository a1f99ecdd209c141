package security

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/sso-api/internal/handler"
	"github.com/jwalitptl/sso-api/internal/middleware"
	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/service/reset"
	"github.com/jwalitptl/sso-api/internal/service/security"
	apperrors "github.com/jwalitptl/sso-api/pkg/errors"
)

// Handler exposes the secondary-credential subsystem to the
// authentication flow.
type Handler struct {
	authorizer *security.Authorizer
	records    *security.Service
	resets     *reset.Service
	resetLimit *middleware.RateLimiter
}

func NewHandler(authorizer *security.Authorizer, records *security.Service,
	resets *reset.Service, resetLimit *middleware.RateLimiter) *Handler {
	return &Handler{
		authorizer: authorizer,
		records:    records,
		resets:     resets,
		resetLimit: resetLimit,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/security/status", h.Status)
	r.POST("/security/authorize", h.Authorize)
	r.POST("/security/deauthorize", h.Deauthorize)
	r.PUT("/security", h.SetCredential)
	r.DELETE("/security", h.RevokeCredential)
	r.POST("/security/reset", h.resetLimit.RateLimit(), h.RequestReset)
	r.POST("/security/reset/confirm", h.resetLimit.RateLimit(), h.ConfirmReset)
	r.POST("/security/temporary", h.resetLimit.RateLimit(), h.IssueTemporary)
}

type authorizeRequest struct {
	Password     string `json:"password" binding:"required"`
	ForceRefresh bool   `json:"force_refresh"`
}

type setCredentialRequest struct {
	Type     model.CredentialType `json:"type" binding:"required"`
	Password string               `json:"password" binding:"required"`
}

type confirmResetRequest struct {
	Code     string               `json:"code" binding:"required"`
	Type     model.CredentialType `json:"type" binding:"required"`
	Password string               `json:"password" binding:"required"`
}

type issueTemporaryRequest struct {
	Type model.CredentialType `json:"type" binding:"required"`
}

func (h *Handler) Status(c *gin.Context) {
	accountID, sessionID := sessionIdentity(c)

	state, err := h.authorizer.State(c.Request.Context(), accountID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	cred, err := h.records.Get(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"state":              state,
		"credential_active":  h.records.IsActive(cred),
		"replacement_needed": cred != nil && !h.records.IsActive(cred),
	}))
}

func (h *Handler) Authorize(c *gin.Context) {
	accountID, sessionID := sessionIdentity(c)

	var req authorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequest("password is required", err))
		return
	}

	ok, err := h.authorizer.Authorize(c.Request.Context(), accountID, sessionID, req.Password, req.ForceRefresh)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid security password"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"authorized": true}))
}

func (h *Handler) Deauthorize(c *gin.Context) {
	_, sessionID := sessionIdentity(c)

	if err := h.authorizer.Deauthorize(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deauthorized": true}))
}

func (h *Handler) SetCredential(c *gin.Context) {
	accountID, _ := sessionIdentity(c)

	var req setCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequest("type and password are required", err))
		return
	}

	if err := h.records.SetSecondary(c.Request.Context(), accountID, req.Type, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RevokeCredential(c *gin.Context) {
	accountID, _ := sessionIdentity(c)

	if err := h.records.Revoke(c.Request.Context(), accountID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RequestReset(c *gin.Context) {
	accountID, _ := sessionIdentity(c)

	// Unknown accounts get the same response as known ones so the
	// endpoint cannot be used to probe for accounts.
	_, err := h.resets.RequestResetToken(c.Request.Context(), accountID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{
		"message": "if the account exists, a reset email has been queued",
	}))
}

func (h *Handler) ConfirmReset(c *gin.Context) {
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequest("code, type and password are required", err))
		return
	}

	if err := h.resets.ConfirmReset(c.Request.Context(), req.Code, req.Type, req.Password); err != nil {
		if errors.Is(err, reset.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or expired reset token"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) IssueTemporary(c *gin.Context) {
	accountID, _ := sessionIdentity(c)

	var req issueTemporaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequest("type is required", err))
		return
	}

	_, err := h.resets.IssueRandomPassword(c.Request.Context(), accountID, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{
		"message": "if the account exists, a temporary password has been emailed",
	}))
}

func sessionIdentity(c *gin.Context) (uuid.UUID, string) {
	accountID, _ := c.Get(middleware.ContextAccountID)
	sessionID := c.GetString(middleware.ContextSessionID)

	id, _ := accountID.(uuid.UUID)
	return id, sessionID
}

func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrBadRequest:
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(appErr.Message))
			return
		case apperrors.ErrPolicyViolation:
			c.JSON(http.StatusUnprocessableEntity, handler.NewErrorResponse(appErr.Message))
			return
		case apperrors.ErrUnknownPolicy:
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(appErr.Message))
			return
		case apperrors.ErrTokenIssueFailed:
			c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("try again later"))
			return
		case apperrors.ErrAccountNotFound:
			c.JSON(http.StatusNotFound, handler.NewErrorResponse(appErr.Message))
			return
		}
	}

	c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
}
