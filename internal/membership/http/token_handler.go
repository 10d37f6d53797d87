// Package http provides HTTP handlers for membership token issuance and verification.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/membertoken/internal/errors"
	"github.com/allisson/membertoken/internal/httputil"
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
	"github.com/allisson/membertoken/internal/membership/http/dto"
	membershipUseCase "github.com/allisson/membertoken/internal/membership/usecase"
	customValidation "github.com/allisson/membertoken/internal/validation"
)

// TokenHandler handles HTTP requests for membership token operations.
type TokenHandler struct {
	tokenUseCase membershipUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase membershipUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueHandler issues a membership token for a user.
// POST /v1/membership/tokens - Requires an issuer key.
// Returns 201 Created with the token and its issue time.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	issued, err := h.tokenUseCase.Issue(c.Request.Context(), req.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("membership token issued", slog.String("user_id", issued.UserID))

	c.JSON(http.StatusCreated, dto.MapIssuedTokenToResponse(issued))
}

// VerifyHandler verifies a membership token.
// POST /v1/membership/tokens/verify - Public, rate limited per client IP.
// Returns 200 OK with the token owner and age, or 422 when the token is rejected.
func (h *TokenHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.tokenUseCase.Verify(c.Request.Context(), req.Token)
	if err != nil {
		h.handleVerifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerificationResultToResponse(result))
}

// handleVerifyError answers rejected tokens with a stable code. The underlying cause
// is logged but never returned, so callers cannot tell a wrong key from tampering.
func (h *TokenHandler) handleVerifyError(c *gin.Context, err error) {
	var response httputil.ErrorResponse

	switch {
	case apperrors.Is(err, membershipDomain.ErrTokenExpired):
		response = httputil.ErrorResponse{
			Error:   "token_expired",
			Message: "The token is older than the allowed maximum age",
		}
	case apperrors.Is(err, membershipDomain.ErrIntegrity):
		response = httputil.ErrorResponse{
			Error:   "token_integrity_failed",
			Message: "The token failed its integrity check",
		}
	case apperrors.Is(err, membershipDomain.ErrInvalidToken):
		response = httputil.ErrorResponse{
			Error:   "invalid_token",
			Message: "The token is invalid",
		}
	default:
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("membership token rejected",
		slog.String("reason", response.Error),
		slog.Any("error", err),
	)

	c.JSON(http.StatusUnprocessableEntity, response)
}
