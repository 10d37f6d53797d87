package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/membertoken/internal/httputil"
	"github.com/allisson/membertoken/internal/membership/http/dto"
	membershipUseCase "github.com/allisson/membertoken/internal/membership/usecase"
)

// IssuanceLogHandler handles HTTP requests for the issuance log.
type IssuanceLogHandler struct {
	issuanceLogUseCase membershipUseCase.IssuanceLogUseCase
	logger             *slog.Logger
}

// NewIssuanceLogHandler creates a new issuance log handler with required dependencies.
func NewIssuanceLogHandler(
	issuanceLogUseCase membershipUseCase.IssuanceLogUseCase,
	logger *slog.Logger,
) *IssuanceLogHandler {
	return &IssuanceLogHandler{
		issuanceLogUseCase: issuanceLogUseCase,
		logger:             logger,
	}
}

// ListHandler lists issuance log entries, newest first.
// GET /v1/membership/issuance-logs?offset=0&limit=50 - Requires an issuer key.
func (h *IssuanceLogHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	issuanceLogs, err := h.issuanceLogUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIssuanceLogsToListResponse(issuanceLogs))
}
