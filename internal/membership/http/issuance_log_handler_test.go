package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
	"github.com/allisson/membertoken/internal/membership/http/dto"
	"github.com/allisson/membertoken/internal/membership/http/mocks"
)

func setupTestIssuanceLogHandler(t *testing.T) (*IssuanceLogHandler, *mocks.MockIssuanceLogUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockIssuanceLogUseCase{}
	handler := NewIssuanceLogHandler(mockUseCase, slog.Default())

	return handler, mockUseCase
}

func TestIssuanceLogHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestIssuanceLogHandler(t)

		issuanceLogs := []*membershipDomain.IssuanceLog{
			{
				ID:        uuid.Must(uuid.NewV7()),
				UserID:    "user-42",
				TokenHash: "ab12",
				IssuedAt:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			},
		}
		mockUseCase.On("List", mock.Anything, 0, 50).Return(issuanceLogs, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/membership/issuance-logs", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListIssuanceLogsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, issuanceLogs[0].ID.String(), response.Data[0].ID)
		assert.Equal(t, "user-42", response.Data[0].UserID)
		assert.Equal(t, "ab12", response.Data[0].TokenHash)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_CustomPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestIssuanceLogHandler(t)

		mockUseCase.On("List", mock.Anything, 10, 5).
			Return([]*membershipDomain.IssuanceLog{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/membership/issuance-logs?offset=10&limit=5", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestIssuanceLogHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/membership/issuance-logs?limit=1000", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestIssuanceLogHandler(t)

		mockUseCase.On("List", mock.Anything, 0, 50).Return(nil, errors.New("database error")).Once()

		c, w := createTestContext(http.MethodGet, "/v1/membership/issuance-logs", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}
