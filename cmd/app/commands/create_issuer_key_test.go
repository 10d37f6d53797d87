package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	membershipHTTPMocks "github.com/allisson/membertoken/internal/membership/http/mocks"
	membershipService "github.com/allisson/membertoken/internal/membership/service"
)

func TestRunCreateIssuerKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text-output", func(t *testing.T) {
		mockService := &membershipHTTPMocks.MockIssuerKeyService{}
		mockService.On("GenerateKey").Return("plain-key", "$argon2id$v=19$m=65536,t=3,p=4$hash", nil)

		var out bytes.Buffer
		err := RunCreateIssuerKey(mockService, logger, &out, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Issuer Key: plain-key")
		assert.Contains(t, out.String(), `ISSUER_KEY_HASHES="$argon2id$v=19$m=65536,t=3,p=4$hash"`)
		mockService.AssertExpectations(t)
	})

	t.Run("json-output-verifies", func(t *testing.T) {
		service := membershipService.NewIssuerKeyService()

		var out bytes.Buffer
		err := RunCreateIssuerKey(service, logger, &out, "json")
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
		assert.True(t, service.CompareKey(payload["issuer_key"], payload["hash"]))
	})

	t.Run("generate-error", func(t *testing.T) {
		mockService := &membershipHTTPMocks.MockIssuerKeyService{}
		mockService.On("GenerateKey").Return("", "", errors.New("entropy"))

		err := RunCreateIssuerKey(mockService, logger, &bytes.Buffer{}, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create issuer key")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateIssuerKey(nil, logger, &bytes.Buffer{}, "xml")
		require.Error(t, err)
	})
}
