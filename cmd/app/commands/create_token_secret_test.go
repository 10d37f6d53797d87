package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
)

const testKMSKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

// Manual mocks for KMS since they might not be generated in all environments
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

func TestRunCreateTokenSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	randomGenerator := cryptoService.NewRandomGenerator()

	t.Run("plaintext", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateTokenSecret(ctx, nil, randomGenerator, logger, &out, "v1", "", "")
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`TOKEN_SECRETS="v1:[0-9a-f]{64}"`), out.String())
		assert.Contains(t, out.String(), `ACTIVE_TOKEN_SECRET_ID="v1"`)
		assert.NotContains(t, out.String(), "KMS_PROVIDER")
	})

	t.Run("default-id", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateTokenSecret(ctx, nil, randomGenerator, logger, &out, "", "", "")
		require.NoError(t, err)
		assert.Contains(t, out.String(), `ACTIVE_TOKEN_SECRET_ID="token-secret-`)
	})

	t.Run("kms-success", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateTokenSecret(
			ctx,
			mockService,
			randomGenerator,
			logger,
			&out,
			"v2",
			"localsecrets",
			"base64key://...",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `TOKEN_SECRETS="v2:ZW5jcnlwdGVk"`)
		assert.Contains(t, out.String(), `KMS_PROVIDER="localsecrets"`)

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("kms-output-loads-into-keyring", func(t *testing.T) {
		kmsService := cryptoService.NewKMSService()

		var out bytes.Buffer
		err := RunCreateTokenSecret(
			ctx,
			kmsService,
			randomGenerator,
			logger,
			&out,
			"v1",
			"localsecrets",
			testKMSKeyURI,
		)
		require.NoError(t, err)

		match := regexp.MustCompile(`TOKEN_SECRETS="([^"]+)"`).FindStringSubmatch(out.String())
		require.Len(t, match, 2)

		keeper, err := kmsService.OpenKeeper(ctx, testKMSKeyURI)
		require.NoError(t, err)
		defer func() { _ = keeper.Close() }()

		keyring, err := cryptoDomain.LoadKeyringWithKMS(ctx, keeper, match[1], "v1")
		require.NoError(t, err)
		defer keyring.Close()

		secret, ok := keyring.Get("v1")
		require.True(t, ok)
		assert.Len(t, secret.Value, 2*tokenSecretBytes)
	})

	t.Run("missing-kms-parameter", func(t *testing.T) {
		err := RunCreateTokenSecret(ctx, nil, randomGenerator, logger, nil, "", "localsecrets", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "required together")
	})

	t.Run("kms-open-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "invalid").Return(nil, errors.New("kms error"))

		err := RunCreateTokenSecret(
			ctx,
			mockService,
			randomGenerator,
			logger,
			&bytes.Buffer{},
			"v1",
			"localsecrets",
			"invalid",
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("kms-encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return(nil, errors.New("denied"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateTokenSecret(
			ctx,
			mockService,
			randomGenerator,
			logger,
			&bytes.Buffer{},
			"v1",
			"localsecrets",
			"base64key://...",
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to encrypt token secret with KMS")
		mockKeeper.AssertExpectations(t)
	})
}
