package app

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/membertoken/internal/config"
	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
	"github.com/allisson/membertoken/internal/metrics"
)

const testKMSKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

// newTestConfig returns a configuration that needs neither a database nor a metrics port.
func newTestConfig() *config.Config {
	return &config.Config{
		LogLevel:            "error",
		ServerHost:          "localhost",
		ServerPort:          8080,
		DBDriver:            "invalid_driver",
		TokenSecrets:        "v1:first-membership-passphrase,v2:second-membership-passphrase",
		ActiveTokenSecretID: "v2",
		TokenAlgorithm:      "aes-gcm",
		MetricsNamespace:    "test_app",
	}
}

func TestNewContainer(t *testing.T) {
	cfg := newTestConfig()

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainerLogger(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "debug"})

	logger := container.Logger()
	require.NotNil(t, logger)

	// Calling Logger() again should return the same instance (singleton)
	assert.Same(t, logger, container.Logger())
}

func TestContainerLazyInitialization(t *testing.T) {
	container := NewContainer(newTestConfig())

	assert.Nil(t, container.logger)
	assert.Nil(t, container.cipher)

	container.Logger()

	assert.NotNil(t, container.logger)
	assert.Nil(t, container.cipher)
}

func TestContainerInitializationErrors(t *testing.T) {
	container := NewContainer(newTestConfig())

	_, err := container.DB()
	assert.Error(t, err)

	// The stored error is returned on later calls
	_, err = container.DB()
	assert.Error(t, err)

	_, err = container.TxManager()
	assert.Error(t, err)
}

func TestContainerTokenService_RoundTrip(t *testing.T) {
	for _, alg := range []string{"aes-gcm", "chacha20-poly1305"} {
		t.Run(alg, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.TokenAlgorithm = alg
			container := NewContainer(cfg)
			defer func() { assert.NoError(t, container.Shutdown(context.Background())) }()

			tokenService, err := container.TokenService()
			require.NoError(t, err)

			token, err := tokenService.Issue("user-42")
			require.NoError(t, err)

			result, err := tokenService.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "user-42", result.UserID)
			assert.True(t, result.IsValid)
		})
	}
}

func TestContainerTokenService_MaxAge(t *testing.T) {
	cfg := newTestConfig()
	cfg.TokenMaxAge = time.Hour
	container := NewContainer(cfg)
	defer func() { assert.NoError(t, container.Shutdown(context.Background())) }()

	tokenService, err := container.TokenService()
	require.NoError(t, err)

	token, err := tokenService.Issue("user-42")
	require.NoError(t, err)

	_, err = tokenService.Verify(token)
	assert.NoError(t, err)
}

func TestContainerKeyring_Errors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *config.Config)
		expectedErr error
	}{
		{
			name:        "MissingSecrets",
			mutate:      func(cfg *config.Config) { cfg.TokenSecrets = "" },
			expectedErr: cryptoDomain.ErrTokenSecretsNotSet,
		},
		{
			name:        "MissingActiveID",
			mutate:      func(cfg *config.Config) { cfg.ActiveTokenSecretID = "" },
			expectedErr: cryptoDomain.ErrActiveTokenSecretIDNotSet,
		},
		{
			name:        "UnknownActiveID",
			mutate:      func(cfg *config.Config) { cfg.ActiveTokenSecretID = "v9" },
			expectedErr: cryptoDomain.ErrActiveTokenSecretNotFound,
		},
		{
			name:        "ShortSecret",
			mutate:      func(cfg *config.Config) { cfg.TokenSecrets = "v2:short" },
			expectedErr: cryptoDomain.ErrSecretTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)
			container := NewContainer(cfg)

			_, err := container.TokenService()

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestContainerCipher_UnsupportedAlgorithm(t *testing.T) {
	cfg := newTestConfig()
	cfg.TokenAlgorithm = "des"
	container := NewContainer(cfg)

	_, err := container.Cipher()

	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
}

func TestContainerKeyring_KMS(t *testing.T) {
	ctx := context.Background()

	keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, testKMSKeyURI)
	require.NoError(t, err)
	defer func() { assert.NoError(t, keeper.Close()) }()

	wrapped, err := keeper.Encrypt(ctx, []byte("kms-wrapped-membership-passphrase"))
	require.NoError(t, err)

	cfg := newTestConfig()
	cfg.KMSProvider = "localsecrets"
	cfg.KMSKeyURI = testKMSKeyURI
	cfg.TokenSecrets = "k1:" + base64.StdEncoding.EncodeToString(wrapped)
	cfg.ActiveTokenSecretID = "k1"

	container := NewContainer(cfg)
	defer func() { assert.NoError(t, container.Shutdown(ctx)) }()

	keyring, err := container.Keyring()
	require.NoError(t, err)

	secret, ok := keyring.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "kms-wrapped-membership-passphrase", string(secret.Value))
}

func TestContainerBusinessMetrics(t *testing.T) {
	t.Run("DisabledIsNoOp", func(t *testing.T) {
		container := NewContainer(newTestConfig())

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.IsType(t, &metrics.NoOpBusinessMetrics{}, businessMetrics)
	})

	t.Run("Enabled", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.MetricsEnabled = true
		container := NewContainer(cfg)
		defer func() { assert.NoError(t, container.Shutdown(context.Background())) }()

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)

		metricsServer, err := container.MetricsServer()
		require.NoError(t, err)
		assert.NotNil(t, metricsServer)
	})
}

func TestContainerMetricsServer_Disabled(t *testing.T) {
	container := NewContainer(newTestConfig())

	metricsServer, err := container.MetricsServer()

	require.NoError(t, err)
	assert.Nil(t, metricsServer)
}

func TestContainerHTTPServer_WithoutIssuanceLog(t *testing.T) {
	ctx := context.Background()

	issuerKeyService := NewContainer(newTestConfig()).IssuerKeyService()
	plainKey, hashedKey, err := issuerKeyService.GenerateKey()
	require.NoError(t, err)

	cfg := newTestConfig()
	cfg.IssuerKeyHashes = hashedKey
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequestsPerSec = 10
	cfg.RateLimitBurst = 20
	container := NewContainer(cfg)
	defer func() { assert.NoError(t, container.Shutdown(ctx)) }()

	server, err := container.HTTPServer()
	require.NoError(t, err)
	handler := server.GetHandler()

	// Issue with the issuer key
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/membership/tokens", strings.NewReader(`{"user_id":"user-42"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+plainKey)
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tokenStart := strings.Index(w.Body.String(), `"token":"`) + len(`"token":"`)
	token := w.Body.String()[tokenStart:]
	token = token[:strings.Index(token, `"`)]

	// Verify without any credentials
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/membership/tokens/verify", strings.NewReader(`{"token":"`+token+`"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"user_id":"user-42"`)

	// Issuance log endpoint is not mounted
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/membership/issuance-logs", nil)
	req.Header.Set("Authorization", "Bearer "+plainKey)
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContainerHTTPServer_IssuanceLogNeedsDatabase(t *testing.T) {
	cfg := newTestConfig()
	cfg.IssuanceLogEnabled = true
	container := NewContainer(cfg)

	_, err := container.HTTPServer()

	assert.Error(t, err)
}

func TestContainerShutdown(t *testing.T) {
	container := NewContainer(newTestConfig())

	// Shutdown should not fail even if no components are initialized
	assert.NoError(t, container.Shutdown(context.Background()))
}
