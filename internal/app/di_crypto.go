package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap token secrets.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the Argon2id/HKDF key deriver.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewArgon2KeyDeriver(cryptoService.DefaultArgon2Params)
	})
	return c.keyDeriver
}

// DigestService returns the SHA-256 digest service.
func (c *Container) DigestService() cryptoService.DigestService {
	c.digestServiceInit.Do(func() {
		c.digestService = cryptoService.NewDigestService()
	})
	return c.digestService
}

// RandomGenerator returns the CSPRNG-backed random generator.
func (c *Container) RandomGenerator() cryptoService.RandomGenerator {
	c.randomGeneratorInit.Do(func() {
		c.randomGenerator = cryptoService.NewRandomGenerator()
	})
	return c.randomGenerator
}

// Keyring returns the token secrets loaded from TOKEN_SECRETS, unwrapped through the
// KMS when KMS_KEY_URI is set.
func (c *Container) Keyring() (*cryptoDomain.Keyring, error) {
	var err error
	c.keyringInit.Do(func() {
		c.keyring, err = c.initKeyring()
		if err != nil {
			c.setInitError("keyring", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("keyring"); storedErr != nil {
		return nil, storedErr
	}
	return c.keyring, nil
}

// Cipher returns the passphrase cipher built from the keyring.
func (c *Container) Cipher() (*cryptoService.PassphraseCipher, error) {
	var err error
	c.cipherInit.Do(func() {
		c.cipher, err = c.initCipher()
		if err != nil {
			c.setInitError("cipher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cipher"); storedErr != nil {
		return nil, storedErr
	}
	return c.cipher, nil
}

// initKeyring loads the keyring with fail-fast validation.
func (c *Container) initKeyring() (*cryptoDomain.Keyring, error) {
	logger := c.Logger()

	if !c.config.UsesKMS() {
		keyring, err := cryptoDomain.LoadKeyring(c.config.TokenSecrets, c.config.ActiveTokenSecretID)
		if err != nil {
			return nil, fmt.Errorf("failed to load token secrets: %w", err)
		}

		logger.Info("token secrets loaded",
			slog.Int("count", keyring.Len()),
			slog.String("active_id", keyring.ActiveID()),
		)
		return keyring, nil
	}

	ctx := context.Background()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close kms keeper", slog.Any("error", closeErr))
		}
	}()

	keyring, err := cryptoDomain.LoadKeyringWithKMS(ctx, keeper, c.config.TokenSecrets, c.config.ActiveTokenSecretID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token secrets: %w", err)
	}

	logger.Info("token secrets loaded",
		slog.Int("count", keyring.Len()),
		slog.String("active_id", keyring.ActiveID()),
		slog.String("kms_provider", c.config.KMSProvider),
	)
	return keyring, nil
}

// initCipher derives the root keys once and builds the cipher for the configured algorithm.
func (c *Container) initCipher() (*cryptoService.PassphraseCipher, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.TokenAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_ALGORITHM %q: %w", c.config.TokenAlgorithm, err)
	}

	keyring, err := c.Keyring()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyring for cipher: %w", err)
	}

	cipher, err := cryptoService.NewPassphraseCipher(keyring, alg, c.AEADManager(), c.KeyDeriver())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher, nil
}
