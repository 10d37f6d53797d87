package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
)

// tokenSecretBytes is the entropy of a generated passphrase before hex encoding.
const tokenSecretBytes = 32

// RunCreateTokenSecret generates a random passphrase for sealing membership tokens.
// If secretID is empty, a default ID in the format "token-secret-YYYY-MM-DD" is used.
//
// Without KMS parameters the passphrase is printed as is. With kmsProvider and kmsKeyURI
// it is wrapped by the KMS key and printed base64 encoded, ready for TOKEN_SECRETS in
// KMS mode. Supplying only one of the two is an error.
//
// Output format:
//   - TOKEN_SECRETS="<secretID>:<passphrase or base64 kms ciphertext>"
//   - ACTIVE_TOKEN_SECRET_ID="<secretID>"
//   - KMS_PROVIDER and KMS_KEY_URI in KMS mode
func RunCreateTokenSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	randomGenerator cryptoService.RandomGenerator,
	logger *slog.Logger,
	writer io.Writer,
	secretID, kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri are required together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	if secretID == "" {
		secretID = fmt.Sprintf("token-secret-%s", time.Now().Format("2006-01-02"))
	}

	passphrase, err := randomGenerator.RandomHex(tokenSecretBytes)
	if err != nil {
		return fmt.Errorf("failed to generate token secret: %w", err)
	}
	secret := []byte(passphrase)
	defer cryptoDomain.Zero(secret)

	value := passphrase
	if kmsProvider != "" {
		value, err = wrapWithKMS(ctx, kmsService, logger, kmsKeyURI, secret)
		if err != nil {
			return err
		}
	}

	logger.Info("token secret created",
		slog.String("secret_id", secretID),
		slog.Bool("kms", kmsProvider != ""),
	)

	_, _ = fmt.Fprintln(writer, "# Token Secret Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	if kmsProvider != "" {
		_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "TOKEN_SECRETS=\"%s:%s\"\n", secretID, value)
	_, _ = fmt.Fprintf(writer, "ACTIVE_TOKEN_SECRET_ID=\"%s\"\n", secretID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# To rotate, append the new secret and switch the active ID:")
	_, _ = fmt.Fprintf(writer, "# TOKEN_SECRETS=\"old-secret:...,%s:%s\"\n", secretID, value)

	return nil
}

// wrapWithKMS encrypts secret with the keeper at kmsKeyURI and returns it base64 encoded.
func wrapWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	kmsKeyURI string,
	secret []byte,
) (string, error) {
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token secret with KMS: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
