package commands

import (
	"fmt"
	"io"
	"log/slog"

	membershipService "github.com/allisson/membertoken/internal/membership/service"
)

// RunCreateIssuerKey generates an API key for a service allowed to issue tokens.
// The plain key is printed once for the issuing service; only its Argon2id hash belongs
// in ISSUER_KEY_HASHES.
func RunCreateIssuerKey(
	issuerKeyService membershipService.IssuerKeyService,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plainKey, hashedKey, err := issuerKeyService.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to create issuer key: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]string{
			"issuer_key": plainKey,
			"hash":       hashedKey,
		})
	} else {
		_, _ = fmt.Fprintln(writer, "Issuer key created successfully!")
		_, _ = fmt.Fprintf(writer, "Issuer Key: %s\n", plainKey)
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, "# Add the hash to the server configuration (semicolon-separated for several issuers):")
		_, _ = fmt.Fprintf(writer, "ISSUER_KEY_HASHES=\"%s\"\n", hashedKey)
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, "IMPORTANT: The issuer key is shown only once. Store it securely.")
	}

	logger.Info("issuer key created")
	return nil
}
