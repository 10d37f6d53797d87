package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
	membershipUseCase "github.com/allisson/membertoken/internal/membership/usecase"
)

// RunIssueToken issues a membership token for userID and prints it.
// The issuance is recorded in the issuance log when that feature is enabled.
func RunIssueToken(
	ctx context.Context,
	tokenUseCase membershipUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("--user-id is required")
	}

	issued, err := tokenUseCase.Issue(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	issuedAt := issued.IssuedAt.UTC().Format(membershipDomain.TimestampLayout)
	if format == "json" {
		writeJSON(writer, map[string]string{
			"token":     issued.Token,
			"user_id":   issued.UserID,
			"issued_at": issuedAt,
		})
	} else {
		_, _ = fmt.Fprintf(writer, "Token: %s\n", issued.Token)
		_, _ = fmt.Fprintf(writer, "User ID: %s\n", issued.UserID)
		_, _ = fmt.Fprintf(writer, "Issued At: %s\n", issuedAt)
	}

	logger.Info("membership token issued", slog.String("user_id", issued.UserID))
	return nil
}

// verifyOutput is the json rendering of a verified token.
type verifyOutput struct {
	UserID    string  `json:"user_id"`
	Timestamp string  `json:"timestamp"`
	IsValid   bool    `json:"is_valid"`
	HoursOld  float64 `json:"hours_old"`
}

// tokenVerifier is the verification half of the token service.
type tokenVerifier interface {
	Verify(token string) (*membershipDomain.VerificationResult, error)
}

// RunVerifyToken verifies token offline with the configured secrets and prints who it
// belongs to and how old it is. A rejected token is returned as an error.
func RunVerifyToken(
	verifier tokenVerifier,
	logger *slog.Logger,
	writer io.Writer,
	token string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := verifier.Verify(strings.TrimSpace(token))
	if err != nil {
		logger.Warn("membership token rejected", slog.Any("error", err))
		return fmt.Errorf("token rejected: %w", err)
	}

	out := verifyOutput{
		UserID:    result.UserID,
		Timestamp: result.Timestamp,
		IsValid:   result.IsValid,
		HoursOld:  result.HoursOld,
	}

	if format == "json" {
		writeJSON(writer, out)
	} else {
		_, _ = fmt.Fprintln(writer, "Token is valid")
		_, _ = fmt.Fprintf(writer, "User ID: %s\n", out.UserID)
		_, _ = fmt.Fprintf(writer, "Issued At: %s\n", out.Timestamp)
		_, _ = fmt.Fprintf(writer, "Age: %s\n", time.Duration(out.HoursOld*float64(time.Hour)).Round(time.Second))
	}

	logger.Info("membership token verified", slog.String("user_id", result.UserID))
	return nil
}
