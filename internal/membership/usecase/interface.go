// Package usecase defines business logic interfaces for membership token operations.
package usecase

import (
	"context"
	"time"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// IssuanceLogRepository defines persistence operations for issuance log entries.
// Implementations must support transaction-aware operations via context propagation.
type IssuanceLogRepository interface {
	// Create stores a new issuance log entry.
	Create(ctx context.Context, issuanceLog *membershipDomain.IssuanceLog) error

	// List returns entries ordered by issued_at descending.
	List(ctx context.Context, offset, limit int) ([]*membershipDomain.IssuanceLog, error)

	// DeleteOlderThan removes entries issued before olderThan and returns how many were removed.
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)

	// CountOlderThan counts entries issued before olderThan without deleting them.
	CountOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// TokenUseCase defines business logic operations for membership tokens.
type TokenUseCase interface {
	// Issue creates a token for userID. When the issuance log is enabled the issuance is
	// recorded in the same call and a failed write fails the issuance.
	Issue(ctx context.Context, userID string) (*membershipDomain.IssuedToken, error)

	// Verify checks a token and reports who it belongs to and how old it is.
	// Returns ErrInvalidToken, ErrIntegrity or ErrTokenExpired for rejected tokens.
	Verify(ctx context.Context, token string) (*membershipDomain.VerificationResult, error)
}

// IssuanceLogUseCase defines operations on the issuance log.
type IssuanceLogUseCase interface {
	// List returns issuance log entries, newest first.
	List(ctx context.Context, offset, limit int) ([]*membershipDomain.IssuanceLog, error)

	// DeleteOlderThan removes entries older than days. With dryRun it only counts them.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
