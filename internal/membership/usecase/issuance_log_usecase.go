package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/membertoken/internal/errors"
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// issuanceLogUseCase implements IssuanceLogUseCase.
type issuanceLogUseCase struct {
	issuanceLogRepo IssuanceLogRepository
}

// List retrieves issuance log entries ordered by issued_at descending with pagination.
// Returns an empty slice if nothing was logged.
func (i *issuanceLogUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*membershipDomain.IssuanceLog, error) {
	issuanceLogs, err := i.issuanceLogRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list issuance logs")
	}

	return issuanceLogs, nil
}

// DeleteOlderThan deletes entries issued more than days ago. Use dryRun=true to preview
// the count without deleting.
func (i *issuanceLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be non-negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		count, err := i.issuanceLogRepo.CountOlderThan(ctx, cutoff)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count issuance logs")
		}
		return count, nil
	}

	count, err := i.issuanceLogRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete issuance logs")
	}
	return count, nil
}

// NewIssuanceLogUseCase creates a new IssuanceLogUseCase with the provided dependencies.
func NewIssuanceLogUseCase(issuanceLogRepo IssuanceLogRepository) IssuanceLogUseCase {
	return &issuanceLogUseCase{
		issuanceLogRepo: issuanceLogRepo,
	}
}
