package usecase

import (
	"context"
	"time"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
	"github.com/allisson/membertoken/internal/metrics"
)

const metricsDomain = "membership"

func metricsStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance.
func (t *tokenUseCaseWithMetrics) Issue(ctx context.Context, userID string) (*membershipDomain.IssuedToken, error) {
	start := time.Now()
	issued, err := t.next.Issue(ctx, userID)

	status := metricsStatus(err)
	t.metrics.RecordOperation(ctx, metricsDomain, "token_issue", status)
	t.metrics.RecordDuration(ctx, metricsDomain, "token_issue", time.Since(start), status)

	return issued, err
}

// Verify records metrics for token verification. Rejected tokens count as "error".
func (t *tokenUseCaseWithMetrics) Verify(
	ctx context.Context,
	token string,
) (*membershipDomain.VerificationResult, error) {
	start := time.Now()
	result, err := t.next.Verify(ctx, token)

	status := metricsStatus(err)
	t.metrics.RecordOperation(ctx, metricsDomain, "token_verify", status)
	t.metrics.RecordDuration(ctx, metricsDomain, "token_verify", time.Since(start), status)

	return result, err
}

// issuanceLogUseCaseWithMetrics decorates IssuanceLogUseCase with metrics instrumentation.
type issuanceLogUseCaseWithMetrics struct {
	next    IssuanceLogUseCase
	metrics metrics.BusinessMetrics
}

// NewIssuanceLogUseCaseWithMetrics wraps an IssuanceLogUseCase with metrics recording.
func NewIssuanceLogUseCaseWithMetrics(useCase IssuanceLogUseCase, m metrics.BusinessMetrics) IssuanceLogUseCase {
	return &issuanceLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// List records metrics for issuance log listing.
func (i *issuanceLogUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*membershipDomain.IssuanceLog, error) {
	start := time.Now()
	issuanceLogs, err := i.next.List(ctx, offset, limit)

	status := metricsStatus(err)
	i.metrics.RecordOperation(ctx, metricsDomain, "issuance_log_list", status)
	i.metrics.RecordDuration(ctx, metricsDomain, "issuance_log_list", time.Since(start), status)

	return issuanceLogs, err
}

// DeleteOlderThan records metrics for issuance log cleanup.
func (i *issuanceLogUseCaseWithMetrics) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := i.next.DeleteOlderThan(ctx, days, dryRun)

	status := metricsStatus(err)
	i.metrics.RecordOperation(ctx, metricsDomain, "issuance_log_delete", status)
	i.metrics.RecordDuration(ctx, metricsDomain, "issuance_log_delete", time.Since(start), status)

	return count, err
}
