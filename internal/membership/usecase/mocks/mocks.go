// Package mocks provides mock implementations of membership use case dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// MockIssuanceLogRepository is a mock implementation of IssuanceLogRepository.
type MockIssuanceLogRepository struct {
	mock.Mock
}

// Create mocks the Create method of IssuanceLogRepository.
func (m *MockIssuanceLogRepository) Create(ctx context.Context, issuanceLog *membershipDomain.IssuanceLog) error {
	args := m.Called(ctx, issuanceLog)
	return args.Error(0)
}

// List mocks the List method of IssuanceLogRepository.
func (m *MockIssuanceLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*membershipDomain.IssuanceLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membershipDomain.IssuanceLog), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of IssuanceLogRepository.
func (m *MockIssuanceLogRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// CountOlderThan mocks the CountOlderThan method of IssuanceLogRepository.
func (m *MockIssuanceLogRepository) CountOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenService.
func (m *MockTokenService) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// IssueToken mocks the IssueToken method of TokenService.
func (m *MockTokenService) IssueToken(userID string) (*membershipDomain.IssuedToken, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membershipDomain.IssuedToken), args.Error(1)
}

// Verify mocks the Verify method of TokenService.
func (m *MockTokenService) Verify(token string) (*membershipDomain.VerificationResult, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membershipDomain.VerificationResult), args.Error(1)
}
