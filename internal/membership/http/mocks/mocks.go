// Package mocks provides mock implementations for testing membership HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenUseCase.
func (m *MockTokenUseCase) Issue(ctx context.Context, userID string) (*membershipDomain.IssuedToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membershipDomain.IssuedToken), args.Error(1)
}

// Verify mocks the Verify method of TokenUseCase.
func (m *MockTokenUseCase) Verify(
	ctx context.Context,
	token string,
) (*membershipDomain.VerificationResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membershipDomain.VerificationResult), args.Error(1)
}

// MockIssuanceLogUseCase is a mock implementation of IssuanceLogUseCase for testing.
type MockIssuanceLogUseCase struct {
	mock.Mock
}

// List mocks the List method of IssuanceLogUseCase.
func (m *MockIssuanceLogUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*membershipDomain.IssuanceLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membershipDomain.IssuanceLog), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of IssuanceLogUseCase.
func (m *MockIssuanceLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockIssuerKeyService is a mock implementation of IssuerKeyService for testing.
type MockIssuerKeyService struct {
	mock.Mock
}

// GenerateKey mocks the GenerateKey method of IssuerKeyService.
func (m *MockIssuerKeyService) GenerateKey() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashKey mocks the HashKey method of IssuerKeyService.
func (m *MockIssuerKeyService) HashKey(plainKey string) (string, error) {
	args := m.Called(plainKey)
	return args.String(0), args.Error(1)
}

// CompareKey mocks the CompareKey method of IssuerKeyService.
func (m *MockIssuerKeyService) CompareKey(plainKey string, hashedKey string) bool {
	args := m.Called(plainKey, hashedKey)
	return args.Bool(0)
}
