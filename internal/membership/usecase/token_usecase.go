// Package usecase implements business logic orchestration for membership token operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
	"github.com/allisson/membertoken/internal/database"
	apperrors "github.com/allisson/membertoken/internal/errors"
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
	membershipService "github.com/allisson/membertoken/internal/membership/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	txManager       database.TxManager
	tokenService    membershipService.TokenService
	digestService   cryptoService.DigestService
	issuanceLogRepo IssuanceLogRepository
}

// Issue creates a token and, when an issuance log repository is configured, records a
// fingerprint of it inside a transaction. The token is only returned once the entry
// has been written.
func (t *tokenUseCase) Issue(ctx context.Context, userID string) (*membershipDomain.IssuedToken, error) {
	issued, err := t.tokenService.IssueToken(userID)
	if err != nil {
		return nil, err
	}

	if t.issuanceLogRepo == nil {
		return issued, nil
	}

	issuanceLog := &membershipDomain.IssuanceLog{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    issued.UserID,
		TokenHash: t.digestService.HashBytes([]byte(issued.Token)),
		IssuedAt:  issued.IssuedAt,
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		return t.issuanceLogRepo.Create(ctx, issuanceLog)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to record token issuance")
	}

	return issued, nil
}

// Verify checks a token. It never touches storage.
func (t *tokenUseCase) Verify(ctx context.Context, token string) (*membershipDomain.VerificationResult, error) {
	return t.tokenService.Verify(token)
}

// NewTokenUseCase creates a new TokenUseCase. A nil issuanceLogRepo disables the issuance log.
func NewTokenUseCase(
	txManager database.TxManager,
	tokenService membershipService.TokenService,
	digestService cryptoService.DigestService,
	issuanceLogRepo IssuanceLogRepository,
) TokenUseCase {
	return &tokenUseCase{
		txManager:       txManager,
		tokenService:    tokenService,
		digestService:   digestService,
		issuanceLogRepo: issuanceLogRepo,
	}
}
