package service

import (
	"crypto/subtle"
	"errors"
	"time"

	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
	apperrors "github.com/allisson/membertoken/internal/errors"
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// Option configures a token service.
type Option func(*tokenService)

// WithMaxAge rejects tokens older than maxAge with ErrTokenExpired. Zero disables the check.
func WithMaxAge(maxAge time.Duration) Option {
	return func(s *tokenService) {
		s.maxAge = maxAge
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *tokenService) {
		s.now = now
	}
}

type tokenService struct {
	cipher cryptoService.Cipher
	digest cryptoService.DigestService
	random cryptoService.RandomGenerator
	maxAge time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService sealing payloads with cipher.
func NewTokenService(
	cipher cryptoService.Cipher,
	digest cryptoService.DigestService,
	random cryptoService.RandomGenerator,
	opts ...Option,
) TokenService {
	s := &tokenService{
		cipher: cipher,
		digest: digest,
		random: random,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a fresh opaque token for userID.
func (s *tokenService) Issue(userID string) (string, error) {
	issued, err := s.IssueToken(userID)
	if err != nil {
		return "", err
	}
	return issued.Token, nil
}

// IssueToken builds {userId, timestamp, hash, nonce} and encrypts it. Any failure is
// reported as ErrTokenCreation and no token is returned.
func (s *tokenService) IssueToken(userID string) (*membershipDomain.IssuedToken, error) {
	if userID == "" {
		return nil, apperrors.WrapKind(membershipDomain.ErrTokenCreation, membershipDomain.ErrEmptyUserID)
	}

	issuedAt := s.now().UTC().Truncate(time.Millisecond)

	hash, err := s.digest.Digest(userID)
	if err != nil {
		return nil, apperrors.WrapKind(membershipDomain.ErrTokenCreation, err)
	}

	nonce, err := s.random.RandomHex(cryptoService.DefaultRandomBytes)
	if err != nil {
		return nil, apperrors.WrapKind(membershipDomain.ErrTokenCreation, err)
	}

	token, err := s.cipher.Encrypt(membershipDomain.TokenPayload{
		UserID:    userID,
		Timestamp: issuedAt.Format(membershipDomain.TimestampLayout),
		Hash:      hash,
		Nonce:     nonce,
	})
	if err != nil {
		return nil, apperrors.WrapKind(membershipDomain.ErrTokenCreation, err)
	}

	return &membershipDomain.IssuedToken{
		Token:    token,
		UserID:   userID,
		IssuedAt: issuedAt,
	}, nil
}

// Verify decrypts token, recomputes the user id digest and reports the token age.
//
// Decryption failures and malformed payloads are ErrInvalidToken, a digest mismatch
// is ErrIntegrity. The nonce is not checked, so a token verifies any number of times.
func (s *tokenService) Verify(token string) (*membershipDomain.VerificationResult, error) {
	var payload membershipDomain.TokenPayload
	if err := s.cipher.Decrypt(token, &payload); err != nil {
		return nil, apperrors.WrapKind(membershipDomain.ErrInvalidToken, err)
	}

	if payload.UserID == "" {
		return nil, apperrors.WrapKind(membershipDomain.ErrInvalidToken, errors.New("payload has no user id"))
	}

	expected, err := s.digest.Digest(payload.UserID)
	if err != nil {
		return nil, apperrors.WrapKind(membershipDomain.ErrInvalidToken, err)
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(payload.Hash)) != 1 {
		return nil, membershipDomain.ErrIntegrity
	}

	issuedAt, err := time.Parse(time.RFC3339Nano, payload.Timestamp)
	if err != nil {
		return nil, apperrors.WrapKind(membershipDomain.ErrInvalidToken, err)
	}

	age := s.now().Sub(issuedAt)
	if s.maxAge > 0 && age > s.maxAge {
		return nil, membershipDomain.ErrTokenExpired
	}

	return &membershipDomain.VerificationResult{
		UserID:    payload.UserID,
		Timestamp: payload.Timestamp,
		IssuedAt:  issuedAt,
		IsValid:   true,
		HoursOld:  age.Hours(),
	}, nil
}
