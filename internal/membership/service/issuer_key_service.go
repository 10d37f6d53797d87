package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/membertoken/internal/errors"
)

// issuerKeyLength is the number of random bytes in an issuer key.
const issuerKeyLength = 32

// issuerKeyService implements IssuerKeyService using Argon2id for hashing.
type issuerKeyService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateKey creates a new 32-byte random issuer key encoded as URL-safe base64.
func (s *issuerKeyService) GenerateKey() (plainKey string, hashedKey string, err error) {
	randomBytes := make([]byte, issuerKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate issuer key")
	}

	plainKey = base64.RawURLEncoding.EncodeToString(randomBytes)

	hashedKey, err = s.HashKey(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, hashedKey, nil
}

// HashKey hashes a plain issuer key using Argon2id.
func (s *issuerKeyService) HashKey(plainKey string) (string, error) {
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash issuer key")
	}
	return hashedKey, nil
}

// CompareKey performs a constant-time comparison between a plain key and its hash.
// Malformed hashes never match.
func (s *issuerKeyService) CompareKey(plainKey string, hashedKey string) bool {
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}

// NewIssuerKeyService creates a new IssuerKeyService using the Moderate Argon2id policy.
func NewIssuerKeyService() IssuerKeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &issuerKeyService{
		hasher: hasher,
	}
}
