package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256DigestService implements DigestService.
type SHA256DigestService struct{}

// NewDigestService creates a new SHA256DigestService.
func NewDigestService() *SHA256DigestService {
	return &SHA256DigestService{}
}

// Digest returns the SHA-256 of payload's canonical form as 64 lower-case hex characters.
// A string payload is hashed with its JSON quotes, so Digest("a") differs from HashBytes([]byte("a")).
func (s *SHA256DigestService) Digest(payload any) (string, error) {
	canonical, err := Canonicalize(payload)
	if err != nil {
		return "", err
	}
	return s.HashBytes(canonical), nil
}

// HashBytes returns the SHA-256 of value as lower-case hex.
func (s *SHA256DigestService) HashBytes(value []byte) string {
	sum := sha256.Sum256(value)
	return hex.EncodeToString(sum[:])
}
