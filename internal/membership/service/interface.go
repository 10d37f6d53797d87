// Package service implements the membership token protocol and issuer API key hashing.
package service

import (
	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// TokenService issues and verifies membership tokens. It is stateless apart from its
// immutable collaborators and safe for concurrent use.
type TokenService interface {
	// Issue returns a fresh opaque token for userID.
	Issue(userID string) (string, error)

	// IssueToken is Issue returning the issue time alongside the token.
	IssueToken(userID string) (*membershipDomain.IssuedToken, error)

	// Verify decrypts token, checks its integrity and reports its age.
	// Verifying the same token twice yields the same user and timestamp.
	Verify(token string) (*membershipDomain.VerificationResult, error)
}

// IssuerKeyService generates and checks the API keys allowed to issue tokens.
type IssuerKeyService interface {
	// GenerateKey creates a new random issuer key and its Argon2id hash.
	// The plain key is shown once and never stored.
	GenerateKey() (plainKey string, hashedKey string, err error)

	// HashKey hashes a plain issuer key with Argon2id.
	HashKey(plainKey string) (string, error)

	// CompareKey reports whether plainKey matches hashedKey in constant time.
	CompareKey(plainKey string, hashedKey string) bool
}
