// Package domain defines the core membership token entities.
package domain

import (
	"time"
)

// TimestampLayout renders issue times as ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// TokenPayload is the structure sealed inside every membership token.
//
// Hash is the digest of UserID and detects payloads assembled by anyone other than
// the issuer. Nonce makes two tokens for the same user and instant distinct; it is
// never checked on verification.
type TokenPayload struct {
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Nonce     string `json:"nonce"`
}

// VerificationResult describes a token that passed decryption and the integrity check.
// Timestamp is the issue time exactly as sealed in the payload; IssuedAt is its parsed
// value. HoursOld is negative when the issuer clock was ahead of the verifier.
type VerificationResult struct {
	UserID    string
	Timestamp string
	IssuedAt  time.Time
	IsValid   bool
	HoursOld  float64
}

// IssuedToken is returned to callers of the issuance use case.
type IssuedToken struct {
	Token    string
	UserID   string
	IssuedAt time.Time
}
