package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssuanceLog records that a token was issued. It stores a SHA-256 fingerprint of the
// token text, never the token itself.
type IssuanceLog struct {
	ID        uuid.UUID
	UserID    string
	TokenHash string
	IssuedAt  time.Time
}
