package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
)

// DefaultRandomBytes is the byte length used for token nonces.
const DefaultRandomBytes = 16

// CSPRNGGenerator implements RandomGenerator on top of crypto/rand.
type CSPRNGGenerator struct {
	reader io.Reader
}

// NewRandomGenerator creates a new CSPRNGGenerator reading from crypto/rand.
func NewRandomGenerator() *CSPRNGGenerator {
	return &CSPRNGGenerator{reader: rand.Reader}
}

// RandomHex returns byteLength random bytes as lower-case hex. Zero yields "".
// A failing entropy source is reported, never papered over.
func (g *CSPRNGGenerator) RandomHex(byteLength int) (string, error) {
	if byteLength < 0 {
		return "", cryptoDomain.ErrInvalidRandomLength
	}

	buf := make([]byte, byteLength)
	if _, err := io.ReadFull(g.reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
