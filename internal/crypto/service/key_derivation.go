package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
)

// rootKeySalt is fixed so a passphrase always stretches to the same root key.
// Per-message uniqueness comes from the random salt fed to HKDF.
var rootKeySalt = []byte("membertoken/root-key/v1")

// messageKeyInfo binds derived keys to this envelope format.
var messageKeyInfo = []byte("membertoken/message-key/v1")

// Argon2Params configures the Argon2id passphrase stretch.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultArgon2Params are the parameters every issued token depends on.
// Changing them invalidates all outstanding tokens.
var DefaultArgon2Params = Argon2Params{
	Time:      1,
	MemoryKiB: 64 * 1024,
	Threads:   4,
}

// Argon2KeyDeriver implements KeyDeriver with Argon2id for root keys and
// HKDF-SHA256 for per-message keys.
type Argon2KeyDeriver struct {
	params Argon2Params
}

// NewArgon2KeyDeriver creates a new Argon2KeyDeriver.
func NewArgon2KeyDeriver(params Argon2Params) *Argon2KeyDeriver {
	return &Argon2KeyDeriver{params: params}
}

// DeriveRootKey stretches secret with Argon2id.
func (d *Argon2KeyDeriver) DeriveRootKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrSecretTooShort
	}
	return argon2.IDKey(
		secret,
		rootKeySalt,
		d.params.Time,
		d.params.MemoryKiB,
		d.params.Threads,
		cryptoDomain.KeySize,
	), nil
}

// DeriveMessageKey expands rootKey with HKDF-SHA256 using salt.
func (d *Argon2KeyDeriver) DeriveMessageKey(rootKey, salt []byte) ([]byte, error) {
	if len(rootKey) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if len(salt) != cryptoDomain.SaltSize {
		return nil, fmt.Errorf("invalid salt size: %d", len(salt))
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, rootKey, salt, messageKeyInfo), key); err != nil {
		return nil, fmt.Errorf("failed to derive message key: %w", err)
	}
	return key, nil
}
