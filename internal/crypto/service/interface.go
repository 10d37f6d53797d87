// Package service provides the cryptographic building blocks of membership tokens:
// AEAD ciphers, passphrase key derivation, canonical serialization, digests and
// secure randomness. Every implementation is stateless or immutable after
// construction and safe for concurrent use.
package service

import (
	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver turns token secrets into AEAD keys.
type KeyDeriver interface {
	// DeriveRootKey stretches a passphrase into a 32-byte root key. It is slow by
	// design and called once per secret when a cipher is built.
	DeriveRootKey(secret []byte) ([]byte, error)

	// DeriveMessageKey expands a root key and a per-message salt into a 32-byte AEAD key.
	DeriveMessageKey(rootKey, salt []byte) ([]byte, error)
}

// DigestService computes deterministic fingerprints.
type DigestService interface {
	// Digest canonicalizes payload and returns its SHA-256 as 64 lower-case hex characters.
	Digest(payload any) (string, error)

	// HashBytes returns the SHA-256 of raw bytes as lower-case hex.
	HashBytes(value []byte) string
}

// RandomGenerator produces cryptographically strong random values.
type RandomGenerator interface {
	// RandomHex returns byteLength random bytes encoded as 2*byteLength hex characters.
	RandomHex(byteLength int) (string, error)
}

// Cipher seals serializable payloads into opaque text and opens them again.
type Cipher interface {
	// Encrypt canonicalizes payload and seals it with the active secret.
	Encrypt(payload any) (string, error)

	// Decrypt opens ciphertext with any secret of the keyring and unmarshals the
	// canonical plaintext into out.
	Decrypt(ciphertext string, out any) error
}
