package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
	apperrors "github.com/allisson/membertoken/internal/errors"
)

// envelopeEncoding rejects non-zero padding bits, so every change to the text
// changes the decoded envelope.
var envelopeEncoding = base64.RawURLEncoding.Strict()

var errAuthenticationFailed = errors.New("no token secret could open the envelope")

// rootKey is a stretched token secret.
type rootKey struct {
	id  string
	key []byte
}

// PassphraseCipher implements Cipher with a keyring of passphrase secrets.
//
// New envelopes are sealed with the active secret. Decryption tries the active
// secret first and then every other secret of the keyring, which is what makes
// rotation possible without invalidating outstanding tokens.
type PassphraseCipher struct {
	alg         cryptoDomain.Algorithm
	algID       byte
	aeadManager AEADManager
	keyDeriver  KeyDeriver
	random      io.Reader
	keys        []rootKey
}

// NewPassphraseCipher stretches every keyring secret once and returns a cipher
// sealing with alg. The keyring can be closed afterwards.
func NewPassphraseCipher(
	keyring *cryptoDomain.Keyring,
	alg cryptoDomain.Algorithm,
	aeadManager AEADManager,
	keyDeriver KeyDeriver,
) (*PassphraseCipher, error) {
	algID, ok := alg.ID()
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if keyring == nil || keyring.Len() == 0 {
		return nil, cryptoDomain.ErrTokenSecretsNotSet
	}

	c := &PassphraseCipher{
		alg:         alg,
		algID:       algID,
		aeadManager: aeadManager,
		keyDeriver:  keyDeriver,
		random:      rand.Reader,
	}
	for _, secret := range keyring.Secrets() {
		key, err := keyDeriver.DeriveRootKey(secret.Value)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to derive root key for %q: %w", secret.ID, err)
		}
		c.keys = append(c.keys, rootKey{id: secret.ID, key: key})
	}
	return c, nil
}

// Encrypt canonicalizes payload and seals it under the active secret. Every failure,
// including ErrSerialization, is reported as ErrEncryption.
func (c *PassphraseCipher) Encrypt(payload any) (string, error) {
	plaintext, err := Canonicalize(payload)
	if err != nil {
		return "", apperrors.WrapKind(cryptoDomain.ErrEncryption, err)
	}
	defer cryptoDomain.Zero(plaintext)

	envelope, err := c.seal(plaintext)
	if err != nil {
		return "", apperrors.WrapKind(cryptoDomain.ErrEncryption, err)
	}
	return envelopeEncoding.EncodeToString(envelope), nil
}

// seal builds version | alg | salt | nonce | ciphertext+tag.
func (c *PassphraseCipher) seal(plaintext []byte) ([]byte, error) {
	if len(c.keys) == 0 {
		return nil, errors.New("cipher is closed")
	}

	header := make([]byte, cryptoDomain.HeaderSize)
	header[0] = cryptoDomain.EnvelopeVersion1
	header[1] = c.algID
	if _, err := io.ReadFull(c.random, header[2:]); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := c.messageCipher(c.keys[0].key, header[2:], c.alg)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, header)
	if err != nil {
		return nil, err
	}

	envelope := make([]byte, 0, len(header)+len(nonce)+len(ciphertext))
	envelope = append(envelope, header...)
	envelope = append(envelope, nonce...)
	return append(envelope, ciphertext...), nil
}

// Decrypt opens ciphertext and unmarshals its canonical plaintext into out.
// Every failure is reported as ErrDecryption.
func (c *PassphraseCipher) Decrypt(ciphertext string, out any) error {
	plaintext, err := c.open(ciphertext)
	if err != nil {
		return apperrors.WrapKind(cryptoDomain.ErrDecryption, err)
	}
	defer cryptoDomain.Zero(plaintext)

	if !IsCanonical(plaintext) {
		return apperrors.WrapKind(cryptoDomain.ErrDecryption, errors.New("plaintext is not canonical JSON"))
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return apperrors.WrapKind(cryptoDomain.ErrDecryption, err)
	}
	return nil
}

func (c *PassphraseCipher) open(ciphertext string) ([]byte, error) {
	envelope, err := envelopeEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("malformed envelope encoding: %w", err)
	}
	if len(envelope) < cryptoDomain.HeaderSize+cryptoDomain.NonceSize+cryptoDomain.TagSize {
		return nil, errors.New("envelope too short")
	}
	if envelope[0] != cryptoDomain.EnvelopeVersion1 {
		return nil, fmt.Errorf("unsupported envelope version %d", envelope[0])
	}

	// Envelopes sealed before an algorithm switch stay readable.
	alg, ok := cryptoDomain.AlgorithmFromID(envelope[1])
	if !ok {
		return nil, fmt.Errorf("unknown envelope algorithm %d", envelope[1])
	}

	header := envelope[:cryptoDomain.HeaderSize]
	salt := header[2:]
	nonce := envelope[cryptoDomain.HeaderSize : cryptoDomain.HeaderSize+cryptoDomain.NonceSize]
	sealed := envelope[cryptoDomain.HeaderSize+cryptoDomain.NonceSize:]

	for _, rk := range c.keys {
		aead, err := c.messageCipher(rk.key, salt, alg)
		if err != nil {
			return nil, err
		}
		if plaintext, err := aead.Decrypt(sealed, nonce, header); err == nil {
			return plaintext, nil
		}
	}
	return nil, errAuthenticationFailed
}

func (c *PassphraseCipher) messageCipher(root, salt []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	key, err := c.keyDeriver.DeriveMessageKey(root, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return c.aeadManager.CreateCipher(key, alg)
}

// Close zeroes the stretched keys. The cipher cannot be used afterwards.
func (c *PassphraseCipher) Close() {
	for _, rk := range c.keys {
		cryptoDomain.Zero(rk.key)
	}
	c.keys = nil
}
