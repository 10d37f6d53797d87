package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := newTestKey(t)

	t.Run("aes-gcm", func(t *testing.T) {
		c, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		_, ok := c.(*AESGCMCipher)
		assert.True(t, ok)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		c, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		_, ok := c.(*ChaCha20Poly1305Cipher)
		assert.True(t, ok)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, cryptoDomain.Algorithm("AES-GCM"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := manager.CreateCipher(make([]byte, size), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize, "size %d", size)
	}
}

func TestAEAD_RoundTrip(t *testing.T) {
	manager := NewAEADManager()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			key := newTestKey(t)
			c, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte(`{"userId":"user-42"}`)
			aad := []byte{1, 1}

			ciphertext, nonce, err := c.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, cryptoDomain.NonceSize)
			assert.Len(t, ciphertext, len(plaintext)+cryptoDomain.TagSize)

			decrypted, err := c.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)

			t.Run("fresh nonce per call", func(t *testing.T) {
				ciphertext2, nonce2, err := c.Encrypt(plaintext, aad)
				require.NoError(t, err)
				assert.NotEqual(t, nonce, nonce2)
				assert.NotEqual(t, ciphertext, ciphertext2)
			})

			t.Run("wrong aad", func(t *testing.T) {
				_, err := c.Decrypt(ciphertext, nonce, []byte{1, 2})
				assert.Error(t, err)
			})

			t.Run("wrong key", func(t *testing.T) {
				other, err := manager.CreateCipher(newTestKey(t), alg)
				require.NoError(t, err)
				_, err = other.Decrypt(ciphertext, nonce, aad)
				assert.Error(t, err)
			})

			t.Run("modified ciphertext", func(t *testing.T) {
				tampered := append([]byte(nil), ciphertext...)
				tampered[0] ^= 0x01
				_, err := c.Decrypt(tampered, nonce, aad)
				assert.Error(t, err)
			})

			t.Run("invalid nonce size", func(t *testing.T) {
				_, err := c.Decrypt(ciphertext, nonce[:8], aad)
				assert.ErrorContains(t, err, "invalid nonce size")
			})
		})
	}
}
