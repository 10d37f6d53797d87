package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerKeyService_GenerateKey(t *testing.T) {
	svc := NewIssuerKeyService()

	plainKey, hashedKey, err := svc.GenerateKey()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(plainKey)
	require.NoError(t, err)
	assert.Len(t, decoded, issuerKeyLength)

	assert.Contains(t, hashedKey, "$argon2id$")
	assert.NotContains(t, hashedKey, plainKey)
	assert.True(t, svc.CompareKey(plainKey, hashedKey))

	otherKey, otherHash, err := svc.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, plainKey, otherKey)
	assert.NotEqual(t, hashedKey, otherHash)
}

func TestIssuerKeyService_CompareKey(t *testing.T) {
	svc := NewIssuerKeyService()

	hashedKey, err := svc.HashKey("issuer-key")
	require.NoError(t, err)

	assert.True(t, svc.CompareKey("issuer-key", hashedKey))
	assert.False(t, svc.CompareKey("issuer-key2", hashedKey))
	assert.False(t, svc.CompareKey("", hashedKey))
	assert.False(t, svc.CompareKey("issuer-key", "not-a-hash"))
	assert.False(t, svc.CompareKey("issuer-key", ""))
}
