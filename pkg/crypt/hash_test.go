package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretSaltedPerCall(t *testing.T) {
	hash1, err := HashSecret("secret123")
	require.NoError(t, err)
	hash2, err := HashSecret("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "two hashes of the same secret must differ")
	assert.True(t, VerifySecret("secret123", hash1))
	assert.True(t, VerifySecret("secret123", hash2))
}

func TestVerifySecretMismatch(t *testing.T) {
	hash, err := HashSecret("secret123")
	require.NoError(t, err)

	assert.False(t, VerifySecret("secret124", hash))
	assert.False(t, VerifySecret("", hash))
}

func TestVerifySecretMalformedHash(t *testing.T) {
	assert.False(t, VerifySecret("secret123", ""))
	assert.False(t, VerifySecret("secret123", "not-a-bcrypt-hash"))
	assert.False(t, VerifySecret("secret123", "$2a$xx$garbage"))
}
