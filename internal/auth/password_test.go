package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "secret123"},
		{name: "empty password", password: ""},
		{name: "unicode password", password: "pässwörd-日本語"},
		{name: "long password", password: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
		{name: "max length", password: strings.Repeat("b", MaxPasswordBytes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			if tt.password != "" {
				assert.NotContains(t, hash, tt.password)
			}

			assert.True(t, hasher.Verify(tt.password, hash))
			assert.False(t, hasher.Verify(tt.password+"x", hash))
		})
	}
}

func TestPasswordHasher_SaltedOutput(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	// Malformed or wrong-scheme hashes are indistinguishable from a wrong
	// password: Verify returns false, never an error.
	assert.False(t, hasher.Verify("secret", ""))
	assert.False(t, hasher.Verify("secret", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("secret", "$argon2id$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$hash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	hasher := NewPasswordHasher(1000)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("secret", hash))
}
