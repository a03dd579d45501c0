package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "secret1"},
		{name: "long password", password: "a-much-longer-password-with-punctuation!?"},
		{name: "unicode password", password: "pässwörd€"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.True(t, CheckPasswordHash(tt.password, hash))
			assert.False(t, CheckPasswordHash(tt.password+"x", hash))
			assert.False(t, CheckPasswordHash("", hash))
		})
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	// Per-call salt: same plaintext, different digests, both verify
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("secret1", first))
	assert.True(t, CheckPasswordHash("secret1", second))
}

func TestCheckPasswordHash_MalformedDigest(t *testing.T) {
	assert.False(t, CheckPasswordHash("secret1", "not-a-bcrypt-digest"))
}
