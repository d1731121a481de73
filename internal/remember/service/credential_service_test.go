package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialService_GeneratePair(t *testing.T) {
	svc := NewCredentialService()

	t.Run("Success_GeneratesIndependentValues", func(t *testing.T) {
		pair, err := svc.GeneratePair()
		require.NoError(t, err)

		assert.NotEqual(t, pair.Token, pair.Secret)
		assert.Len(t, pair.TokenHash, 64)
		assert.Len(t, pair.SecretHash, 64)
		assert.Equal(t, svc.HashToken(pair.Token), pair.TokenHash)

		raw, err := base64.RawURLEncoding.DecodeString(pair.Token)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("Success_UniqueAcrossCalls", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 200 {
			pair, err := svc.GeneratePair()
			require.NoError(t, err)
			_, dup := seen[pair.Token]
			assert.False(t, dup)
			seen[pair.Token] = struct{}{}
		}
	})
}

func TestCredentialService_HashToken(t *testing.T) {
	svc := NewCredentialService()

	assert.Equal(t, svc.HashToken("abc"), svc.HashToken("abc"))
	assert.NotEqual(t, svc.HashToken("abc"), svc.HashToken("abd"))
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		svc.HashToken("abc"),
	)
}

func TestCredentialService_CompareSecret(t *testing.T) {
	svc := NewCredentialService()
	pair, err := svc.GeneratePair()
	require.NoError(t, err)

	assert.True(t, svc.CompareSecret(pair.Secret, pair.SecretHash))
	assert.False(t, svc.CompareSecret(pair.Secret+"x", pair.SecretHash))
	assert.False(t, svc.CompareSecret("", pair.SecretHash))
	assert.False(t, svc.CompareSecret(pair.Secret, ""))
}
