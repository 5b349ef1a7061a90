package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/accounts-api/internal/core/security"
)

func newTestHasher(t *testing.T) *security.BcryptHasher {
	t.Helper()
	h, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestBcryptHasher_Hash(t *testing.T) {
	h := newTestHasher(t)

	t.Run("never stores plaintext", func(t *testing.T) {
		digest, err := h.Hash("pw123")
		require.NoError(t, err)
		assert.NotEqual(t, "pw123", digest)
		assert.True(t, strings.HasPrefix(digest, "$2a$"))
	})

	t.Run("embeds cost", func(t *testing.T) {
		digest, err := h.Hash("pw123")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(digest))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("same plaintext produces different digests", func(t *testing.T) {
		d1, err := h.Hash("samepassword")
		require.NoError(t, err)
		d2, err := h.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, d1, d2)
		assert.True(t, h.Verify("samepassword", d1))
		assert.True(t, h.Verify("samepassword", d2))
	})

	t.Run("rejects passwords longer than bcrypt accepts", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("x", security.MaxPasswordBytes+1))
		assert.Error(t, err)
	})
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := newTestHasher(t)
	digest, err := h.Hash("correct horse")
	require.NoError(t, err)

	t.Run("matching plaintext", func(t *testing.T) {
		assert.True(t, h.Verify("correct horse", digest))
	})

	t.Run("different plaintext", func(t *testing.T) {
		assert.False(t, h.Verify("correct horse ", digest))
		assert.False(t, h.Verify("", digest))
	})

	t.Run("malformed digest verifies false", func(t *testing.T) {
		for _, bad := range []string{"", "not-a-hash", "$2a$04$short", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"} {
			assert.False(t, h.Verify("correct horse", bad), bad)
		}
	})

	t.Run("digest from a different cost still verifies", func(t *testing.T) {
		other, err := security.NewBcryptHasher(bcrypt.MinCost + 1)
		require.NoError(t, err)
		old, err := other.Hash("correct horse")
		require.NoError(t, err)
		assert.True(t, h.Verify("correct horse", old))
	})
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	_, err := security.NewBcryptHasher(0)
	assert.NoError(t, err)

	_, err = security.NewBcryptHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)

	_, err = security.NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
