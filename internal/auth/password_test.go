package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotContains(t, digest, "s3cret-password")

	assert.True(t, h.Verify("s3cret-password", digest))
	assert.False(t, h.Verify("wrong-password", digest))
}

func TestPasswordHasher_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("same input")
	require.NoError(t, err)
	second, err := h.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same input", first))
	assert.True(t, h.Verify("same input", second))
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("anything", ""))
	assert.False(t, h.Verify("anything", "not-a-bcrypt-digest"))
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(99)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	h = NewPasswordHasher(-1)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
