package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyHasherKnownValue(t *testing.T) {
	h := NewLegacyHasher()

	// sha1 of the hex digest of sha1("password").
	got, err := h.Hash("password")
	require.NoError(t, err)
	assert.Equal(t, "353e8061f2befecb6818ba0c034c632fb0bcae1b", got)
}

func TestLegacyHasherIsDeterministic(t *testing.T) {
	h := NewLegacyHasher()

	first, err := h.Hash("abcdefg1")
	require.NoError(t, err)
	second, err := h.Hash("abcdefg1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40)
	assert.Regexp(t, "^[0-9a-f]{40}$", first)
}

func TestLegacyHasherVerify(t *testing.T) {
	h := NewLegacyHasher()

	stored, err := h.Hash("abcdefg1")
	require.NoError(t, err)

	assert.True(t, h.Verify(stored, "abcdefg1"))
	assert.False(t, h.Verify(stored, "abcdefg2"))
	assert.False(t, h.Verify(stored, ""))
}

func TestLegacyHasherDistinctInputs(t *testing.T) {
	h := NewLegacyHasher()

	a, err := h.Hash("abcdefg1")
	require.NoError(t, err)
	b, err := h.Hash("hijklmn2")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasherVerify(t *testing.T) {
	h := NewBcryptHasher(4)

	stored, err := h.Hash("abcdefg1")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdefg1", stored)

	assert.True(t, h.Verify(stored, "abcdefg1"))
	assert.False(t, h.Verify(stored, "abcdefg2"))
}

func TestBcryptHasherSalts(t *testing.T) {
	h := NewBcryptHasher(4)

	a, err := h.Hash("abcdefg1")
	require.NoError(t, err)
	b, err := h.Hash("abcdefg1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "bcrypt output must be salted")
}
