package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := NewArgon2Hasher()

	for _, password := range []string{"hunter22", "", "pässwörd with spaces ✓"} {
		hash, err := h.HashPassword(password)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

		ok, err := h.VerifyPassword(password, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify against its own hash", password)
	}
}

func TestArgon2Hasher_MismatchIsNotAnError(t *testing.T) {
	h := NewArgon2Hasher()

	hash, err := h.HashPassword("correct horse")
	require.NoError(t, err)

	ok, err := h.VerifyPassword("battery staple", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_SaltIsRandom(t *testing.T) {
	h := NewArgon2Hasher()

	a, err := h.HashPassword("same-password")
	require.NoError(t, err)
	b, err := h.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestArgon2Hasher_MalformedHash(t *testing.T) {
	h := NewArgon2Hasher()

	cases := map[string]string{
		"empty":         "",
		"plaintext":     "not-a-hash",
		"wrong variant": "$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"bad version":   "$argon2id$v=1$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"bad params":    "$argon2id$v=19$m=x,t=3,p=2$c2FsdA$aGFzaA",
		"zero params":   "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA",
		"huge memory":   "$argon2id$v=19$m=4294967295,t=3,p=2$c2FsdA$aGFzaA",
		"huge time":     "$argon2id$v=19$m=65536,t=4294967295,p=2$c2FsdA$aGFzaA",
		"huge threads":  "$argon2id$v=19$m=65536,t=3,p=255$c2FsdA$aGFzaA",
		"all maxed":     "$argon2id$v=19$m=4294967295,t=4294967295,p=255$c2FsdA$aGFzaA",
		"bad salt b64":  "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
		"bad bcrypt":    "$2a$10$short",
	}
	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.VerifyPassword("whatever", hash)
			assert.False(t, ok)
			assert.ErrorIs(t, err, domain.ErrMalformedHash)
		})
	}
}

func TestArgon2Hasher_EntropyFailure(t *testing.T) {
	h := NewArgon2Hasher()
	h.entropy = func([]byte) (int, error) { return 0, errors.New("entropy source exhausted") }

	_, err := h.HashPassword("anything")
	assert.ErrorIs(t, err, domain.ErrHashingFailure)
}

func TestArgon2Hasher_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewArgon2Hasher()

	ok, err := h.VerifyPassword("legacy-secret", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPassword("other", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeHashParameterCeilings(t *testing.T) {
	_, _, _, err := decodeHash("$argon2id$v=19$m=262144,t=10,p=16$c2FsdA$aGFzaA")
	require.NoError(t, err, "upper bounds are inclusive")

	_, _, _, err = decodeHash("$argon2id$v=19$m=262145,t=3,p=2$c2FsdA$aGFzaA")
	assert.Error(t, err)

	_, _, _, err = decodeHash("$argon2id$v=19$m=65536,t=11,p=2$c2FsdA$aGFzaA")
	assert.Error(t, err)

	_, _, _, err = decodeHash("$argon2id$v=19$m=65536,t=3,p=17$c2FsdA$aGFzaA")
	assert.Error(t, err)
}
