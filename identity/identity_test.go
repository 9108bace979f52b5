package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		kp, err := Generate()
		require.NoError(t, err)
		parsed, err := Parse(kp.Identity.String())
		require.NoError(t, err)
		assert.Equal(t, kp.Identity, parsed)
	})
	t.Run("bad hex", func(t *testing.T) {
		_, err := Parse("zz")
		assert.True(t, errors.Is(err, ErrMalformed))
	})
	t.Run("short", func(t *testing.T) {
		_, err := Parse("abcd")
		assert.True(t, errors.Is(err, ErrMalformed))
	})
}

func TestKeypairFromSeed(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	again, err := KeypairFromSeed(kp.Seed())
	require.NoError(t, err)
	assert.Equal(t, kp.Identity, again.Identity)

	_, err = KeypairFromSeed("00")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestFromExternal(t *testing.T) {
	a := FromExternal("telegram", "42")
	assert.Equal(t, a, FromExternal("telegram", "42"))
	assert.NotEqual(t, a, FromExternal("telegram", "43"))
	assert.NotEqual(t, a, FromExternal("discord", "42"))
	assert.False(t, a.IsZero())
}

func TestAuthorization(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	auth, err := kp.Authorize("smash_cash", "submit_score", []byte("150"), now)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, auth.Verify("submit_score", []byte("150"), now.Add(time.Minute), 5*time.Minute))
	})
	t.Run("wrong payload", func(t *testing.T) {
		err := auth.Verify("submit_score", []byte("300"), now, 5*time.Minute)
		assert.True(t, errors.Is(err, ErrBadSignature))
	})
	t.Run("wrong op", func(t *testing.T) {
		err := auth.Verify("initialize", []byte("150"), now, 5*time.Minute)
		assert.True(t, errors.Is(err, ErrBadSignature))
	})
	t.Run("other signer", func(t *testing.T) {
		other, err := Generate()
		require.NoError(t, err)
		forged := auth
		forged.Signer = other.Identity
		assert.True(t, errors.Is(forged.Verify("submit_score", []byte("150"), now, 5*time.Minute), ErrBadSignature))
	})
	t.Run("stale", func(t *testing.T) {
		err := auth.Verify("submit_score", []byte("150"), now.Add(time.Hour), 5*time.Minute)
		assert.True(t, errors.Is(err, ErrStale))
	})
	t.Run("other deployment", func(t *testing.T) {
		moved := auth
		moved.Domain = "smash_cash_staging"
		assert.True(t, errors.Is(moved.Verify("submit_score", []byte("150"), now, 5*time.Minute), ErrBadSignature))
	})
	t.Run("nonce swapped", func(t *testing.T) {
		swapped := auth
		swapped.Nonce = make([]byte, NonceSize)
		assert.True(t, errors.Is(swapped.Verify("submit_score", []byte("150"), now, 5*time.Minute), ErrBadSignature))
	})
	t.Run("fresh nonce per call", func(t *testing.T) {
		again, err := kp.Authorize("smash_cash", "submit_score", []byte("150"), now)
		require.NoError(t, err)
		assert.NotEqual(t, auth.Nonce, again.Nonce)
		assert.NotEqual(t, auth.Signature, again.Signature)
	})
	t.Run("no window", func(t *testing.T) {
		assert.NoError(t, auth.Verify("submit_score", []byte("150"), now.Add(24*time.Hour), 0))
	})
}
