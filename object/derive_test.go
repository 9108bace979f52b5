package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akash-YS05/smash-cash/identity"
)

func TestDeterministicKey(t *testing.T) {
	layout := NewSeedLayout("tag", "program")
	a := layout.DeterministicKey(Seeds{"program": "p", "tag": "t"})
	b := NewSeedLayout("program", "tag").DeterministicKey(Seeds{"tag": "t", "program": "p"})
	assert.Equal(t, a, b, "rendering must not depend on declaration order")
	assert.Contains(t, a, "program")
	assert.Contains(t, a, "tag")
}

func TestDeriver(t *testing.T) {
	d := NewDeriver("")
	assert.Equal(t, DefaultProgram, d.Program)

	t.Run("global is stable", func(t *testing.T) {
		assert.Equal(t, d.Global(), d.Global())
		assert.Equal(t, d.Global(), NewDeriver(DefaultProgram).Global())
	})

	t.Run("participants are distinct", func(t *testing.T) {
		a, err := identity.Generate()
		require.NoError(t, err)
		b, err := identity.Generate()
		require.NoError(t, err)

		assert.Equal(t, d.Participant(a.Identity), d.Participant(a.Identity))
		assert.NotEqual(t, d.Participant(a.Identity), d.Participant(b.Identity))
		assert.NotEqual(t, d.Global(), d.Participant(a.Identity))
		assert.NotEqual(t, d.Global(), d.Participant(identity.Identity{}))
	})

	t.Run("program scopes addresses", func(t *testing.T) {
		other := NewDeriver("other")
		id := identity.FromExternal("test", "1")
		assert.NotEqual(t, d.Global(), other.Global())
		assert.NotEqual(t, d.Participant(id), other.Participant(id))
	})
}

func TestParseAddress(t *testing.T) {
	addr := NewDeriver("").Global()
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("not-hex")
	assert.ErrorIs(t, err, ErrMalformedAddress)
}
