// Package identity defines the principals that transitions are attributed
// to. An Identity is an ed25519 public key; its text form is lowercase hex.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Size is the byte length of an Identity.
const Size = ed25519.PublicKeySize

// ErrMalformed is returned when an identity or key cannot be decoded.
var ErrMalformed = errors.New("malformed identity")

type Identity [Size]byte

func (i Identity) String() string {
	return hex.EncodeToString(i[:])
}

func (i Identity) IsZero() bool {
	return i == Identity{}
}

func (i Identity) Bytes() []byte {
	return i[:]
}

func (i Identity) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(i[:])
}

func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Identity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Parse decodes the hex text form of an identity.
func Parse(s string) (Identity, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Identity{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if len(raw) != Size {
		return Identity{}, errors.Wrapf(ErrMalformed, "want %d bytes, got %d", Size, len(raw))
	}
	var id Identity
	copy(id[:], raw)
	return id, nil
}

// FromExternal maps an account on some other system (a chat user, an OAuth
// subject) to a stable identity. Nobody holds the private key for it, so it
// can only be used by a frontend that acts on the user's behalf.
func FromExternal(namespace, subject string) Identity {
	h := sha256.New()
	h.Write([]byte("smash-cash/external"))
	h.Write([]byte{0})
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write([]byte(subject))
	var id Identity
	copy(id[:], h.Sum(nil))
	return id
}

// Keypair is an identity together with the private key that signs for it.
type Keypair struct {
	Identity Identity
	Private  ed25519.PrivateKey
}

func Generate() (Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, errors.WithStack(err)
	}
	var id Identity
	copy(id[:], pub)
	return Keypair{Identity: id, Private: priv}, nil
}

// KeypairFromSeed rebuilds a keypair from the hex encoded 32 byte seed
// printed by Seed.
func KeypairFromSeed(seedHex string) (Keypair, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(seedHex))
	if err != nil {
		return Keypair{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if len(seed) != ed25519.SeedSize {
		return Keypair{}, errors.Wrapf(ErrMalformed, "want %d byte seed, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var id Identity
	copy(id[:], priv.Public().(ed25519.PublicKey))
	return Keypair{Identity: id, Private: priv}, nil
}

func (k Keypair) Seed() string {
	return hex.EncodeToString(k.Private.Seed())
}
