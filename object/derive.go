// Package object derives storage addresses for ledger records. An address
// is a pure function of a fixed seed layout: the same inputs always give the
// same address, and there is no registry to consult. Seeds are rendered as a
// logfmt record with the attribute names sorted, then hashed.
package object

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/etnz/logfmt"
	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/identity"
)

const (
	// TagGlobal namespaces the singleton game record.
	TagGlobal = "game_state"
	// TagParticipant namespaces per identity player records.
	TagParticipant = "player"

	DefaultProgram = "smash_cash"
)

var (
	globalLayout      = NewSeedLayout("program", "tag")
	participantLayout = NewSeedLayout("program", "tag", "identity")
)

var ErrMalformedAddress = errors.New("malformed address")

type Address [sha256.Size]byte

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func ParseAddress(s string) (Address, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) != sha256.Size {
		return Address{}, ErrMalformedAddress
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// Seeds holds the named inputs of one derivation.
type Seeds map[string]string

// SeedLayout fixes which seed names take part in a derivation and in what
// order they are rendered.
type SeedLayout struct {
	names []string
}

func NewSeedLayout(names ...string) SeedLayout {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return SeedLayout{names: sorted}
}

// DeterministicKey renders seeds in layout order. Names missing from seeds
// render as empty values, so two layouts never share a key.
func (l SeedLayout) DeterministicKey(seeds Seeds) string {
	rec := logfmt.Rec()
	for _, name := range l.names {
		rec = rec.Q(name, seeds[name])
	}
	return rec.String()
}

func (l SeedLayout) Address(seeds Seeds) Address {
	return Address(sha256.Sum256([]byte(l.DeterministicKey(seeds))))
}

// Deriver computes record addresses for one deployment. Program scopes all
// addresses so two deployments sharing a store never collide.
type Deriver struct {
	Program string
}

func NewDeriver(program string) Deriver {
	if program == "" {
		program = DefaultProgram
	}
	return Deriver{Program: program}
}

// Global is the address of the singleton game record.
func (d Deriver) Global() Address {
	return globalLayout.Address(Seeds{
		"program": d.Program,
		"tag":     TagGlobal,
	})
}

// Participant is the address of the player record owned by id.
func (d Deriver) Participant(id identity.Identity) Address {
	return participantLayout.Address(Seeds{
		"program":  d.Program,
		"tag":      TagParticipant,
		"identity": id.String(),
	})
}
