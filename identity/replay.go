package identity

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrReplayed = errors.New("authorization already used")

// ReplayGuard remembers accepted authorizations until they fall out of the
// verification window, after which Verify rejects them as stale anyway.
// With a zero window entries are never released.
type ReplayGuard struct {
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewReplayGuard(window time.Duration) *ReplayGuard {
	return &ReplayGuard{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// Accept records a and returns ErrReplayed if an authorization with the
// same signer and nonce was accepted before. Call it only after Verify.
func (g *ReplayGuard) Accept(a Authorization, now time.Time) error {
	key := a.Signer.String() + ":" + hex.EncodeToString(a.Nonce)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(now)
	if _, ok := g.seen[key]; ok {
		return errors.Wrapf(ErrReplayed, "signer %s", a.Signer)
	}
	var expires time.Time
	if g.window > 0 {
		expires = a.SignedAt.Add(g.window)
	}
	g.seen[key] = expires
	return nil
}

func (g *ReplayGuard) prune(now time.Time) {
	if g.window <= 0 {
		return
	}
	for key, expires := range g.seen {
		if now.After(expires) {
			delete(g.seen, key)
		}
	}
}

// Len reports how many authorizations are currently remembered.
func (g *ReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
