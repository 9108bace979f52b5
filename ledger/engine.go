// Package ledger is the transition engine of the leaderboard: the rules that
// gate a request before it becomes a change to the global game record or a
// player record.
//
// The engine is stateless between calls. Every transition runs inside one
// storage Update, so all records it writes are committed together or not at
// all, and transitions touching the global record are serialized by the
// driver.
package ledger

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/object"
)

type Engine struct {
	store  *db.Store
	derive object.Deriver
	now    func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of LastPlayed.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store *db.Store, derive object.Deriver, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		derive: derive,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program names the deployment whose records this engine addresses.
func (e *Engine) Program() string {
	return e.derive.Program
}

func (e *Engine) GlobalAddress() object.Address {
	return e.derive.Global()
}

func (e *Engine) ParticipantAddress(id identity.Identity) object.Address {
	return e.derive.Participant(id)
}

// SubmitResult is the state of both records after an accepted submission.
type SubmitResult struct {
	Participant  ParticipantRecord
	Global       GlobalRecord
	NewHighScore bool
	NewTopScore  bool
}

// Initialize creates the global record with initiator as administrator.
func (e *Engine) Initialize(ctx context.Context, initiator identity.Identity) (object.Address, error) {
	addr := e.derive.Global()
	err := e.store.Update(ctx, func(tx db.Tx) error {
		exists, err := tx.Exists(addr)
		if err != nil {
			return err
		}
		if exists {
			return newError(CodeAlreadyInitialized, "game state already initialized at %s", addr)
		}
		return tx.PutObject(KindGlobal, addr, GlobalRecord{Administrator: initiator})
	})
	if err != nil {
		return object.Address{}, err
	}
	return addr, nil
}

// RegisterParticipant creates the player record of initiator and counts it
// in the global record.
func (e *Engine) RegisterParticipant(ctx context.Context, initiator identity.Identity) (object.Address, error) {
	globalAddr := e.derive.Global()
	addr := e.derive.Participant(initiator)
	err := e.store.Update(ctx, func(tx db.Tx) error {
		global, err := loadGlobal(tx, globalAddr)
		if err != nil {
			return err
		}
		exists, err := tx.Exists(addr)
		if err != nil {
			return err
		}
		if exists {
			return newError(CodeAlreadyRegistered, "player %s already registered", initiator)
		}

		count, ok := increment(global.ParticipantCount)
		if !ok {
			return newError(CodeCounterOverflow, "participant count would overflow")
		}
		global.ParticipantCount = count

		player := ParticipantRecord{
			Owner:      initiator,
			LastPlayed: e.now().Unix(),
		}
		if err := tx.PutObject(KindParticipant, addr, player); err != nil {
			return err
		}
		return tx.PutObject(KindGlobal, globalAddr, global)
	})
	if err != nil {
		return object.Address{}, err
	}
	return addr, nil
}

// SubmitScore records one game by initiator. The participant's high score
// and the global top score are compared against the raw submitted score; a
// later lower score still counts as a game played.
func (e *Engine) SubmitScore(ctx context.Context, initiator identity.Identity, score uint64) (SubmitResult, error) {
	globalAddr := e.derive.Global()
	addr := e.derive.Participant(initiator)

	var res SubmitResult
	err := e.store.Update(ctx, func(tx db.Tx) error {
		player, err := loadParticipant(tx, addr, initiator)
		if err != nil {
			return err
		}
		// Addressing alone does not prove who may write the record.
		if player.Owner != initiator {
			return newError(CodeUnauthorized, "player record %s is not owned by %s", addr, initiator)
		}
		global, err := loadGlobal(tx, globalAddr)
		if err != nil {
			return err
		}
		if score == 0 {
			return newError(CodeInvalidScore, "score must be greater than 0")
		}

		played, ok := increment(player.GamesPlayed)
		if !ok {
			return newError(CodeCounterOverflow, "games played by %s would overflow", initiator)
		}
		games, ok := increment(global.GameCount)
		if !ok {
			return newError(CodeCounterOverflow, "game count would overflow")
		}

		player.GamesPlayed = played
		player.LastPlayed = e.now().Unix()
		if score > player.HighScore {
			player.HighScore = score
			res.NewHighScore = true
		}

		global.GameCount = games
		if score > global.TopScore {
			top := initiator
			global.TopScore = score
			global.TopParticipant = &top
			res.NewTopScore = true
		}

		if err := tx.PutObject(KindParticipant, addr, player); err != nil {
			return err
		}
		if err := tx.PutObject(KindGlobal, globalAddr, global); err != nil {
			return err
		}
		res.Participant = player
		res.Global = global
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	return res, nil
}

// QueryLeaderboard returns a snapshot of the global record.
func (e *Engine) QueryLeaderboard(ctx context.Context) (GlobalRecord, error) {
	var global GlobalRecord
	err := e.store.View(ctx, func(tx db.Tx) error {
		var err error
		global, err = loadGlobal(tx, e.derive.Global())
		return err
	})
	return global, err
}

// Participant returns the player record of id.
func (e *Engine) Participant(ctx context.Context, id identity.Identity) (ParticipantRecord, error) {
	var player ParticipantRecord
	err := e.store.View(ctx, func(tx db.Tx) error {
		var err error
		player, err = loadParticipant(tx, e.derive.Participant(id), id)
		return err
	})
	return player, err
}

func loadGlobal(tx db.Tx, addr object.Address) (GlobalRecord, error) {
	var global GlobalRecord
	err := tx.GetObject(KindGlobal, addr, &global)
	if errors.Is(err, db.ErrNotFound) {
		return GlobalRecord{}, newError(CodeNotInitialized, "game state not initialized at %s", addr)
	}
	return global, err
}

func loadParticipant(tx db.Tx, addr object.Address, id identity.Identity) (ParticipantRecord, error) {
	var player ParticipantRecord
	err := tx.GetObject(KindParticipant, addr, &player)
	if errors.Is(err, db.ErrNotFound) {
		return ParticipantRecord{}, newError(CodeNotRegistered, "player %s not registered", id)
	}
	return player, err
}

func increment(n uint64) (uint64, bool) {
	if n == math.MaxUint64 {
		return n, false
	}
	return n + 1, true
}
