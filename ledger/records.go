package ledger

import (
	"github.com/Akash-YS05/smash-cash/identity"
)

// Kinds tag the two record shapes in storage.
const (
	KindGlobal      = "game_state"
	KindParticipant = "player"
)

// GlobalRecord is the singleton game record.
//
// TopScore never decreases. TopScore is zero and TopParticipant is nil
// exactly when GameCount is zero.
type GlobalRecord struct {
	Administrator    identity.Identity  `json:"administrator"`
	ParticipantCount uint64             `json:"participant_count"`
	GameCount        uint64             `json:"game_count"`
	TopScore         uint64             `json:"top_score"`
	TopParticipant   *identity.Identity `json:"top_participant,omitempty"`
}

// ParticipantRecord is one registered player. Owner never changes after
// registration.
type ParticipantRecord struct {
	Owner       identity.Identity `json:"owner"`
	HighScore   uint64            `json:"high_score"`
	GamesPlayed uint64            `json:"games_played"`
	// LastPlayed is unix seconds of registration or of the latest accepted
	// submission.
	LastPlayed int64 `json:"last_played"`
}
