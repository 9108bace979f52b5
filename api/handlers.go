package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/ledger"
	"github.com/Akash-YS05/smash-cash/object"
)

// Operation names bound into every signature.
const (
	OpInitialize          = "initialize"
	OpRegisterParticipant = "register_participant"
	OpSubmitScore         = "submit_score"
)

// SignedRequest is the body of every mutating call. Payload is empty for
// initialize and register, and the decimal score text for submissions.
// The signature also covers the deployment's program name and the nonce,
// and each nonce is accepted once per signer.
type SignedRequest struct {
	Signer    identity.Identity `json:"signer"`
	SignedAt  int64             `json:"signed_at"`
	Nonce     string            `json:"nonce"`
	Signature string            `json:"signature"`
	Score     json.Number       `json:"score,omitempty"`
}

// NewSignedRequest signs op for kp against the deployment named program.
// score is ignored unless op is OpSubmitScore.
func NewSignedRequest(kp identity.Keypair, program, op, score string, at time.Time) (SignedRequest, error) {
	var payload []byte
	if op == OpSubmitScore {
		payload = []byte(score)
	}
	auth, err := kp.Authorize(program, op, payload, at)
	if err != nil {
		return SignedRequest{}, err
	}
	req := SignedRequest{
		Signer:    auth.Signer,
		SignedAt:  auth.SignedAt.Unix(),
		Nonce:     hex.EncodeToString(auth.Nonce),
		Signature: hex.EncodeToString(auth.Signature),
	}
	if op == OpSubmitScore {
		req.Score = json.Number(score)
	}
	return req, nil
}

type addressResponse struct {
	Address object.Address `json:"address"`
}

type leaderboardResponse struct {
	Address object.Address `json:"address"`
	ledger.GlobalRecord
}

type participantResponse struct {
	Address object.Address `json:"address"`
	ledger.ParticipantRecord
}

type submitResponse struct {
	Participant  participantResponse `json:"participant"`
	Leaderboard  leaderboardResponse `json:"leaderboard"`
	NewHighScore bool                `json:"new_high_score"`
	NewTopScore  bool                `json:"new_top_score"`
}

func (s *server) globalAddress(c *gin.Context) {
	c.JSON(http.StatusOK, addressResponse{Address: s.engine.GlobalAddress()})
}

func (s *server) participantAddress(c *gin.Context) {
	id, err := identity.Parse(c.Param("identity"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addressResponse{Address: s.engine.ParticipantAddress(id)})
}

func (s *server) initialize(c *gin.Context) {
	initiator, _, ok := s.authenticate(c, OpInitialize)
	if !ok {
		return
	}
	addr, err := s.engine.Initialize(c.Request.Context(), initiator)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addressResponse{Address: addr})
}

func (s *server) registerParticipant(c *gin.Context) {
	initiator, _, ok := s.authenticate(c, OpRegisterParticipant)
	if !ok {
		return
	}
	addr, err := s.engine.RegisterParticipant(c.Request.Context(), initiator)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addressResponse{Address: addr})
}

func (s *server) submitScore(c *gin.Context) {
	initiator, req, ok := s.authenticate(c, OpSubmitScore)
	if !ok {
		return
	}
	score, err := parseScore(req.Score)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := s.engine.SubmitScore(c.Request.Context(), initiator, score)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResponse{
		Participant:  participantResponse{Address: s.engine.ParticipantAddress(initiator), ParticipantRecord: res.Participant},
		Leaderboard:  leaderboardResponse{Address: s.engine.GlobalAddress(), GlobalRecord: res.Global},
		NewHighScore: res.NewHighScore,
		NewTopScore:  res.NewTopScore,
	})
}

func (s *server) leaderboard(c *gin.Context) {
	global, err := s.engine.QueryLeaderboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaderboardResponse{Address: s.engine.GlobalAddress(), GlobalRecord: global})
}

func (s *server) participant(c *gin.Context) {
	id, err := identity.Parse(c.Param("identity"))
	if err != nil {
		writeError(c, err)
		return
	}
	player, err := s.engine.Participant(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, participantResponse{Address: s.engine.ParticipantAddress(id), ParticipantRecord: player})
}

// authenticate decodes the signed body and verifies it for op. On failure
// it has already written the response.
func (s *server) authenticate(c *gin.Context, op string) (identity.Identity, SignedRequest, bool) {
	var req SignedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body: "+err.Error())
		return identity.Identity{}, req, false
	}
	if req.Signer.IsZero() {
		badRequest(c, "signer is required")
		return identity.Identity{}, req, false
	}
	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		badRequest(c, "signature must be hex")
		return identity.Identity{}, req, false
	}
	nonce, err := hex.DecodeString(req.Nonce)
	if err != nil || len(nonce) != identity.NonceSize {
		badRequest(c, "nonce must be 16 hex encoded bytes")
		return identity.Identity{}, req, false
	}

	var payload []byte
	if op == OpSubmitScore {
		payload = []byte(req.Score.String())
	}
	auth := identity.Authorization{
		Domain:    s.engine.Program(),
		Signer:    req.Signer,
		SignedAt:  time.Unix(req.SignedAt, 0).UTC(),
		Nonce:     nonce,
		Signature: sig,
	}
	now := s.now()
	if err := auth.Verify(op, payload, now, s.window); err != nil {
		writeError(c, err)
		return identity.Identity{}, req, false
	}
	if err := s.seen.Accept(auth, now); err != nil {
		writeError(c, err)
		return identity.Identity{}, req, false
	}
	return req.Signer, req, true
}

// parseScore accepts any integer text. Zero and negatives are valid input
// that the ledger rejects as an invalid score.
func parseScore(n json.Number) (uint64, error) {
	text := strings.TrimSpace(n.String())
	if text == "" || strings.HasPrefix(text, "-") {
		return 0, ledger.ErrInvalidScore
	}
	score, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, &ledger.Error{Code: ledger.CodeInvalidScore, Message: "score must be a positive integer", Cause: err}
	}
	return score, nil
}
