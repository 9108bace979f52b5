// Package bot is a Telegram frontend for the ledger. Telegram users hold no
// keys, so the bot acts for them under an identity derived from their
// Telegram user id.
package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/ledger"
	"github.com/Akash-YS05/smash-cash/object"
)

const identityNamespace = "telegram"

const helpText = `Smash Cash leaderboard
/join - register as a player
/score N - submit a score
/me - your stats
/top - leaderboard
/setup - create the game (first caller becomes admin)`

// MessageSender is the part of tgbotapi.BotAPI the handler needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Ledger is the part of ledger.Engine the handler needs.
type Ledger interface {
	Initialize(ctx context.Context, initiator identity.Identity) (object.Address, error)
	RegisterParticipant(ctx context.Context, initiator identity.Identity) (object.Address, error)
	SubmitScore(ctx context.Context, initiator identity.Identity, score uint64) (ledger.SubmitResult, error)
	QueryLeaderboard(ctx context.Context) (ledger.GlobalRecord, error)
	Participant(ctx context.Context, id identity.Identity) (ledger.ParticipantRecord, error)
}

type Handler struct {
	Bot    MessageSender
	Ledger Ledger
}

func NewHandler(bot MessageSender, l Ledger) *Handler {
	return &Handler{
		Bot:    bot,
		Ledger: l,
	}
}

// IdentityFor is the ledger identity the bot uses for a Telegram user.
func IdentityFor(user *tgbotapi.User) identity.Identity {
	return identity.FromExternal(identityNamespace, strconv.FormatInt(user.ID, 10))
}

// HandleMessage dispatches one command message. Non-commands are ignored.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		h.reply(chatID, helpText)
	case "setup":
		h.HandleSetup(ctx, chatID, msg.From)
	case "join":
		h.HandleJoin(ctx, chatID, msg.From)
	case "score":
		h.HandleScore(ctx, chatID, msg.From, msg.CommandArguments())
	case "me":
		h.HandleMe(ctx, chatID, msg.From)
	case "top", "leaderboard":
		h.HandleTop(ctx, chatID, msg.From)
	default:
		h.reply(chatID, "Unknown command. Try /help")
	}
}

func (h *Handler) HandleSetup(ctx context.Context, chatID int64, user *tgbotapi.User) {
	if _, err := h.Ledger.Initialize(ctx, IdentityFor(user)); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Game created. %s is the admin.", displayName(user)))
}

func (h *Handler) HandleJoin(ctx context.Context, chatID int64, user *tgbotapi.User) {
	if _, err := h.Ledger.RegisterParticipant(ctx, IdentityFor(user)); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Welcome, %s! Submit games with /score N", displayName(user)))
}

func (h *Handler) HandleScore(ctx context.Context, chatID int64, user *tgbotapi.User, args string) {
	arg := strings.TrimSpace(args)
	if arg == "" {
		h.reply(chatID, "Usage: /score N")
		return
	}
	var score uint64
	if !strings.HasPrefix(arg, "-") {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			h.reply(chatID, "Usage: /score N")
			return
		}
		score = n
	}

	res, err := h.Ledger.SubmitScore(ctx, IdentityFor(user), score)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s scored %d (game #%d).", displayName(user), score, res.Participant.GamesPlayed)
	switch {
	case res.NewTopScore:
		b.WriteString(" New top score!")
	case res.NewHighScore:
		b.WriteString(" New personal best!")
	}
	h.reply(chatID, b.String())
}

func (h *Handler) HandleMe(ctx context.Context, chatID int64, user *tgbotapi.User) {
	player, err := h.Ledger.Participant(ctx, IdentityFor(user))
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("%s: best %d, games %d", displayName(user), player.HighScore, player.GamesPlayed))
}

func (h *Handler) HandleTop(ctx context.Context, chatID int64, user *tgbotapi.User) {
	global, err := h.Ledger.QueryLeaderboard(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Players: %d\nGames: %d\n", global.ParticipantCount, global.GameCount)
	if global.TopParticipant == nil {
		b.WriteString("No scores yet.")
	} else {
		holder := shortIdentity(*global.TopParticipant)
		if *global.TopParticipant == IdentityFor(user) {
			holder = "you"
		}
		fmt.Fprintf(&b, "Top score: %d (%s)", global.TopScore, holder)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) replyError(chatID int64, err error) {
	code, ok := ledger.CodeOf(err)
	if !ok {
		log.Printf("bot: ledger error: %+v", err)
		h.reply(chatID, "Something went wrong, try again later.")
		return
	}
	h.reply(chatID, errorText(code))
}

func errorText(code ledger.Code) string {
	switch code {
	case ledger.CodeAlreadyInitialized:
		return "The game is already set up."
	case ledger.CodeNotInitialized:
		return "The game is not set up yet. Use /setup first."
	case ledger.CodeAlreadyRegistered:
		return "You are already registered."
	case ledger.CodeNotRegistered:
		return "You are not registered. Use /join first."
	case ledger.CodeUnauthorized:
		return "That player record is not yours."
	case ledger.CodeInvalidScore:
		return "Score must be greater than 0."
	case ledger.CodeCounterOverflow:
		return "Counter limit reached."
	default:
		return "Request rejected: " + string(code)
	}
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("bot: failed to send message: %v", errors.WithStack(err))
	}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return strconv.FormatInt(user.ID, 10)
}

func shortIdentity(id identity.Identity) string {
	s := id.String()
	return s[:8] + "…"
}
