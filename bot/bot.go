package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

const pollTimeout = 60

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

func New(token string, debug bool, l Ledger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "connect to telegram")
	}
	api.Debug = debug
	return &Bot{
		api:     api,
		handler: NewHandler(api, l),
	}, nil
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	log.Printf("bot: authorized as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handler.HandleMessage(ctx, update.Message)
		}
	}
}
