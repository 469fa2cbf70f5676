package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Telegram connects a controller to the Bot API via long polling
type Telegram struct {
	api *tgbotapi.BotAPI
	*Bot
}

// New connects to Telegram and builds the controller. d.Messenger is
// replaced by the live API.
func New(token string, debug bool, d Deps) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	api.Debug = debug

	log.Info().Str("username", api.Self.UserName).Msg("🤖 Telegram bot connected")

	d.Messenger = &telegramMessenger{api: api}
	return &Telegram{api: api, Bot: NewController(d)}, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled on its
// own goroutine; per-chat locks keep one chat's updates in order of arrival
// at the lock.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.CallbackQuery != nil {
				go t.HandleCallback(ctx, queryFrom(update.CallbackQuery))
			}
			if update.Message != nil && update.Message.From != nil {
				go t.HandleMessage(ctx, Message{
					UserID: update.Message.From.ID,
					ChatID: update.Message.Chat.ID,
					Text:   update.Message.Text,
				})
			}
		case <-ctx.Done():
			log.Info().Msg("🛑 Telegram polling stopped")
			return nil
		}
	}
}

func queryFrom(cb *tgbotapi.CallbackQuery) Query {
	q := Query{ID: cb.ID, Data: cb.Data}
	if cb.From != nil {
		q.UserID = cb.From.ID
	}
	if cb.Message != nil {
		q.ChatID = cb.Message.Chat.ID
		q.MessageID = cb.Message.MessageID
		q.Text = cb.Message.Text
	}
	return q
}
