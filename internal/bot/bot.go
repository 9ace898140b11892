package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/vladimiradmaev/care-planner/internal/bot/handlers"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/logger"
)

const updateTimeout = 2 * time.Minute

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
}

func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
	}, nil
}

// SendMessage delivers a plain text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(logger.ContextWithRequestID(ctx, uuid.NewString()), updateTimeout)
	defer cancel()

	if update.Message != nil && update.Message.From != nil {
		logger.WithContext(ctx).Debug("Received message", "telegram_id", update.Message.From.ID)
	}
	if err := b.handler.Handle(ctx, update); err != nil {
		logger.WithContext(ctx).Error("Error handling update", "update_id", update.UpdateID, "error", err)
	}
}
