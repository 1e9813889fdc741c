package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/config"
	"fpibot/internal/filters"
	"fpibot/internal/floodgate"
	"fpibot/internal/punish"
)

// Moderator is the chat-transport contract the moderation commands need.
// Implemented by telegram.Adapter; faked in tests.
type Moderator interface {
	Ban(ctx context.Context, chatID, userID int64, until time.Time) error
	Unban(ctx context.Context, chatID, userID int64) error
	Restrict(ctx context.Context, chatID, userID int64, until time.Time) error
	Unrestrict(ctx context.Context, chatID, userID int64) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// Bot is the moderation bot: command handlers plus the message protection
// pipeline, over the punishment store and escalation engine.
type Bot struct {
	api    *tgbotapi.BotAPI
	mod    Moderator
	store  *punish.Store
	esc    *punish.Escalator
	gate   *floodgate.Gate
	spam   *filters.SpamTracker
	cfg    *config.Config
	logger *zap.Logger
}
