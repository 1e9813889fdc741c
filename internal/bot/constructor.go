package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/config"
	"fpibot/internal/filters"
	"fpibot/internal/floodgate"
	"fpibot/internal/punish"
)

// NewBot creates the moderation bot over an existing API client and the
// punishment components.
func NewBot(api *tgbotapi.BotAPI, mod Moderator, store *punish.Store, esc *punish.Escalator, cfg *config.Config, logger *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		mod:    mod,
		store:  store,
		esc:    esc,
		gate:   floodgate.New(cfg.FloodLimit, cfg.FloodTimeout),
		spam:   filters.NewSpamTracker(cfg.SpamWindow, cfg.SpamMaxMessages),
		cfg:    cfg,
		logger: logger,
	}
}
