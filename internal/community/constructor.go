package community

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/config"
	"fpibot/internal/floodgate"
	"fpibot/internal/storage"
)

// NewBot creates the community bot over an existing API client.
func NewBot(api *tgbotapi.BotAPI, dir Directory, stats storage.Stats, quoter Quoter, cfg *config.Config, logger *zap.Logger) *Bot {
	return &Bot{
		api:       api,
		dir:       dir,
		stats:     stats,
		quoter:    quoter,
		gate:      floodgate.New(cfg.FloodLimit, cfg.FloodTimeout),
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
	}
}
