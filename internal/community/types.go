package community

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/config"
	"fpibot/internal/floodgate"
	"fpibot/internal/price"
	"fpibot/internal/storage"
)

// Directory is the chat membership contract the community commands need.
// Implemented by telegram.Adapter; faked in tests.
type Directory interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	Administrators(ctx context.Context, chatID int64) ([]tgbotapi.ChatMember, error)
}

// Quoter fetches the current pair quote.
type Quoter interface {
	PairData(ctx context.Context) (price.Pair, error)
}

// Bot is the community/info bot: price lookups, member pings, usage
// statistics and new-member greetings.
type Bot struct {
	api       *tgbotapi.BotAPI
	dir       Directory
	stats     storage.Stats
	quoter    Quoter
	gate      *floodgate.Gate
	cfg       *config.Config
	logger    *zap.Logger
	startTime time.Time
}
