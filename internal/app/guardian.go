// Package app wires configuration, storage and the Telegram bots into
// runnable applications.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fpibot/internal/bot"
	"fpibot/internal/config"
	"fpibot/internal/punish"
	"fpibot/internal/storage/snapshot"
	"fpibot/internal/telegram"
)

// Guardian is the moderation application: the punishment store, the
// escalation engine, the expiry sweeper and the moderation bot.
type Guardian struct {
	config  *config.Config
	logger  *zap.Logger
	bot     *bot.Bot
	sweeper *punish.Sweeper
}

// NewGuardian creates and initializes the moderation application.
func NewGuardian() (*Guardian, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	log.Println("Starting guardian bot...")

	persist := snapshot.NewFile(cfg.DataFile)
	store, err := punish.NewStore(context.Background(), persist, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load punishment snapshot: %w", err)
	}
	esc := punish.NewEscalator(store)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	adapter := telegram.NewAdapter(api)

	return &Guardian{
		config:  cfg,
		logger:  logger,
		bot:     bot.NewBot(api, adapter, store, esc, cfg, logger),
		sweeper: punish.NewSweeper(store, adapter, cfg.ChatID, cfg.SweepInterval, logger),
	}, nil
}

// Run starts the application and blocks until shutdown.
func (g *Guardian) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go g.sweeper.Run(sweepCtx)

	go func() {
		log.Println("Starting bot in POLLING mode...")
		if err := g.bot.Start(); err != nil {
			log.Fatalf("Failed to start bot: %v", err)
		}
	}()

	<-sigChan

	log.Println("Shutting down...")
	stopSweep()
	g.bot.Stop()
	g.logger.Sync()
	log.Println("Shutdown complete")
	return nil
}
