package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fpibot/internal/community"
	"fpibot/internal/config"
	"fpibot/internal/price"
	"fpibot/internal/storage"
	"fpibot/internal/storage/ch"
	"fpibot/internal/storage/stubs"
	"fpibot/internal/telegram"
)

// Community is the community/info application: price lookups, member
// pings and usage statistics.
type Community struct {
	config *config.Config
	logger *zap.Logger
	stats  storage.Stats
	bot    *community.Bot
	server *http.Server
}

// NewCommunity creates and initializes the community application.
func NewCommunity() (*Community, error) {
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

	app := &Community{config: cfg, logger: logger}

	log.Println("Starting community bot...")

	if err := app.initStats(); err != nil {
		return nil, err
	}
	if err := app.initBot(); err != nil {
		return nil, err
	}
	app.initHTTPServer()

	return app, nil
}

// initStats initializes the usage statistics backend.
func (c *Community) initStats() error {
	var stats storage.Stats
	if c.config.UseMockDB {
		log.Println("Using in-memory statistics")
		stats = stubs.NewMockStats()
	} else {
		tlsStatus := "without TLS"
		if c.config.ClickHouseUseTLS {
			tlsStatus = "with TLS"
		}
		log.Printf("Connecting to ClickHouse at %s:%d (database: %s, user: %s, %s)",
			c.config.ClickHouseHost, c.config.ClickHousePort, c.config.ClickHouseDatabase, c.config.ClickHouseUser, tlsStatus)
		chStats, err := ch.NewClickHouseStats(
			c.config.ClickHouseHost,
			c.config.ClickHousePort,
			c.config.ClickHouseDatabase,
			c.config.ClickHouseUser,
			c.config.ClickHousePassword,
			c.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		stats = chStats
	}

	ctx := context.Background()
	if err := stats.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize statistics backend: %w", err)
	}
	log.Println("Statistics backend initialized successfully")

	c.stats = stats
	return nil
}

// initBot initializes the Telegram bot.
func (c *Community) initBot() error {
	api, err := tgbotapi.NewBotAPI(c.config.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	adapter := telegram.NewAdapter(api)
	quoter := price.NewClient(c.config.PairAddress)

	c.bot = community.NewBot(api, adapter, c.stats, quoter, c.config, c.logger)
	return nil
}

// initHTTPServer starts the health-check HTTP server in the background.
func (c *Community) initHTTPServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Default port
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Community bot is running (mode: polling)")
	})

	c.server = &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", port)
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
}

// Run starts the application and blocks until shutdown.
func (c *Community) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Println("Starting bot in POLLING mode...")
		if err := c.bot.Start(); err != nil {
			log.Fatalf("Failed to start bot: %v", err)
		}
	}()

	<-sigChan

	log.Println("Shutting down...")
	return c.Shutdown()
}

// Shutdown gracefully shuts down the application.
func (c *Community) Shutdown() error {
	c.bot.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := c.stats.Close(); err != nil {
		log.Printf("Error closing statistics backend: %v", err)
		return err
	}

	c.logger.Sync()
	log.Println("Shutdown complete")
	return nil
}
