package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string

	// ChatID scopes moderation to one chat. Zero means unscoped: scope
	// checks degrade to allow-all and log an error on every check.
	ChatID int64

	// AdminIDs may use admin-only community commands such as /stat.
	AdminIDs []int64

	// DataFile is the punishment snapshot path.
	DataFile string

	// Protection toggles
	AntiCaps bool
	AntiSpam bool

	// Flood control (command admission)
	FloodLimit   int
	FloodTimeout time.Duration

	// Antispam muting (content moderation)
	SpamWindow      time.Duration
	SpamMaxMessages int
	SpamMuteFor     time.Duration

	// SweepInterval drives the expired-punishment reconciliation.
	SweepInterval time.Duration

	// PairAddress is the DexScreener pair the /coin command quotes.
	PairAddress string

	// ClickHouse configuration (usage statistics)
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Scope chat (optional, but moderation degrades without it)
	if chatIDStr := os.Getenv("CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(strings.TrimSpace(chatIDStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_ID: %w", err)
		}
		config.ChatID = chatID
	}

	// Admin IDs (comma-separated, optional)
	if adminIDsStr := os.Getenv("ADMIN_IDS"); adminIDsStr != "" {
		for _, idStr := range strings.Split(adminIDsStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID in ADMIN_IDS: %s", idStr)
			}
			config.AdminIDs = append(config.AdminIDs, id)
		}
	}

	config.DataFile = getEnvDefault("DATA_FILE", "punishments.json")

	config.AntiCaps = getEnvDefault("ANTICAPS", "true") == "true"
	config.AntiSpam = getEnvDefault("ANTISPAM", "true") == "true"

	var err error
	if config.FloodLimit, err = getEnvInt("FLOOD_LIMIT", 3); err != nil {
		return nil, err
	}
	if config.FloodTimeout, err = getEnvSeconds("FLOOD_TIMEOUT_SECONDS", 3*time.Second); err != nil {
		return nil, err
	}

	if config.SpamWindow, err = getEnvSeconds("SPAM_SECONDS", 10*time.Second); err != nil {
		return nil, err
	}
	if config.SpamMaxMessages, err = getEnvInt("MAX_MESSAGES", 5); err != nil {
		return nil, err
	}
	muteMinutes, err := getEnvInt("MUTE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	config.SpamMuteFor = time.Duration(muteMinutes) * time.Minute

	if config.SweepInterval, err = getEnvSeconds("SWEEP_INTERVAL_SECONDS", 60*time.Second); err != nil {
		return nil, err
	}

	config.PairAddress = os.Getenv("PAIR_ADDRESS")

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	// ClickHouse configuration (required if not using mock)
	if !config.UseMockDB {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_DB is not set")
		}

		if config.ClickHousePort, err = getEnvInt("CLICKHOUSE_PORT", 9000); err != nil {
			return nil, err
		}

		config.ClickHouseDatabase = getEnvDefault("CLICKHOUSE_DATABASE", "default")
		config.ClickHouseUser = getEnvDefault("CLICKHOUSE_USER", "default")
		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	return config, nil
}

// IsAdminID reports whether id is in the configured admin list.
func (c *Config) IsAdminID(id int64) bool {
	for _, adminID := range c.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSeconds(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return time.Duration(n) * time.Second, nil
}
