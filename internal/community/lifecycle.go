package community

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/models"
)

// Start starts the bot in polling mode
func (b *Bot) Start() error {
	b.logger.Info("Starting community bot in polling mode")

	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Community bot started. Waiting for updates...")

	b.handleUpdates(updates)
	return nil
}

// Stop shuts down the update polling.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message != nil {
			b.handleMessage(update.Message)
		}
		if update.CallbackQuery != nil {
			b.handleCallbackQuery(update.CallbackQuery)
		}
	}
}

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
		}
	}()

	if message.From == nil {
		return
	}

	ctx := context.Background()

	if len(message.NewChatMembers) > 0 {
		b.handleNewMembers(message)
		return
	}

	if !message.IsCommand() {
		return
	}

	// Flood control gates every command.
	decision := b.gate.Admit(message.From.ID, time.Now())
	if !decision.Allowed {
		wait := int(decision.RetryAfter.Round(time.Second) / time.Second)
		if wait < 1 {
			wait = 1
		}
		b.reply(message, fmt.Sprintf("⚠️ *Flood control active!*\nWait %d seconds before the next command.", wait))
		return
	}

	b.recordUsage(ctx, message)

	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "about":
		b.handleAbout(message)
	case "coin":
		b.handleCoin(ctx, message)
	case "stat":
		b.handleStat(ctx, message)
	case "all":
		b.handlePingAll(ctx, message)
	case "mod":
		b.handlePingMods(ctx, message)
	}
}

// recordUsage logs the command for statistics; failures never block the
// command itself.
func (b *Bot) recordUsage(ctx context.Context, message *tgbotapi.Message) {
	ev := models.CommandEvent{
		UserID:  message.From.ID,
		Command: "/" + message.Command(),
		At:      time.Now(),
	}
	if err := b.stats.RecordCommand(ctx, ev); err != nil {
		b.logger.Error("Failed to record command usage", zap.Error(err))
	}
}
