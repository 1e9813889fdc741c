package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message, "An error occurred while processing your request. Please try again.")
		}
	}()

	if message.From == nil || !b.inScope(message.Chat.ID) {
		return
	}

	ctx := context.Background()

	if message.IsCommand() {
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
		b.handleCommand(ctx, message)
		return
	}

	b.checkMessage(ctx, message)
}

// handleCommand dispatches a single admitted command.
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "about":
		b.handleAbout(message)
	case "ban":
		b.handleBan(ctx, message)
	case "mute":
		b.handleMute(ctx, message)
	case "warn":
		b.handleWarn(ctx, message)
	case "unban":
		b.handleUnban(ctx, message)
	case "unmute":
		b.handleUnmute(ctx, message)
	case "unwarn":
		b.handleUnwarn(ctx, message)
	case "bans":
		b.handleBans(ctx, message)
	case "mutes":
		b.handleMutes(ctx, message)
	case "warns":
		b.handleWarns(ctx, message)
	case "slot":
		b.handleSlot(message)
	case "dice":
		b.handleDice(message)
	case "flip":
		b.handleFlip(message)
	case "casino":
		b.handleCasino(message)
	default:
		b.reply(message, "Unknown command. Use /help to see available commands.")
	}
}

// inScope checks whether the chat is the configured moderation chat. With
// no chat configured the check degrades to allow-all, loudly.
func (b *Bot) inScope(chatID int64) bool {
	if b.cfg.ChatID == 0 {
		b.logger.Error("No chat id configured, treating all chats as in scope")
		return true
	}
	return chatID == b.cfg.ChatID
}

// requireAdmin replies with a refusal when the sender is not an admin.
func (b *Bot) requireAdmin(ctx context.Context, message *tgbotapi.Message) bool {
	isAdmin, err := b.mod.IsAdmin(ctx, message.Chat.ID, message.From.ID)
	if err != nil {
		b.logger.Error("Failed to check admin status",
			zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.reply(message, "❌ Could not verify permissions, try again.")
		return false
	}
	if !isAdmin {
		b.reply(message, "❌ You do not have permission to do that.")
		return false
	}
	return true
}
