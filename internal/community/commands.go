package community

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// mentionChunkLimit keeps ping messages under the Telegram length cap.
const mentionChunkLimit = 3500

// handleStart shows the welcome message.
func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.reply(message, `👋 *Welcome to FPIBANK!*

🤖 I am your personal assistant.
📊 Use /coin for the current price
ℹ️ /about - creator info
📢 /all - ping known members (admins only)
👥 /mod - ping the admins (admins only)`)
}

// handleAbout shows creator information.
func (b *Bot) handleAbout(message *tgbotapi.Message) {
	b.reply(message, `👨‍💻 *Creator:* FPI clan
📱 *Contact:* see the chat description`)
}

// handleCoin posts the price card with the timeframe keyboard.
func (b *Bot) handleCoin(ctx context.Context, message *tgbotapi.Message) {
	pair, err := b.quoter.PairData(ctx)
	if err != nil {
		b.logger.Error("Failed to fetch pair data", zap.Error(err))
		b.reply(message, "❌ *Could not fetch price data*\n\nPlease try again later.")
		return
	}

	priceUSD, _ := strconv.ParseFloat(pair.PriceUSD, 64)
	trend := "📉 Falling"
	if pair.PriceChange.H24 > 0 {
		trend = "📈 Rising"
	}

	text := fmt.Sprintf(`🏦 *FPIBANK Price Analysis*

💰 Price: $%.6f
📊 24h: %+.2f%%
📈 Trend: %s

📊 *Market data:*
💎 Market Cap: $%.2f
💧 Liquidity: $%.2f
📈 Volume (24h): $%.2f

🕒 %s`,
		priceUSD, pair.PriceChange.H24, trend,
		pair.FDV, pair.Liquidity.USD, pair.Volume.H24,
		time.Now().Format("02.01.2006 15:04:05"))

	b.sendWithMarkup(message.Chat.ID, text, timeframeKeyboard())
}

// handleStat reports uptime and usage statistics to configured admins.
func (b *Bot) handleStat(ctx context.Context, message *tgbotapi.Message) {
	if !b.cfg.IsAdminID(message.From.ID) {
		return
	}

	summary, err := b.stats.Summary(ctx, time.Now())
	if err != nil {
		b.logger.Error("Failed to load usage summary", zap.Error(err))
		b.reply(message, "❌ Could not load statistics.")
		return
	}

	uptime := time.Since(b.startTime)
	hours := int(uptime.Hours())
	minutes := int(uptime.Minutes()) % 60

	b.reply(message, fmt.Sprintf(`📊 *Bot statistics*

*💻 System:*
⏱ Uptime: %dh %dm

*👥 Users:*
📈 Total users: %d
🔄 /coin requests: %d
📊 Activity today: %d commands`,
		hours, minutes,
		summary.TotalUsers, summary.CoinRequests, summary.CommandsToday))
}

// handlePingAll mentions every user the stats log has seen, in chunks.
// The Bot API cannot enumerate chat members, so the usage log is the best
// member directory available.
func (b *Bot) handlePingAll(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireChatAdmin(ctx, message) {
		return
	}

	users, err := b.stats.KnownUsers(ctx)
	if err != nil {
		b.logger.Error("Failed to list known users", zap.Error(err))
		b.reply(message, "❌ *Error*\nCould not build the member list!")
		return
	}
	if len(users) == 0 {
		b.reply(message, "❌ *Error*\nNo known members yet!")
		return
	}

	var tags []string
	var size int
	for _, userID := range users {
		tag := fmt.Sprintf("[Member](tg://user?id=%d)", userID)
		tags = append(tags, tag)
		size += len(tag) + 1
		if size > mentionChunkLimit {
			b.send(message.Chat.ID, "📢 *Attention!*\n\n"+strings.Join(tags, " "))
			tags = nil
			size = 0
		}
	}
	if len(tags) > 0 {
		b.send(message.Chat.ID, "📢 *Attention!*\n\n"+strings.Join(tags, " "))
	}
}

// handlePingMods mentions the chat administrators.
func (b *Bot) handlePingMods(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireChatAdmin(ctx, message) {
		return
	}

	admins, err := b.dir.Administrators(ctx, message.Chat.ID)
	if err != nil {
		b.logger.Error("Failed to list administrators", zap.Error(err))
		b.reply(message, "❌ *Error*\nCould not get the administrator list!")
		return
	}

	var tags []string
	for _, admin := range admins {
		if admin.User == nil || admin.User.IsBot {
			continue
		}
		tags = append(tags, fmt.Sprintf("[%s](tg://user?id=%d)", admin.User.FirstName, admin.User.ID))
	}
	if len(tags) == 0 {
		b.reply(message, "❌ *Error*\nNo administrators found!")
		return
	}

	b.send(message.Chat.ID, "👥 *Attention, administrators!*\n\n"+strings.Join(tags, " "))
}

// handleNewMembers greets users joining the scoped chat.
func (b *Bot) handleNewMembers(message *tgbotapi.Message) {
	if !b.inScope(message.Chat.ID) {
		return
	}
	for _, member := range message.NewChatMembers {
		if member.IsBot {
			continue
		}
		b.send(message.Chat.ID, `🌟 Welcome to the FPI clan chat!

🤖 We have our own bot - check /start
👥 Looking forward to your ideas and contributions!`)
		return
	}
}

// requireChatAdmin checks the sender's membership status in the scoped chat.
func (b *Bot) requireChatAdmin(ctx context.Context, message *tgbotapi.Message) bool {
	if !b.inScope(message.Chat.ID) {
		return false
	}
	isAdmin, err := b.dir.IsAdmin(ctx, message.Chat.ID, message.From.ID)
	if err != nil {
		b.logger.Error("Failed to check admin status",
			zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.reply(message, "❌ Could not verify permissions, try again.")
		return false
	}
	if !isAdmin {
		b.reply(message, "❌ *Access denied*\nThis command is for administrators only!")
		return false
	}
	return true
}

// inScope checks whether the chat is the configured community chat.
func (b *Bot) inScope(chatID int64) bool {
	if b.cfg.ChatID == 0 {
		b.logger.Error("No chat id configured, treating all chats as in scope")
		return true
	}
	return chatID == b.cfg.ChatID
}
