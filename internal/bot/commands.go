package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fpibot/internal/models"
	"fpibot/internal/punish"
)

// handleStart shows the welcome message.
func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.reply(message, `👑 *FPI Clan Bot* 👑

💂‍♂️ Hi! I moderate the FPI clan chat.
🛡 I keep order and make the chat a better place.

ℹ️ Use /help to see the commands
🎲 There are also mini-games!`)
}

// handleHelp lists the available commands.
func (b *Bot) handleHelp(message *tgbotapi.Message) {
	b.reply(message, `📚 *Commands* 📚

🛡 *Moderation:*
⛔️ ` + "`/ban [ID/reply] [time] [reason]`" + ` - Ban
🔇 ` + "`/mute [ID/reply] [time] [reason]`" + ` - Mute
⚠️ ` + "`/warn [ID/reply] [reason]`" + ` - Warn
♻️ ` + "`/unban [ID]`" + ` - Unban
🔊 ` + "`/unmute [ID/reply]`" + ` - Unmute
🔄 ` + "`/unwarn [ID/reply]`" + ` - Retract a warn

📜 *Information:*
📄 ` + "`/bans`" + ` - Active bans
📄 ` + "`/mutes`" + ` - Active mutes
📄 ` + "`/warns`" + ` - Warnings
ℹ️ ` + "`/about`" + ` - About the bot

🎲 *Mini-games:*
🎰 ` + "`/slot`" + ` - Slots
🎲 ` + "`/dice`" + ` - Dice
🪙 ` + "`/flip`" + ` - Coin flip
🎯 ` + "`/casino`" + ` - Casino`)
}

// handleAbout shows bot information.
func (b *Bot) handleAbout(message *tgbotapi.Message) {
	b.reply(message, `⭐️ *About* ⭐️

📜 *Features:*
• Chat moderation
• Warning system with escalation
• Spam, flood and caps protection
• Mini-games`)
}

// handleBans lists active bans.
func (b *Bot) handleBans(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	active := b.store.Active(models.KindBans, time.Now())
	if len(active) == 0 {
		b.reply(message, "ℹ️ No active bans")
		return
	}

	var text strings.Builder
	text.WriteString("⛔️ *Active bans* ⛔️\n")
	for _, ban := range active {
		duration := "permanent"
		if until, ok := ban.Until(); ok {
			duration = "until " + until.Format("02.01.2006 15:04")
		}
		fmt.Fprintf(&text, "\n💂‍♂️ *Offender:* %s\n⏰ *Term:* %s\n📜 *Reason:* %s\n🛡 *Issued by:* %s\n",
			mention(ban.UserID, "User"), duration, ban.Reason, ban.AdminName)
	}
	b.reply(message, text.String())
}

// handleMutes lists active mutes with remaining time.
func (b *Bot) handleMutes(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	now := time.Now()
	active := b.store.Active(models.KindMutes, now)
	if len(active) == 0 {
		b.reply(message, "ℹ️ No active mutes")
		return
	}

	var text strings.Builder
	text.WriteString("🔇 *Active mutes* 🔇\n")
	for _, mute := range active {
		remaining := "permanent"
		if until, ok := mute.Until(); ok {
			remaining = formatDuration(until.Sub(now))
		}
		fmt.Fprintf(&text, "\n💂‍♂️ *Offender:* %s\n⏰ *Remaining:* %s\n📜 *Reason:* %s\n🛡 *Issued by:* %s\n",
			mention(mute.UserID, "User"), remaining, mute.Reason, mute.AdminName)
	}
	b.reply(message, text.String())
}

// handleWarns lists all warnings grouped by user.
func (b *Bot) handleWarns(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	warns := b.store.All(models.KindWarns)
	if len(warns) == 0 {
		b.reply(message, "ℹ️ No warnings")
		return
	}

	// Group warns by user, keeping first-seen order.
	byUser := make(map[int64][]models.Punishment)
	var order []int64
	for _, warn := range warns {
		if _, seen := byUser[warn.UserID]; !seen {
			order = append(order, warn.UserID)
		}
		byUser[warn.UserID] = append(byUser[warn.UserID], warn)
	}

	var text strings.Builder
	text.WriteString("⚠️ *Warnings* ⚠️\n")
	for _, userID := range order {
		fmt.Fprintf(&text, "\n💂‍♂️ *Offender:* %s\n🚨 *Warns:* %d/%d\n",
			mention(userID, "User"), len(byUser[userID]), punish.WarnThreshold)
		for _, warn := range byUser[userID] {
			issued := time.Unix(int64(warn.Date), 0).Format("02.01.2006 15:04")
			fmt.Fprintf(&text, "📜 *Reason:* %s\n🛡 *Issued by:* %s\n⏰ *Date:* %s\n",
				warn.Reason, warn.AdminName, issued)
		}
	}
	b.reply(message, text.String())
}
