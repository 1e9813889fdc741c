package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/models"
	"fpibot/internal/punish"
)

const defaultMuteDuration = time.Hour

// handleBan bans a user: /ban [ID/reply] [1d/2h/30m] [reason].
// The Telegram call goes first; the record is only persisted when it
// succeeded.
func (b *Bot) handleBan(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	tgt, rest, err := resolveTarget(message, splitArgs(message))
	if err != nil {
		b.reply(message, "ℹ️ Usage: `/ban [ID/reply] [time(1d/1h/30m)] [reason]`")
		return
	}

	now := time.Now()
	var until time.Time
	var durationText = "permanent"
	if len(rest) > 0 {
		if d, ok := parseDuration(rest[0]); ok {
			until = now.Add(d)
			durationText = formatDuration(d)
			rest = rest[1:]
		}
	}
	reason := joinReason(rest)

	if err := b.mod.Ban(ctx, message.Chat.ID, tgt.userID, until); err != nil {
		b.logger.Error("Ban failed", zap.Int64("user_id", tgt.userID), zap.Error(err))
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	rec := models.Punishment{
		UserID:    tgt.userID,
		AdminID:   message.From.ID,
		AdminName: userMention(message.From),
		Reason:    reason,
		Date:      models.Epoch(now),
	}
	if !until.IsZero() {
		rec.UntilDate = models.EpochPtr(until)
	}
	if err := b.store.Add(ctx, models.KindBans, rec); err != nil {
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	b.reply(message, fmt.Sprintf(
		"⛔️ *User banned*\n\n💂‍♂️ *Offender:* %s\n⏰ *Duration:* %s\n📜 *Reason:* %s\n🛡 *Moderator:* %s",
		tgt.mention, durationText, reason, userMention(message.From)))
}

// handleMute mutes a user: /mute [ID/reply] [1d/2h/30m] [reason].
// Defaults to one hour when no duration is given.
func (b *Bot) handleMute(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	tgt, rest, err := resolveTarget(message, splitArgs(message))
	if err != nil {
		b.reply(message, "ℹ️ Usage: `/mute [ID/reply] [time(1d/1h/30m)] [reason]`")
		return
	}

	now := time.Now()
	duration := defaultMuteDuration
	if len(rest) > 0 {
		if d, ok := parseDuration(rest[0]); ok {
			duration = d
			rest = rest[1:]
		}
	}
	until := now.Add(duration)
	reason := joinReason(rest)

	if err := b.mod.Restrict(ctx, message.Chat.ID, tgt.userID, until); err != nil {
		b.logger.Error("Mute failed", zap.Int64("user_id", tgt.userID), zap.Error(err))
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	rec := models.Punishment{
		UserID:    tgt.userID,
		AdminID:   message.From.ID,
		AdminName: userMention(message.From),
		Reason:    reason,
		UntilDate: models.EpochPtr(until),
		Date:      models.Epoch(now),
	}
	if err := b.store.Add(ctx, models.KindMutes, rec); err != nil {
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	b.reply(message, fmt.Sprintf(
		"🔇 *User muted*\n\n💂‍♂️ *Offender:* %s\n⏰ *Duration:* %s\n📜 *Reason:* %s\n🛡 *Moderator:* %s",
		tgt.mention, formatDuration(duration), reason, userMention(message.From)))
}

// handleWarn issues a warn: /warn [ID/reply] [reason]. The third warn in a
// cycle escalates to an automatic three-hour mute.
func (b *Bot) handleWarn(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	tgt, rest, err := resolveTarget(message, splitArgs(message))
	if err != nil {
		b.reply(message, "ℹ️ Usage: `/warn [ID/reply] [reason]`")
		return
	}
	reason := joinReason(rest)

	issuer := punish.Issuer{ID: message.From.ID, Name: userMention(message.From)}
	res, err := b.esc.IssueWarn(ctx, tgt.userID, reason, issuer, time.Now())
	if err != nil {
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	text := fmt.Sprintf(
		"⚠️ *Warning issued*\n\n💂‍♂️ *Offender:* %s\n🚨 *Warns:* %d/%d\n📜 *Reason:* %s\n🛡 *Moderator:* %s",
		tgt.mention, res.WarnCount, punish.WarnThreshold, reason, userMention(message.From))

	if res.AutoMuted {
		b.applyAutoMute(ctx, message.Chat.ID, tgt.userID, res.MuteUntil)
		text += "\n\n🔇 *Automatic 3 hour mute*\nℹ️ *Reason:* warn limit exceeded"
	}
	b.reply(message, text)
}

// applyAutoMute issues the chat restriction for an escalation decision.
// The mute record is already persisted; a failed call here is only logged.
func (b *Bot) applyAutoMute(ctx context.Context, chatID, userID int64, until time.Time) {
	if err := b.mod.Restrict(ctx, chatID, userID, until); err != nil {
		b.logger.Error("Failed to apply auto-mute",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}

// handleUnban lifts a ban: /unban [ID].
func (b *Bot) handleUnban(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	args := splitArgs(message)
	if len(args) == 0 {
		b.reply(message, "ℹ️ Usage: `/unban [ID]`")
		return
	}
	tgt, _, err := resolveTarget(message, args)
	if err != nil {
		b.reply(message, "❌ Invalid user ID")
		return
	}

	if err := b.mod.Unban(ctx, message.Chat.ID, tgt.userID); err != nil {
		b.logger.Error("Unban failed", zap.Int64("user_id", tgt.userID), zap.Error(err))
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	if err := b.store.Remove(ctx, models.KindBans, tgt.userID); err != nil {
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	b.reply(message, fmt.Sprintf(
		"♻️ *User unbanned*\n\n💂‍♂️ *User:* %s\n🛡 *Moderator:* %s",
		tgt.mention, userMention(message.From)))
}

// handleUnmute lifts a mute: /unmute [ID/reply].
func (b *Bot) handleUnmute(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	tgt, _, err := resolveTarget(message, splitArgs(message))
	if err != nil {
		b.reply(message, "ℹ️ Usage: `/unmute [ID/reply]`")
		return
	}

	if err := b.mod.Unrestrict(ctx, message.Chat.ID, tgt.userID); err != nil {
		b.logger.Error("Unmute failed", zap.Int64("user_id", tgt.userID), zap.Error(err))
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	if err := b.store.Remove(ctx, models.KindMutes, tgt.userID); err != nil {
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	b.reply(message, fmt.Sprintf(
		"🔊 *Mute lifted*\n\n💂‍♂️ *User:* %s\n🛡 *Moderator:* %s",
		tgt.mention, userMention(message.From)))
}

// handleUnwarn retracts the most recent warn: /unwarn [ID/reply].
func (b *Bot) handleUnwarn(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(ctx, message) {
		return
	}

	tgt, _, err := resolveTarget(message, splitArgs(message))
	if err != nil {
		b.reply(message, "ℹ️ Usage: `/unwarn [ID/reply]`")
		return
	}

	count, err := b.esc.RetractLastWarn(ctx, tgt.userID)
	if errors.Is(err, punish.ErrNotFound) {
		b.reply(message, "ℹ️ The user has no warnings")
		return
	}
	if err != nil {
		b.reply(message, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	b.reply(message, fmt.Sprintf(
		"🔄 *Warning retracted*\n\n💂‍♂️ *User:* %s\n🚨 *Warns left:* %d/%d\n🛡 *Moderator:* %s",
		tgt.mention, count, punish.WarnThreshold, userMention(message.From)))
}

func joinReason(args []string) string {
	if len(args) == 0 {
		return "not specified"
	}
	reason := args[0]
	for _, arg := range args[1:] {
		reason += " " + arg
	}
	return reason
}
