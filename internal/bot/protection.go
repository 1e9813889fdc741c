package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fpibot/internal/filters"
	"fpibot/internal/models"
	"fpibot/internal/punish"
)

// Synthetic issuers for automated detections.
var (
	capsIssuer = punish.Issuer{Name: "caps filter"}
	spamIssuer = punish.Issuer{Name: "antispam system"}
)

// checkMessage runs the protection pipeline over an ordinary chat message:
// forbidden symbols, caps, then the antispam tracker. Detector failures go
// to the log only; ordinary traffic is never blocked on them.
func (b *Bot) checkMessage(ctx context.Context, message *tgbotapi.Message) {
	text := message.Text
	if text == "" {
		return
	}
	userID := message.From.ID
	now := time.Now()

	if filters.HasForbiddenSymbols(text) {
		b.deleteViolatingMessage(ctx, message)
		b.send(message.Chat.ID, fmt.Sprintf(
			"🚨 *Forbidden symbols detected* 🚨\n\n💂‍♂️ *Offender:* %s\n❌ *Action:* message deleted",
			userMention(message.From)))
		return
	}

	if b.cfg.AntiCaps && filters.IsExcessiveCaps(text) {
		b.deleteViolatingMessage(ctx, message)
		res, err := b.esc.IssueWarn(ctx, userID, "excessive caps", capsIssuer, now)
		if err != nil {
			b.logger.Error("Failed to issue caps warn", zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		text := fmt.Sprintf(
			"🚨 *Caps detected* 🚨\n\n💂‍♂️ *Offender:* %s\n📜 *Action:* warn + message deleted\n🚨 *Warns:* %d/%d",
			userMention(message.From), res.WarnCount, punish.WarnThreshold)
		if res.AutoMuted {
			b.applyAutoMute(ctx, message.Chat.ID, userID, res.MuteUntil)
			text += "\n\n🔇 *Automatic 3 hour mute*"
		}
		b.send(message.Chat.ID, text)
		return
	}

	if b.cfg.AntiSpam && b.spam.Record(userID, now) {
		b.deleteViolatingMessage(ctx, message)

		res, err := b.esc.IssueWarn(ctx, userID, "message flood", spamIssuer, now)
		if err != nil {
			b.logger.Error("Failed to issue spam warn", zap.Int64("user_id", userID), zap.Error(err))
			return
		}

		// Direct timed mute on top of the warn, separate from the
		// three-strike escalation.
		until := now.Add(b.cfg.SpamMuteFor)
		if err := b.mod.Restrict(ctx, message.Chat.ID, userID, until); err != nil {
			b.logger.Error("Failed to apply antispam mute", zap.Int64("user_id", userID), zap.Error(err))
		} else {
			rec := models.Punishment{
				UserID:    userID,
				AdminName: spamIssuer.Name,
				Reason:    "message flood",
				UntilDate: models.EpochPtr(until),
				Date:      models.Epoch(now),
			}
			if err := b.store.Add(ctx, models.KindMutes, rec); err != nil {
				b.logger.Error("Failed to record antispam mute", zap.Int64("user_id", userID), zap.Error(err))
			}
		}

		text := fmt.Sprintf(
			"🚨 *Spam detected* 🚨\n\n💂‍♂️ *Offender:* %s\n📜 *Action:* warn + %s mute\n🚨 *Warns:* %d/%d",
			userMention(message.From), formatDuration(b.cfg.SpamMuteFor), res.WarnCount, punish.WarnThreshold)
		if res.AutoMuted {
			b.applyAutoMute(ctx, message.Chat.ID, userID, res.MuteUntil)
			text += "\n\n🔇 *Automatic 3 hour mute*"
		}
		b.send(message.Chat.ID, text)
	}
}

// deleteViolatingMessage removes a flagged message, logging failures.
func (b *Bot) deleteViolatingMessage(ctx context.Context, message *tgbotapi.Message) {
	if err := b.mod.DeleteMessage(ctx, message.Chat.ID, message.MessageID); err != nil {
		b.logger.Error("Failed to delete message",
			zap.Int("message_id", message.MessageID), zap.Error(err))
	}
}
