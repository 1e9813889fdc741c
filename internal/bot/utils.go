package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// reply sends a Markdown reply to the message.
func (b *Bot) reply(message *tgbotapi.Message, text string) {
	if b.api == nil {
		return // For testing
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply", zap.Error(err))
	}
}

// send posts a Markdown message to the chat without quoting anything.
func (b *Bot) send(chatID int64, text string) *tgbotapi.Message {
	if b.api == nil {
		return nil // For testing
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
		return nil
	}
	return &sent
}

// editMessage rewrites a previously sent message.
func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	if b.api == nil {
		return // For testing
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit message", zap.Error(err))
	}
}

// mention renders a clickable user mention in Markdown.
func mention(userID int64, name string) string {
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("[%s](tg://user?id=%d)", name, userID)
}

// userMention renders a mention for a Telegram user.
func userMention(user *tgbotapi.User) string {
	return mention(user.ID, user.FirstName)
}

// target is the user a moderation command acts on.
type target struct {
	userID  int64
	mention string
}

// resolveTarget picks the command target from a reply or a numeric id in
// args, returning the remaining args.
func resolveTarget(message *tgbotapi.Message, args []string) (target, []string, error) {
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		user := message.ReplyToMessage.From
		return target{userID: user.ID, mention: userMention(user)}, args, nil
	}
	if len(args) == 0 {
		return target{}, nil, fmt.Errorf("no target given")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return target{}, nil, fmt.Errorf("invalid user id %q", args[0])
	}
	return target{userID: userID, mention: mention(userID, "User")}, args[1:], nil
}

var durationPattern = regexp.MustCompile(`^(\d+)([dhm])$`)

// parseDuration parses the 1d/2h/30m shorthand. Returns false when the
// token is not a duration.
func parseDuration(token string) (time.Duration, bool) {
	match := durationPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	switch match[2] {
	case "d":
		return time.Duration(value) * 24 * time.Hour, true
	case "h":
		return time.Duration(value) * time.Hour, true
	default:
		return time.Duration(value) * time.Minute, true
	}
}

// formatDuration renders a duration as "1d 2h 30m"; durations under a
// minute round up to "1m".
func formatDuration(d time.Duration) string {
	total := int(d / time.Minute)
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	minutes := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "1m"
	}
	return strings.Join(parts, " ")
}

// splitArgs splits command arguments on whitespace, dropping empties.
func splitArgs(message *tgbotapi.Message) []string {
	return strings.Fields(message.CommandArguments())
}
