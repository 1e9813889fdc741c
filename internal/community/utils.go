package community

import (
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
func (b *Bot) send(chatID int64, text string) {
	if b.api == nil {
		return // For testing
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

// sendWithMarkup posts a Markdown message with an inline keyboard attached.
func (b *Bot) sendWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if b.api == nil {
		return // For testing
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

// editWithMarkup rewrites a previously sent message, keeping a keyboard.
func (b *Bot) editWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if b.api == nil {
		return // For testing
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit message", zap.Error(err))
	}
}
