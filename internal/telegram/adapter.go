// Package telegram adapts the Bot API client to the narrow moderation
// contract the rest of the code consumes.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Adapter wraps a Bot API client behind the restrict/ban/delete/is-admin
// contract. Timeouts are enforced by the HTTP client the API was built
// with; failed calls are reported, never retried here.
type Adapter struct {
	api *tgbotapi.BotAPI
}

// NewAdapter wraps an existing Bot API client.
func NewAdapter(api *tgbotapi.BotAPI) *Adapter {
	return &Adapter{api: api}
}

// unrestrictedPermissions restores the default member permissions.
func unrestrictedPermissions() *tgbotapi.ChatPermissions {
	return &tgbotapi.ChatPermissions{
		CanSendMessages:       true,
		CanSendMediaMessages:  true,
		CanSendOtherMessages:  true,
		CanAddWebPagePreviews: true,
	}
}

// mutedPermissions forbids sending anything.
func mutedPermissions() *tgbotapi.ChatPermissions {
	return &tgbotapi.ChatPermissions{}
}

// Ban removes the user from the chat. A zero until bans permanently.
func (a *Adapter) Ban(ctx context.Context, chatID, userID int64, until time.Time) error {
	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}
	if _, err := a.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to ban user %d: %w", userID, err)
	}
	return nil
}

// Unban lets a banned user rejoin.
func (a *Adapter) Unban(ctx context.Context, chatID, userID int64) error {
	cfg := tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		OnlyIfBanned:     true,
	}
	if _, err := a.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to unban user %d: %w", userID, err)
	}
	return nil
}

// Restrict mutes the user until the given time. A zero until mutes
// indefinitely.
func (a *Adapter) Restrict(ctx context.Context, chatID, userID int64, until time.Time) error {
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions:      mutedPermissions(),
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}
	if _, err := a.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to restrict user %d: %w", userID, err)
	}
	return nil
}

// Unrestrict restores the user's default permissions.
func (a *Adapter) Unrestrict(ctx context.Context, chatID, userID int64) error {
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions:      unrestrictedPermissions(),
	}
	if _, err := a.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to unrestrict user %d: %w", userID, err)
	}
	return nil
}

// DeleteMessage removes a message from the chat.
func (a *Adapter) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := a.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}
	return nil
}

// IsAdmin reports whether the user is a creator or administrator of the chat.
func (a *Adapter) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	member, err := a.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get chat member %d: %w", userID, err)
	}
	return member.IsCreator() || member.IsAdministrator(), nil
}

// Administrators returns the chat's administrators.
func (a *Adapter) Administrators(ctx context.Context, chatID int64) ([]tgbotapi.ChatMember, error) {
	admins, err := a.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat administrators: %w", err)
	}
	return admins, nil
}
