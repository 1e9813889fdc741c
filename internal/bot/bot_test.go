package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fpibot/internal/config"
	"fpibot/internal/filters"
	"fpibot/internal/floodgate"
	"fpibot/internal/models"
	"fpibot/internal/punish"
	"fpibot/internal/storage/stubs"
)

// Note: the Telegram API client stays nil in tests; send helpers are
// no-ops and assertions target the punishment state and the fake moderator.

type fakeModerator struct {
	admin        bool
	bans         []int64
	unbans       []int64
	restricts    []int64
	unrestricts  []int64
	deleted      []int
	failBan      error
	failRestrict error
}

func (f *fakeModerator) Ban(ctx context.Context, chatID, userID int64, until time.Time) error {
	if f.failBan != nil {
		return f.failBan
	}
	f.bans = append(f.bans, userID)
	return nil
}

func (f *fakeModerator) Unban(ctx context.Context, chatID, userID int64) error {
	f.unbans = append(f.unbans, userID)
	return nil
}

func (f *fakeModerator) Restrict(ctx context.Context, chatID, userID int64, until time.Time) error {
	if f.failRestrict != nil {
		return f.failRestrict
	}
	f.restricts = append(f.restricts, userID)
	return nil
}

func (f *fakeModerator) Unrestrict(ctx context.Context, chatID, userID int64) error {
	f.unrestricts = append(f.unrestricts, userID)
	return nil
}

func (f *fakeModerator) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeModerator) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	return f.admin, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ChatID:          -100,
		FloodLimit:      3,
		FloodTimeout:    3 * time.Second,
		AntiCaps:        true,
		AntiSpam:        true,
		SpamWindow:      10 * time.Second,
		SpamMaxMessages: 3,
		SpamMuteFor:     30 * time.Minute,
	}
}

func newTestBot(t *testing.T, mod *fakeModerator) (*Bot, *punish.Store) {
	t.Helper()
	store, err := punish.NewStore(context.Background(), stubs.NewMockPunishments(), zap.NewNop())
	require.NoError(t, err)

	cfg := testConfig()
	return &Bot{
		api:    nil, // Not needed for internal logic tests
		mod:    mod,
		store:  store,
		esc:    punish.NewEscalator(store),
		gate:   floodgate.New(cfg.FloodLimit, cfg.FloodTimeout),
		spam:   filters.NewSpamTracker(cfg.SpamWindow, cfg.SpamMaxMessages),
		cfg:    cfg,
		logger: zap.NewNop(),
	}, store
}

func commandMessage(userID int64, text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		MessageID: 100,
		From:      &tgbotapi.User{ID: userID, FirstName: "Admin"},
		Chat:      &tgbotapi.Chat{ID: -100},
		Text:      text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(cmd)},
		},
	}
}

func plainMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 200,
		From:      &tgbotapi.User{ID: userID, FirstName: "Member"},
		Chat:      &tgbotapi.Chat{ID: -100},
		Text:      text,
	}
}

func TestBot_BanCommandPersistsAfterTransportSuccess(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	bot.handleMessage(commandMessage(10, "/ban 42 2h spamming links"))

	require.Equal(t, []int64{42}, mod.bans)
	bans := store.All(models.KindBans)
	require.Len(t, bans, 1)
	assert.Equal(t, int64(42), bans[0].UserID)
	assert.Equal(t, "spamming links", bans[0].Reason)
	assert.Equal(t, int64(10), bans[0].AdminID)
	_, hasExpiry := bans[0].Until()
	assert.True(t, hasExpiry)
}

func TestBot_BanWithoutDurationIsPermanent(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	bot.handleMessage(commandMessage(10, "/ban 42 being awful"))

	bans := store.All(models.KindBans)
	require.Len(t, bans, 1)
	assert.Equal(t, "being awful", bans[0].Reason)
	assert.Nil(t, bans[0].UntilDate)
}

func TestBot_FailedTransportDoesNotPersistBan(t *testing.T) {
	mod := &fakeModerator{admin: true, failBan: errors.New("telegram down")}
	bot, store := newTestBot(t, mod)

	bot.handleMessage(commandMessage(10, "/ban 42 1d spam"))

	assert.Empty(t, store.All(models.KindBans))
}

func TestBot_NonAdminCannotModerate(t *testing.T) {
	mod := &fakeModerator{admin: false}
	bot, store := newTestBot(t, mod)

	bot.handleMessage(commandMessage(10, "/ban 42 spam"))
	bot.handleMessage(commandMessage(10, "/warn 42 spam"))

	assert.Empty(t, mod.bans)
	assert.Empty(t, store.All(models.KindBans))
	assert.Empty(t, store.WarnsFor(42))
}

func TestBot_MuteDefaultsToOneHour(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	before := time.Now()
	bot.handleMessage(commandMessage(10, "/mute 42 flooding"))

	require.Equal(t, []int64{42}, mod.restricts)
	mutes := store.All(models.KindMutes)
	require.Len(t, mutes, 1)
	until, ok := mutes[0].Until()
	require.True(t, ok)
	assert.WithinDuration(t, before.Add(time.Hour), until, 5*time.Second)
}

func TestBot_ThirdWarnCommandAutoMutes(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	// Space the commands across distinct flood windows.
	for i := 0; i < 3; i++ {
		msg := commandMessage(10, "/warn 42 rule violation")
		bot.handleCommand(context.Background(), msg)
	}

	assert.Len(t, store.WarnsFor(42), 3)
	mutes := store.All(models.KindMutes)
	require.Len(t, mutes, 1)
	assert.Equal(t, punish.AutoMuteAdminName, mutes[0].AdminName)
	assert.Equal(t, []int64{42}, mod.restricts)
}

func TestBot_UnwarnWithoutWarnsReportsNotFound(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	bot.handleCommand(context.Background(), commandMessage(10, "/unwarn 42"))

	assert.Empty(t, store.WarnsFor(42))
}

func TestBot_UnbanRemovesAllBanRecords(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, models.KindBans, models.Punishment{UserID: 42, Date: 1}))
	require.NoError(t, store.Add(ctx, models.KindBans, models.Punishment{UserID: 42, Date: 2}))

	bot.handleCommand(ctx, commandMessage(10, "/unban 42"))

	assert.Equal(t, []int64{42}, mod.unbans)
	assert.Empty(t, store.All(models.KindBans))
}

func TestBot_FloodGateRejectsBurstCommands(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	// Four back-to-back commands: the gate admits three, rejects the rest.
	for i := 0; i < 4; i++ {
		bot.handleMessage(commandMessage(10, "/warn 42 spam"))
	}

	assert.Len(t, store.WarnsFor(42), 3)
}

func TestBot_MessagesOutsideScopeAreIgnored(t *testing.T) {
	mod := &fakeModerator{admin: true}
	bot, store := newTestBot(t, mod)

	msg := commandMessage(10, "/ban 42 spam")
	msg.Chat = &tgbotapi.Chat{ID: -999}
	bot.handleMessage(msg)

	assert.Empty(t, mod.bans)
	assert.Empty(t, store.All(models.KindBans))
}
