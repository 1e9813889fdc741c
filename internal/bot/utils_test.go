package bot

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		token string
		want  time.Duration
		ok    bool
	}{
		{"1d", 24 * time.Hour, true},
		{"2h", 2 * time.Hour, true},
		{"30m", 30 * time.Minute, true},
		{"10", 0, false},
		{"h", 0, false},
		{"1w", 0, false},
		{"", 0, false},
		{"spam", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			d, ok := parseDuration(tc.token)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{26*time.Hour + 30*time.Minute, "1d 2h 30m"},
		{3 * time.Hour, "3h"},
		{45 * time.Minute, "45m"},
		{20 * time.Second, "1m"},
		{0, "1m"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, formatDuration(tc.d))
		})
	}
}

func TestResolveTarget(t *testing.T) {
	t.Run("from reply", func(t *testing.T) {
		msg := &tgbotapi.Message{
			ReplyToMessage: &tgbotapi.Message{
				From: &tgbotapi.User{ID: 42, FirstName: "Spammer"},
			},
		}
		tgt, rest, err := resolveTarget(msg, []string{"1d", "spam"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), tgt.userID)
		assert.Contains(t, tgt.mention, "tg://user?id=42")
		assert.Equal(t, []string{"1d", "spam"}, rest)
	})

	t.Run("from id argument", func(t *testing.T) {
		tgt, rest, err := resolveTarget(&tgbotapi.Message{}, []string{"42", "spam"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), tgt.userID)
		assert.Equal(t, []string{"spam"}, rest)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, _, err := resolveTarget(&tgbotapi.Message{}, []string{"abc"})
		assert.Error(t, err)
	})

	t.Run("no target", func(t *testing.T) {
		_, _, err := resolveTarget(&tgbotapi.Message{}, nil)
		assert.Error(t, err)
	})
}

func TestMention(t *testing.T) {
	assert.Equal(t, "[Alice](tg://user?id=7)", mention(7, "Alice"))
	assert.Equal(t, "[User](tg://user?id=7)", mention(7, ""))
}

func TestJoinReason(t *testing.T) {
	assert.Equal(t, "not specified", joinReason(nil))
	assert.Equal(t, "spamming links", joinReason([]string{"spamming", "links"}))
}
