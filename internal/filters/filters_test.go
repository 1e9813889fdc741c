package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasForbiddenSymbols(t *testing.T) {
	assert.True(t, HasForbiddenSymbols("hello ꙰ world"))
	assert.True(t, HasForbiddenSymbols("x⃟"))
	assert.False(t, HasForbiddenSymbols("ordinary message"))
	assert.False(t, HasForbiddenSymbols(""))
}

func TestIsExcessiveCaps(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want bool
	}{
		{"short shouting is tolerated", "STOP IT", false},
		{"long shouting is flagged", "STOP SPAMMING THIS CHAT RIGHT NOW", true},
		{"normal sentence", "this is a perfectly calm sentence", false},
		{"mixed case under threshold", "This Is A Title Cased Sentence Here", false},
		{"cyrillic caps", "ПРЕКРАТИТЕ ПИСАТЬ КАПСОМ СЕЙЧАС ЖЕ", true},
		{"exactly ten runes", "AAAAABBBBB", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsExcessiveCaps(tc.text))
		})
	}
}

func TestSpamTracker_FlagsBurstsOverThreshold(t *testing.T) {
	tracker := NewSpamTracker(10*time.Second, 3)
	base := time.Unix(1700000000, 0)

	for i := 0; i < 3; i++ {
		assert.False(t, tracker.Record(1, base.Add(time.Duration(i)*time.Second)))
	}
	assert.True(t, tracker.Record(1, base.Add(3*time.Second)))
}

func TestSpamTracker_WindowSlides(t *testing.T) {
	tracker := NewSpamTracker(5*time.Second, 2)
	base := time.Unix(1700000000, 0)

	assert.False(t, tracker.Record(1, base))
	assert.False(t, tracker.Record(1, base.Add(time.Second)))

	// Old messages age out, so a later message is under the threshold again.
	assert.False(t, tracker.Record(1, base.Add(7*time.Second)))
}

func TestSpamTracker_UsersAreIndependent(t *testing.T) {
	tracker := NewSpamTracker(10*time.Second, 1)
	base := time.Unix(1700000000, 0)

	assert.False(t, tracker.Record(1, base))
	assert.True(t, tracker.Record(1, base.Add(time.Second)))
	assert.False(t, tracker.Record(2, base.Add(time.Second)))
}
