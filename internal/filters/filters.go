// Package filters holds the content heuristics the moderation bot applies
// to ordinary chat messages.
package filters

import (
	"regexp"
	"sync"
	"time"
	"unicode"
)

// forbiddenSymbols are zalgo-style combining marks commonly used to break
// chat rendering.
var forbiddenSymbols = regexp.MustCompile(`꙰|ᡃ⃝|⃟`)

// HasForbiddenSymbols reports whether the text contains symbols that get a
// message deleted outright.
func HasForbiddenSymbols(text string) bool {
	return forbiddenSymbols.MatchString(text)
}

const (
	// capsMinLength is the shortest message the caps check applies to.
	capsMinLength = 10
	// capsRatioThreshold is the uppercase share that counts as shouting.
	capsRatioThreshold = 0.7
)

// IsExcessiveCaps reports whether the message is mostly uppercase.
// Short messages are never flagged.
func IsExcessiveCaps(text string) bool {
	runes := []rune(text)
	if len(runes) <= capsMinLength {
		return false
	}
	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper)/float64(len(runes)) > capsRatioThreshold
}

// SpamTracker counts messages per user inside a sliding window. It is
// content-triggered moderation, intentionally separate from the command
// flood gate: the gate silently rejects work, the tracker punishes.
type SpamTracker struct {
	mu      sync.Mutex
	window  time.Duration
	maxMsgs int
	stamps  map[int64][]time.Time
}

// NewSpamTracker creates a tracker flagging users who send more than
// maxMsgs messages within window.
func NewSpamTracker(window time.Duration, maxMsgs int) *SpamTracker {
	return &SpamTracker{
		window:  window,
		maxMsgs: maxMsgs,
		stamps:  make(map[int64][]time.Time),
	}
}

// Record notes one message from the user at now and reports whether the
// message pushed them over the spam threshold.
func (t *SpamTracker) Record(userID int64, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	stamps := t.stamps[userID]
	pruned := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < t.window {
			pruned = append(pruned, ts)
		}
	}
	pruned = append(pruned, now)
	t.stamps[userID] = pruned

	return len(pruned) > t.maxMsgs
}
