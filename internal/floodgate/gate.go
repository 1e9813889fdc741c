// Package floodgate implements per-user sliding-window admission control
// for command processing.
package floodgate

import (
	"sync"
	"time"
)

// DefaultLimit and DefaultTimeout match the throttle the bots ship with:
// at most 3 commands per 3 seconds per user.
const (
	DefaultLimit   = 3
	DefaultTimeout = 3 * time.Second

	// maxTrackedUsers bounds the window map; the least recently seen
	// user is evicted when it fills up.
	maxTrackedUsers = 10000
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is how long the user has to wait when rejected.
	RetryAfter time.Duration
}

// Gate admits at most limit requests per user within a sliding timeout
// window. Rejected attempts are not recorded, so hammering the gate does
// not extend the lockout.
type Gate struct {
	mu       sync.Mutex
	limit    int
	timeout  time.Duration
	windows  map[int64][]time.Time
	lastSeen map[int64]time.Time
}

// New creates a gate. Non-positive arguments fall back to the defaults.
func New(limit int, timeout time.Duration) *Gate {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gate{
		limit:    limit,
		timeout:  timeout,
		windows:  make(map[int64][]time.Time),
		lastSeen: make(map[int64]time.Time),
	}
}

// Admit decides whether the user's request at now may proceed. The window
// is pruned on every check, so it slides continuously.
func (g *Gate) Admit(userID int64, now time.Time) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	window := g.windows[userID]
	pruned := window[:0]
	for _, t := range window {
		if now.Sub(t) < g.timeout {
			pruned = append(pruned, t)
		}
	}

	if len(pruned) >= g.limit {
		g.windows[userID] = pruned
		g.lastSeen[userID] = now
		return Decision{RetryAfter: g.timeout - now.Sub(pruned[0])}
	}

	if _, tracked := g.windows[userID]; !tracked && len(g.windows) >= maxTrackedUsers {
		g.evictOldest()
	}
	g.windows[userID] = append(pruned, now)
	g.lastSeen[userID] = now
	return Decision{Allowed: true}
}

// evictOldest drops the least recently seen user. Callers hold g.mu.
func (g *Gate) evictOldest() {
	var (
		oldestID int64
		oldestAt time.Time
		found    bool
	)
	for id, at := range g.lastSeen {
		if !found || at.Before(oldestAt) {
			oldestID, oldestAt, found = id, at, true
		}
	}
	if found {
		delete(g.windows, oldestID)
		delete(g.lastSeen, oldestID)
	}
}

// Tracked returns how many users currently have a window.
func (g *Gate) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.windows)
}
