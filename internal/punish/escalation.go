package punish

import (
	"context"
	"sync"
	"time"

	"fpibot/internal/models"
)

const (
	// WarnThreshold is the number of warns that trigger an automatic mute.
	WarnThreshold = 3

	// AutoMuteDuration is the length of the automatic mute.
	AutoMuteDuration = 3 * time.Hour

	// AutoMuteAdminName labels auto-mutes issued by the escalation rule.
	AutoMuteAdminName = "warn system"

	// AutoMuteReason is the reason recorded on auto-mutes.
	AutoMuteReason = "warn threshold exceeded (3/3)"
)

// Issuer identifies who hands out a punishment.
type Issuer struct {
	ID   int64
	Name string
}

// WarnResult reports what a warn issuance did.
type WarnResult struct {
	// WarnCount is the counter value after this warn, before any
	// escalation reset.
	WarnCount int
	// AutoMuted is true when this warn reached the threshold.
	AutoMuted bool
	// MuteUntil is set when AutoMuted is true.
	MuteUntil time.Time
}

// Escalator issues warns and applies the three-strike auto-mute rule.
//
// The rolling per-user counter is separate from the persisted warn log: it
// resets on escalation and decrements on retraction while the log keeps
// full history, so the two can drift apart. The counter, not the log
// length, decides escalation.
type Escalator struct {
	mu     sync.Mutex
	store  *Store
	counts map[int64]int
}

// NewEscalator creates an escalation engine over the store. Counters start
// at zero and live until process exit or an explicit reset.
func NewEscalator(store *Store) *Escalator {
	return &Escalator{store: store, counts: make(map[int64]int)}
}

// WarnCount returns the user's current rolling counter value.
func (e *Escalator) WarnCount(userID int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[userID]
}

// IssueWarn records a warn for the user and escalates to an automatic
// timed mute when the rolling counter reaches the threshold. The caller is
// responsible for applying the chat restriction when AutoMuted is set.
func (e *Escalator) IssueWarn(ctx context.Context, userID int64, reason string, issuer Issuer, now time.Time) (WarnResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := e.counts[userID] + 1
	warn := models.Punishment{
		UserID:    userID,
		AdminID:   issuer.ID,
		AdminName: issuer.Name,
		Reason:    reason,
		Date:      models.Epoch(now),
		WarnNum:   count,
	}
	if err := e.store.Add(ctx, models.KindWarns, warn); err != nil {
		return WarnResult{}, err
	}
	e.counts[userID] = count

	if count < WarnThreshold {
		return WarnResult{WarnCount: count}, nil
	}

	until := now.Add(AutoMuteDuration)
	mute := models.Punishment{
		UserID:    userID,
		AdminID:   issuer.ID,
		AdminName: AutoMuteAdminName,
		Reason:    AutoMuteReason,
		UntilDate: models.EpochPtr(until),
		Date:      models.Epoch(now),
	}
	if err := e.store.Add(ctx, models.KindMutes, mute); err != nil {
		// The warn itself stuck; report the count and let the caller
		// surface the failed mute.
		return WarnResult{WarnCount: count}, err
	}
	e.counts[userID] = 0

	return WarnResult{WarnCount: count, AutoMuted: true, MuteUntil: until}, nil
}

// RetractLastWarn removes the user's most recent warn record and decrements
// the rolling counter, floored at zero. Returns ErrNotFound when the user
// has no warn records at all.
func (e *Escalator) RetractLastWarn(ctx context.Context, userID int64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.RemoveLastWarn(ctx, userID); err != nil {
		return e.counts[userID], err
	}
	if e.counts[userID] > 0 {
		e.counts[userID]--
	}
	return e.counts[userID], nil
}

// ResetCounter clears the user's rolling counter (explicit admin action).
func (e *Escalator) ResetCounter(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.counts, userID)
}
