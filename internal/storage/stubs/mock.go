// Package stubs provides in-memory storage implementations for testing.
package stubs

import (
	"context"
	"errors"
	"sync"
	"time"

	"fpibot/internal/models"
)

// ErrSaveFailed is returned by MockPunishments when a failure is injected.
var ErrSaveFailed = errors.New("simulated save failure")

// MockPunishments keeps the snapshot in memory and can simulate save
// failures for persistence-rollback tests.
type MockPunishments struct {
	mu       sync.Mutex
	snap     models.Snapshot
	saves    int
	failNext bool
}

// NewMockPunishments creates an empty in-memory snapshot store.
func NewMockPunishments() *MockPunishments {
	return &MockPunishments{snap: models.EmptySnapshot()}
}

// FailNextSave makes the next Save call return ErrSaveFailed without
// touching the stored snapshot.
func (m *MockPunishments) FailNextSave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// SaveCount returns how many successful saves happened.
func (m *MockPunishments) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Load returns a copy of the stored snapshot.
func (m *MockPunishments) Load(ctx context.Context) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

// Save replaces the stored snapshot, or fails if a failure was injected.
func (m *MockPunishments) Save(ctx context.Context, snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return ErrSaveFailed
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

// MockStats is an in-memory command log.
type MockStats struct {
	mu     sync.Mutex
	events []models.CommandEvent
}

// NewMockStats creates an empty in-memory stats store.
func NewMockStats() *MockStats {
	return &MockStats{}
}

func (m *MockStats) Initialize(ctx context.Context) error { return nil }

func (m *MockStats) Close() error { return nil }

// RecordCommand appends one event.
func (m *MockStats) RecordCommand(ctx context.Context, ev models.CommandEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Summary aggregates the in-memory log.
func (m *MockStats) Summary(ctx context.Context, now time.Time) (models.UsageSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make(map[int64]struct{})
	var summary models.UsageSummary
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, ev := range m.events {
		users[ev.UserID] = struct{}{}
		if ev.Command == "/coin" {
			summary.CoinRequests++
		}
		if !ev.At.Before(dayStart) {
			summary.CommandsToday++
		}
	}
	summary.TotalUsers = len(users)
	return summary, nil
}

// KnownUsers returns distinct user ids in first-seen order.
func (m *MockStats) KnownUsers(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int64]struct{})
	var users []int64
	for _, ev := range m.events {
		if _, ok := seen[ev.UserID]; ok {
			continue
		}
		seen[ev.UserID] = struct{}{}
		users = append(users, ev.UserID)
	}
	return users, nil
}
