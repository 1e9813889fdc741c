package storage

import (
	"context"
	"time"

	"fpibot/internal/models"
)

// Punishments persists the punishment snapshot.
//
// Load must not fail when no prior snapshot exists; it returns a snapshot
// with three empty collections instead. Save replaces the whole snapshot
// atomically: a concurrent reader never observes a partial write.
type Punishments interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Stats records handled commands and answers usage queries for the
// community bot.
type Stats interface {
	// RecordCommand appends one command event to the usage log.
	RecordCommand(ctx context.Context, ev models.CommandEvent) error

	// Summary aggregates the log: total unique users, /coin requests,
	// commands seen since the start of now's day.
	Summary(ctx context.Context, now time.Time) (models.UsageSummary, error)

	// KnownUsers returns the distinct user ids ever seen in the log.
	KnownUsers(ctx context.Context) ([]int64, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
