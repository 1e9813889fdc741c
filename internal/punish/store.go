// Package punish owns the durable ban/mute/warn records, the warn
// escalation counter and the expiry reconciliation sweep.
package punish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"fpibot/internal/models"
	"fpibot/internal/storage"
)

// ErrNotFound is returned when a removal targets records that do not exist.
var ErrNotFound = errors.New("punishment not found")

// Store is the durable punishment record set. Every mutation persists the
// whole snapshot before returning; on a failed save the in-memory state is
// rolled back so memory and disk never silently diverge.
type Store struct {
	mu      sync.Mutex
	snap    models.Snapshot
	persist storage.Punishments
	logger  *zap.Logger
}

// NewStore loads the persisted snapshot and returns a store over it.
// A missing snapshot starts the store empty.
func NewStore(ctx context.Context, persist storage.Punishments, logger *zap.Logger) (*Store, error) {
	snap, err := persist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load punishment snapshot: %w", err)
	}
	return &Store{snap: snap, persist: persist, logger: logger}, nil
}

// Add appends a record to the given collection and persists. It does not
// deduplicate: adding a second ban for the same user creates a second entry,
// checking first is the caller's job.
func (s *Store) Add(ctx context.Context, kind models.Kind, rec models.Punishment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.snap.Collection(kind)
	s.snap.SetCollection(kind, append(records, rec))

	if err := s.save(ctx); err != nil {
		s.snap.SetCollection(kind, records)
		return err
	}
	return nil
}

// Remove deletes all records of kind for the user. Removing a user with no
// records is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, kind models.Kind, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.snap.Collection(kind)
	kept := make([]models.Punishment, 0, len(records))
	for _, rec := range records {
		if rec.UserID != userID {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}

	s.snap.SetCollection(kind, kept)
	if err := s.save(ctx); err != nil {
		s.snap.SetCollection(kind, records)
		return err
	}
	return nil
}

// Active returns the records of kind that have not expired at now.
// Expired records stay in the raw store until the sweep deletes them.
func (s *Store) Active(kind models.Kind, now time.Time) []models.Punishment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []models.Punishment
	for _, rec := range s.snap.Collection(kind) {
		if !rec.Expired(now) {
			active = append(active, rec)
		}
	}
	return active
}

// All returns every record of kind, expired ones included.
func (s *Store) All(kind models.Kind) []models.Punishment {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.snap.Collection(kind)
	out := make([]models.Punishment, len(records))
	copy(out, records)
	return out
}

// WarnsFor returns the full ordered warn history for the user. Warns never
// expire; only the rolling counter has an "active" meaning.
func (s *Store) WarnsFor(userID int64) []models.Punishment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var warns []models.Punishment
	for _, rec := range s.snap.Warns {
		if rec.UserID == userID {
			warns = append(warns, rec)
		}
	}
	return warns
}

// RemoveLastWarn deletes the most recently issued warn record for the user
// and returns it. Returns ErrNotFound when the user has no warns.
func (s *Store) RemoveLastWarn(ctx context.Context, userID int64) (models.Punishment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := -1
	for i, rec := range s.snap.Warns {
		if rec.UserID == userID {
			last = i
		}
	}
	if last < 0 {
		return models.Punishment{}, ErrNotFound
	}

	removed := s.snap.Warns[last]
	records := s.snap.Warns
	kept := make([]models.Punishment, 0, len(records)-1)
	kept = append(kept, records[:last]...)
	kept = append(kept, records[last+1:]...)

	s.snap.Warns = kept
	if err := s.save(ctx); err != nil {
		s.snap.Warns = records
		return models.Punishment{}, err
	}
	return removed, nil
}

// save persists the current snapshot. Callers hold s.mu.
func (s *Store) save(ctx context.Context) error {
	if err := s.persist.Save(ctx, s.snap.Clone()); err != nil {
		s.logger.Error("Failed to persist punishment snapshot", zap.Error(err))
		return fmt.Errorf("failed to persist punishments: %w", err)
	}
	return nil
}
