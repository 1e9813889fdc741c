package punish

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fpibot/internal/models"
)

// Lifter undoes chat restrictions for expired punishments.
type Lifter interface {
	Unban(ctx context.Context, chatID, userID int64) error
	Unrestrict(ctx context.Context, chatID, userID int64) error
}

// Sweeper periodically lifts expired bans and mutes and prunes their
// records. Each lift attempt is independent: a failed Telegram call keeps
// the record so the next sweep retries it.
type Sweeper struct {
	store    *Store
	lifter   Lifter
	chatID   int64
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a sweeper over store that lifts restrictions in chatID.
func NewSweeper(store *Store, lifter Lifter, chatID int64, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		lifter:   lifter,
		chatID:   chatID,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.SweepOnce(ctx, time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweep stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx, time.Now())
		}
	}
}

// SweepOnce lifts every expired ban and mute found at now.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) {
	if s.chatID == 0 {
		// Without a scope chat there is nowhere to lift restrictions.
		s.logger.Error("Sweep skipped: no chat id configured")
		return
	}

	for _, ban := range s.store.All(models.KindBans) {
		if !ban.Expired(now) {
			continue
		}
		if err := s.lifter.Unban(ctx, s.chatID, ban.UserID); err != nil {
			s.logger.Error("Failed to unban user",
				zap.Int64("user_id", ban.UserID), zap.Error(err))
			continue
		}
		if err := s.store.Remove(ctx, models.KindBans, ban.UserID); err != nil {
			s.logger.Error("Failed to prune expired ban",
				zap.Int64("user_id", ban.UserID), zap.Error(err))
		}
	}

	for _, mute := range s.store.All(models.KindMutes) {
		if !mute.Expired(now) {
			continue
		}
		if err := s.lifter.Unrestrict(ctx, s.chatID, mute.UserID); err != nil {
			s.logger.Error("Failed to unmute user",
				zap.Int64("user_id", mute.UserID), zap.Error(err))
			continue
		}
		if err := s.store.Remove(ctx, models.KindMutes, mute.UserID); err != nil {
			s.logger.Error("Failed to prune expired mute",
				zap.Int64("user_id", mute.UserID), zap.Error(err))
		}
	}
}
