package punish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fpibot/internal/models"
)

type fakeLifter struct {
	unbans      map[int64]int
	unrestricts map[int64]int
	failFor     map[int64]error
}

func (f *fakeLifter) Unban(ctx context.Context, chatID, userID int64) error {
	if err := f.failFor[userID]; err != nil {
		return err
	}
	if f.unbans == nil {
		f.unbans = make(map[int64]int)
	}
	f.unbans[userID]++
	return nil
}

func (f *fakeLifter) Unrestrict(ctx context.Context, chatID, userID int64) error {
	if err := f.failFor[userID]; err != nil {
		return err
	}
	if f.unrestricts == nil {
		f.unrestricts = make(map[int64]int)
	}
	f.unrestricts[userID]++
	return nil
}

func TestSweeper_LiftsExpiredMuteExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Unix(1700000000, 0)

	mute := models.Punishment{
		UserID:    3,
		Reason:    "flood",
		UntilDate: models.EpochPtr(now.Add(-time.Second)),
		Date:      models.Epoch(now.Add(-time.Hour)),
	}
	require.NoError(t, store.Add(ctx, models.KindMutes, mute))

	assert.Empty(t, store.Active(models.KindMutes, now))
	assert.Len(t, store.All(models.KindMutes), 1)

	lifter := &fakeLifter{}
	sweeper := NewSweeper(store, lifter, -100, time.Minute, zap.NewNop())
	sweeper.SweepOnce(ctx, now)

	assert.Empty(t, store.All(models.KindMutes))
	assert.Equal(t, 1, lifter.unrestricts[3])

	// A second sweep finds nothing left to lift.
	sweeper.SweepOnce(ctx, now)
	assert.Equal(t, 1, lifter.unrestricts[3])
}

func TestSweeper_FailedLiftKeepsRecordForRetry(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Unix(1700000000, 0)

	for _, userID := range []int64{1, 2} {
		ban := models.Punishment{
			UserID:    userID,
			UntilDate: models.EpochPtr(now.Add(-time.Minute)),
			Date:      models.Epoch(now.Add(-time.Hour)),
		}
		require.NoError(t, store.Add(ctx, models.KindBans, ban))
	}

	lifter := &fakeLifter{failFor: map[int64]error{1: errors.New("telegram unavailable")}}
	sweeper := NewSweeper(store, lifter, -100, time.Minute, zap.NewNop())
	sweeper.SweepOnce(ctx, now)

	// User 1's lift failed and the record stays; user 2 was cleared.
	records := store.All(models.KindBans)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].UserID)
	assert.Equal(t, 1, lifter.unbans[2])

	// Next sweep retries the failed lift.
	delete(lifter.failFor, 1)
	sweeper.SweepOnce(ctx, now)
	assert.Empty(t, store.All(models.KindBans))
	assert.Equal(t, 1, lifter.unbans[1])
}

func TestSweeper_LeavesUnexpiredAndPermanentRecords(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Unix(1700000000, 0)

	permanent := models.Punishment{UserID: 1, Date: models.Epoch(now.Add(-time.Hour))}
	timed := models.Punishment{
		UserID:    2,
		UntilDate: models.EpochPtr(now.Add(time.Hour)),
		Date:      models.Epoch(now),
	}
	require.NoError(t, store.Add(ctx, models.KindBans, permanent))
	require.NoError(t, store.Add(ctx, models.KindBans, timed))

	lifter := &fakeLifter{}
	NewSweeper(store, lifter, -100, time.Minute, zap.NewNop()).SweepOnce(ctx, now)

	assert.Len(t, store.All(models.KindBans), 2)
	assert.Empty(t, lifter.unbans)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	store, _ := newTestStore(t)
	sweeper := NewSweeper(store, &fakeLifter{}, -100, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
