package floodgate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_SlidingWindow(t *testing.T) {
	gate := New(3, 3*time.Second)
	base := time.Unix(1700000000, 0)

	// Three admissions at t=0, 1, 2 fill the window.
	for i := 0; i < 3; i++ {
		d := gate.Admit(1, base.Add(time.Duration(i)*time.Second))
		assert.True(t, d.Allowed, "admission %d", i)
	}

	// Fourth at t=2.5 is rejected with the wait until t=0 ages out.
	d := gate.Admit(1, base.Add(2500*time.Millisecond))
	require.False(t, d.Allowed)
	assert.Equal(t, 500*time.Millisecond, d.RetryAfter)

	// At t=3.1 the t=0 entry has aged out of the window.
	d = gate.Admit(1, base.Add(3100*time.Millisecond))
	assert.True(t, d.Allowed)
}

func TestGate_RejectedAttemptsAreNotRecorded(t *testing.T) {
	gate := New(2, 10*time.Second)
	base := time.Unix(1700000000, 0)

	assert.True(t, gate.Admit(1, base).Allowed)
	assert.True(t, gate.Admit(1, base.Add(time.Second)).Allowed)

	// Repeated rejected attempts must not push the unlock time out.
	first := gate.Admit(1, base.Add(2*time.Second))
	require.False(t, first.Allowed)
	later := gate.Admit(1, base.Add(5*time.Second))
	require.False(t, later.Allowed)
	assert.Less(t, later.RetryAfter, first.RetryAfter)
}

func TestGate_UsersAreIndependent(t *testing.T) {
	gate := New(1, time.Minute)
	base := time.Unix(1700000000, 0)

	assert.True(t, gate.Admit(1, base).Allowed)
	assert.False(t, gate.Admit(1, base.Add(time.Second)).Allowed)
	assert.True(t, gate.Admit(2, base.Add(time.Second)).Allowed)
}

func TestGate_DefaultsApplied(t *testing.T) {
	gate := New(0, 0)
	assert.Equal(t, DefaultLimit, gate.limit)
	assert.Equal(t, DefaultTimeout, gate.timeout)
}

func TestGate_EvictsLeastRecentlySeenUser(t *testing.T) {
	gate := New(3, 3*time.Second)
	base := time.Unix(1700000000, 0)

	for i := 0; i < maxTrackedUsers; i++ {
		gate.Admit(int64(i), base.Add(time.Duration(i)*time.Millisecond))
	}
	require.Equal(t, maxTrackedUsers, gate.Tracked())

	// A new user pushes out the oldest window instead of growing the map.
	gate.Admit(int64(maxTrackedUsers), base.Add(time.Hour))
	assert.Equal(t, maxTrackedUsers, gate.Tracked())
}

func BenchmarkGate_Admit(b *testing.B) {
	gate := New(3, 3*time.Second)
	base := time.Unix(1700000000, 0)
	for i := 0; i < b.N; i++ {
		gate.Admit(int64(i%100), base.Add(time.Duration(i)*time.Millisecond))
	}
}
