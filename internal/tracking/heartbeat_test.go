package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, start time.Time) (*HeartbeatActivityTracker, *fakePresenceRepo, *clock.Fake) {
	t.Helper()

	repo := newFakePresenceRepo()
	clk := clock.NewFake(start)
	tracker := NewHeartbeatActivityTracker(testLogger(), clk, repo, DefaultIdleThreshold)

	return tracker, repo, clk
}

func activeSession(t *testing.T, repo *fakePresenceRepo, user model.ID) model.ActivitySession {
	t.Helper()

	session, err := repo.ActiveActivitySessionByUser(context.Background(), user)
	require.NoError(t, err)
	return session
}

func TestHeartbeatOpensSession(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)

	seen := tracker.Heartbeat(context.Background(), testUser)
	assert.True(t, seen.Equal(clk.Now()))

	session := activeSession(t, repo, testUser)
	assert.True(t, session.Start.Equal(start))
	assert.True(t, session.LastSeen.Equal(start))
}

func TestHeartbeatsWithinThresholdExtendOneSession(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	tracker.Heartbeat(ctx, testUser)
	clk.Advance(60 * time.Second)
	tracker.Heartbeat(ctx, testUser)
	clk.Advance(60 * time.Second)
	tracker.Heartbeat(ctx, testUser)

	require.Len(t, repo.sessions, 1, "gaps under the idle threshold must not split")

	session := activeSession(t, repo, testUser)
	assert.True(t, session.Start.Equal(start))
	assert.True(t, session.LastSeen.Equal(start.Add(120*time.Second)))
}

func TestHeartbeatSplitsOnIdleGap(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	tracker.Heartbeat(ctx, testUser)
	clk.Advance(400 * time.Second)
	tracker.Heartbeat(ctx, testUser)

	require.Len(t, repo.sessions, 2)

	// The idle interval ended at the old marker, not at now.
	closed := repo.sessions[1]
	assert.False(t, closed.Active)
	assert.True(t, closed.LastSeen.Equal(start))
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, int64(0), *closed.DurationMinutes)

	fresh := activeSession(t, repo, testUser)
	assert.True(t, fresh.Start.Equal(start.Add(400*time.Second)))
}

func TestHeartbeatSplitDurationFloorsToMinutes(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	tracker.Heartbeat(ctx, testUser)
	clk.Advance(170 * time.Second)
	tracker.Heartbeat(ctx, testUser)
	clk.Advance(10 * time.Minute)
	tracker.Heartbeat(ctx, testUser)

	closed := repo.sessions[1]
	assert.False(t, closed.Active)
	assert.True(t, closed.LastSeen.Equal(start.Add(170*time.Second)))
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, int64(2), *closed.DurationMinutes)
}

func TestHeartbeatGapExactlyAtThresholdSplits(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	tracker.Heartbeat(ctx, testUser)
	clk.Advance(DefaultIdleThreshold)
	tracker.Heartbeat(ctx, testUser)

	assert.Len(t, repo.sessions, 2)
}

func TestHeartbeatAlwaysTouchesPresence(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	tracker.Heartbeat(ctx, testUser)
	clk.Advance(30 * time.Second)
	tracker.Heartbeat(ctx, testUser)

	seen, ok := repo.presence[testUser]
	require.True(t, ok)
	assert.True(t, seen.Equal(clk.Now()))
}

func TestHeartbeatSwallowsBookkeepingFailures(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	repo.atomicErr = errors.New("storage hiccup")

	require.NotPanics(t, func() {
		seen := tracker.Heartbeat(ctx, testUser)
		assert.True(t, seen.Equal(clk.Now()))
	})

	// Presence display still updated even though bookkeeping failed.
	seen, ok := repo.presence[testUser]
	require.True(t, ok)
	assert.True(t, seen.Equal(start))

	assert.Empty(t, repo.sessions)
}

func TestHeartbeatTimelinesArePerUser(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	tracker, repo, clk := newTestTracker(t, start)
	ctx := context.Background()

	const otherUser model.ID = 8

	tracker.Heartbeat(ctx, testUser)
	clk.Advance(time.Minute)
	tracker.Heartbeat(ctx, otherUser)

	require.Len(t, repo.sessions, 2)

	mine := activeSession(t, repo, testUser)
	theirs := activeSession(t, repo, otherUser)
	assert.True(t, mine.Start.Equal(start))
	assert.True(t, theirs.Start.Equal(start.Add(time.Minute)))
}
