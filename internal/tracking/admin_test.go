package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdmin model.ID = 100

func newTestOverseer(t *testing.T, start time.Time) (*AdminOverseer, *fakeSessionRepo, *fakePresenceRepo, *clock.Fake) {
	t.Helper()

	sessions := newFakeSessionRepo()
	presence := newFakePresenceRepo()
	clk := clock.NewFake(start)
	overseer := NewAdminOverseer(testLogger(), clk, sessions, presence)

	return overseer, sessions, presence, clk
}

func TestCleanupClosesOnlyStaleSessions(t *testing.T) {
	now := time.Date(2024, time.July, 1, 22, 0, 0, 0, time.UTC)
	overseer, sessions, _, _ := newTestOverseer(t, now)
	ctx := context.Background()

	staleID, err := sessions.InsertSession(ctx, InsertSessionDTO{
		User:    1,
		CheckIn: now.Add(-13 * time.Hour),
	})
	require.NoError(t, err)

	freshID, err := sessions.InsertSession(ctx, InsertSessionDTO{
		User:    2,
		CheckIn: now.Add(-11 * time.Hour),
	})
	require.NoError(t, err)

	closed, err := overseer.Cleanup(ctx, 12*time.Hour, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	stale := sessions.sessions[staleID]
	assert.False(t, stale.Active)
	require.NotNil(t, stale.CheckOut)
	assert.True(t, stale.CheckOut.Equal(now))
	require.NotNil(t, stale.ClosedBy)
	assert.Equal(t, testAdmin, *stale.ClosedBy)

	fresh := sessions.sessions[freshID]
	assert.True(t, fresh.Active, "session under the threshold must be left untouched")
}

func TestCleanupUsesGrossDuration(t *testing.T) {
	now := time.Date(2024, time.July, 1, 22, 0, 0, 0, time.UTC)
	overseer, sessions, _, _ := newTestOverseer(t, now)
	ctx := context.Background()

	staleID, err := sessions.InsertSession(ctx, InsertSessionDTO{
		User:    1,
		CheckIn: now.Add(-14 * time.Hour),
	})
	require.NoError(t, err)

	// A stale session's pause bookkeeping is not trusted: even a
	// cleanly closed pause must not be subtracted by the sweep.
	pauseEnd := now.Add(-13 * time.Hour)
	pauseSeconds := int64(3600)
	sessions.pauses[50] = &model.Pause{
		ID:              50,
		Session:         staleID,
		Start:           now.Add(-14 * time.Hour),
		End:             &pauseEnd,
		Reason:          model.PauseReasonBreak,
		DurationSeconds: &pauseSeconds,
	}

	closed, err := overseer.Cleanup(ctx, 12*time.Hour, testAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, closed)

	stale := sessions.sessions[staleID]
	gross := int64(14 * 3600)
	require.NotNil(t, stale.TotalSeconds)
	require.NotNil(t, stale.NetSeconds)
	assert.Equal(t, gross, *stale.TotalSeconds)
	assert.Equal(t, gross, *stale.NetSeconds)
}

func TestCleanupClosesLingeringPause(t *testing.T) {
	now := time.Date(2024, time.July, 1, 22, 0, 0, 0, time.UTC)
	overseer, sessions, _, _ := newTestOverseer(t, now)
	ctx := context.Background()

	staleID, err := sessions.InsertSession(ctx, InsertSessionDTO{
		User:    1,
		CheckIn: now.Add(-13 * time.Hour),
	})
	require.NoError(t, err)

	pauseID, err := sessions.InsertPause(ctx, InsertPauseDTO{
		Session: staleID,
		Start:   now.Add(-12*time.Hour - 30*time.Minute),
		Reason:  model.PauseReasonOther,
	})
	require.NoError(t, err)

	_, err = overseer.Cleanup(ctx, 12*time.Hour, testAdmin)
	require.NoError(t, err)

	pause := sessions.pauses[pauseID]
	assert.False(t, pause.Active, "no pause may stay active on a closed session")
}

func TestForceEndMatchesCheckOutMath(t *testing.T) {
	start := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
	overseer, sessions, _, clk := newTestOverseer(t, start)
	ctx := context.Background()

	sessionID, err := sessions.InsertSession(ctx, InsertSessionDTO{
		User:    1,
		CheckIn: start,
	})
	require.NoError(t, err)

	pauseID, err := sessions.InsertPause(ctx, InsertPauseDTO{
		Session: sessionID,
		Start:   start.Add(10 * time.Second),
		Reason:  model.PauseReasonBreak,
	})
	require.NoError(t, err)

	end := start.Add(40 * time.Second)
	duration := int64(30)
	require.NoError(t, sessions.ClosePause(ctx, pauseID, ClosePauseDTO{End: end, DurationSeconds: duration}))

	clk.Set(start.Add(100 * time.Second))

	result, err := overseer.ForceEnd(ctx, sessionID, testAdmin)
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.TotalSeconds)
	assert.Equal(t, int64(70), result.NetSeconds)

	session := sessions.sessions[sessionID]
	assert.False(t, session.Active)
	require.NotNil(t, session.ClosedBy, "the acting admin must be recorded")
	assert.Equal(t, testAdmin, *session.ClosedBy)
}

func TestForceEndUnknownSessionNotFound(t *testing.T) {
	overseer, _, _, _ := newTestOverseer(t, time.Now())

	_, err := overseer.ForceEnd(context.Background(), 404, testAdmin)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestForceEndClosedSessionConflict(t *testing.T) {
	now := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
	overseer, sessions, _, clk := newTestOverseer(t, now)
	ctx := context.Background()

	sessionID, err := sessions.InsertSession(ctx, InsertSessionDTO{User: 1, CheckIn: now})
	require.NoError(t, err)

	clk.Advance(time.Minute)

	_, err = overseer.ForceEnd(ctx, sessionID, testAdmin)
	require.NoError(t, err)

	_, err = overseer.ForceEnd(ctx, sessionID, testAdmin)
	require.ErrorIs(t, err, model.ErrExists)
}

func TestListActiveComputesLiveElapsed(t *testing.T) {
	start := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
	overseer, sessions, presence, clk := newTestOverseer(t, start)
	ctx := context.Background()

	olderID, err := sessions.InsertSession(ctx, InsertSessionDTO{User: 1, CheckIn: start})
	require.NoError(t, err)

	newerID, err := sessions.InsertSession(ctx, InsertSessionDTO{User: 2, CheckIn: start.Add(30 * time.Minute)})
	require.NoError(t, err)

	_, err = presence.InsertActivitySession(ctx, InsertActivitySessionDTO{
		User:     1,
		Start:    start.Add(5 * time.Minute),
		LastSeen: start.Add(5 * time.Minute),
	})
	require.NoError(t, err)

	clk.Set(start.Add(time.Hour))

	overview, err := overseer.ListActive(ctx)
	require.NoError(t, err)

	require.Len(t, overview.WorkSessions, 2)
	require.Len(t, overview.ActivitySessions, 1)

	assert.Equal(t, newerID, overview.WorkSessions[0].ID, "newest first")
	assert.Equal(t, olderID, overview.WorkSessions[1].ID)

	assert.Equal(t, int64(1800), overview.WorkSessions[0].ElapsedSeconds)
	assert.Equal(t, int64(3600), overview.WorkSessions[1].ElapsedSeconds)
	assert.Equal(t, int64(3300), overview.ActivitySessions[0].ElapsedSeconds)
}
