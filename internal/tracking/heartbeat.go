package tracking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/model"
)

// DefaultIdleThreshold is the largest gap between consecutive heartbeats
// still considered continuous presence.
const DefaultIdleThreshold = 5 * time.Minute

// HeartbeatActivityTracker folds an arbitrary-cadence stream of liveness
// pings per user into a minimal set of contiguous presence intervals.
// Gaps shorter than the idle threshold extend the open interval; longer
// gaps close it at the old last-seen marker and open a fresh one at now.
//
// Heartbeat is best-effort telemetry: bookkeeping failures are logged
// and swallowed, never surfaced to the caller.
type HeartbeatActivityTracker struct {
	logger        *slog.Logger
	clock         clock.Clock
	repo          PresenceRepository
	idleThreshold time.Duration
}

func NewHeartbeatActivityTracker(logger *slog.Logger, clock clock.Clock, repo PresenceRepository, idleThreshold time.Duration) *HeartbeatActivityTracker {
	if idleThreshold <= 0 {
		idleThreshold = DefaultIdleThreshold
	}

	return &HeartbeatActivityTracker{
		logger:        logger.With("module", "heartbeatTracker"),
		clock:         clock,
		repo:          repo,
		idleThreshold: idleThreshold,
	}
}

// Heartbeat records one liveness ping. It always returns the ping time;
// the caller acknowledges unconditionally.
func (t *HeartbeatActivityTracker) Heartbeat(ctx context.Context, user model.ID) time.Time {
	now := t.clock.Now()

	// The presence marker is independent of the interval bookkeeping
	// and is updated even when the session logic below fails.
	if err := t.repo.TouchPresence(ctx, user, now); err != nil {
		t.logger.Error("presence touch failed", "user", user, "error", err)
	}

	err := t.repo.Atomic(ctx, func(store PresenceStore) error {
		return t.track(ctx, store, user, now)
	})
	if err != nil {
		t.logger.Error("activity session bookkeeping failed", "user", user, "error", err)
	}

	return now
}

func (t *HeartbeatActivityTracker) track(ctx context.Context, store PresenceStore, user model.ID, now time.Time) error {
	active, err := store.ActiveActivitySessionByUser(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return t.open(ctx, store, user, now)
		}
		return err
	}

	gap := now.Sub(active.LastSeen)
	if gap < t.idleThreshold {
		return store.ExtendActivitySession(ctx, active.ID, now)
	}

	// The user was idle: the interval actually ended at the old marker,
	// not at now.
	minutes := int64(active.LastSeen.Sub(active.Start).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	if err := store.CloseActivitySession(ctx, active.ID, active.LastSeen, minutes); err != nil {
		return err
	}

	t.logger.Debug("split presence interval",
		"user", user,
		"closedId", active.ID,
		"idleGap", gap.String(),
	)

	return t.open(ctx, store, user, now)
}

func (t *HeartbeatActivityTracker) open(ctx context.Context, store PresenceStore, user model.ID, now time.Time) error {
	_, err := store.InsertActivitySession(ctx, InsertActivitySessionDTO{
		User:     user,
		Start:    now,
		LastSeen: now,
	})
	return err
}
