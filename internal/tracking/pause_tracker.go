package tracking

import (
	"context"
	"errors"

	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/model"
)

// PauseTracker manages the pause/resume sub-lifecycle of a work session.
// A session has zero or one active pause at any time; the session's
// accounted pause time is the sum of duration over closed pauses only.
type PauseTracker struct {
	clock clock.Clock
}

func NewPauseTracker(clock clock.Clock) *PauseTracker {
	return &PauseTracker{clock: clock}
}

// Begin opens a pause on the given session. It fails with a wrapped
// model.ErrExists if the session already has an active pause.
func (t *PauseTracker) Begin(ctx context.Context, store SessionStore, session model.ID, reason model.PauseReason) (model.Pause, error) {
	if _, err := store.ActivePauseBySession(ctx, session); err == nil {
		return model.Pause{}, model.NewError("pause", model.ErrExists)
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.Pause{}, err
	}

	now := t.clock.Now()

	id, err := store.InsertPause(ctx, InsertPauseDTO{
		Session: session,
		Start:   now,
		Reason:  reason,
	})
	if err != nil {
		return model.Pause{}, err
	}

	return model.Pause{
		ID:      id,
		Session: session,
		Start:   now,
		Reason:  reason,
		Active:  true,
	}, nil
}

// End closes the session's active pause and returns it with its duration
// set. It fails with a wrapped model.ErrNotFound if no pause is active.
func (t *PauseTracker) End(ctx context.Context, store SessionStore, session model.ID) (model.Pause, error) {
	pause, err := store.ActivePauseBySession(ctx, session)
	if err != nil {
		return model.Pause{}, err
	}

	now := t.clock.Now()
	duration := int64(now.Sub(pause.Start).Seconds())
	if duration < 0 {
		duration = 0
	}

	if err := store.ClosePause(ctx, pause.ID, ClosePauseDTO{
		End:             now,
		DurationSeconds: duration,
	}); err != nil {
		return model.Pause{}, err
	}

	pause.End = &now
	pause.DurationSeconds = &duration
	pause.Active = false

	return pause, nil
}

// ClosedSeconds sums the accounted pause time over closed pauses. An
// open pause contributes zero until it is explicitly closed.
func (t *PauseTracker) ClosedSeconds(pauses []model.Pause) int64 {
	var total int64
	for _, pause := range pauses {
		if pause.Active || pause.DurationSeconds == nil {
			continue
		}
		total += *pause.DurationSeconds
	}
	return total
}
