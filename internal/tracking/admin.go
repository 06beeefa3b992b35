package tracking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/model"

	"golang.org/x/exp/slices"
)

// AdminOverseer provides the privileged operational views and corrective
// actions layered over the same storage the session manager mutates.
type AdminOverseer struct {
	logger   *slog.Logger
	clock    clock.Clock
	sessions SessionRepository
	presence PresenceRepository
	pauses   *PauseTracker
}

func NewAdminOverseer(logger *slog.Logger, clock clock.Clock, sessions SessionRepository, presence PresenceRepository) *AdminOverseer {
	return &AdminOverseer{
		logger:   logger.With("module", "adminOverseer"),
		clock:    clock,
		sessions: sessions,
		presence: presence,
		pauses:   NewPauseTracker(clock),
	}
}

type ActiveWorkSession struct {
	model.WorkSession
	ElapsedSeconds int64 `json:"elapsedSeconds"`
}

type ActiveActivitySession struct {
	model.ActivitySession
	ElapsedSeconds int64 `json:"elapsedSeconds"`
}

type ActiveOverview struct {
	WorkSessions     []ActiveWorkSession     `json:"workSessions"`
	ActivitySessions []ActiveActivitySession `json:"activitySessions"`
}

// ListActive enumerates every active work session and activity session
// across all users, with elapsed durations recomputed from now.
func (o *AdminOverseer) ListActive(ctx context.Context) (ActiveOverview, error) {
	now := o.clock.Now()

	workSessions, err := o.sessions.ActiveSessions(ctx)
	if err != nil {
		return ActiveOverview{}, err
	}

	activitySessions, err := o.presence.ActiveActivitySessions(ctx)
	if err != nil {
		return ActiveOverview{}, err
	}

	overview := ActiveOverview{
		WorkSessions:     make([]ActiveWorkSession, 0, len(workSessions)),
		ActivitySessions: make([]ActiveActivitySession, 0, len(activitySessions)),
	}

	for _, session := range workSessions {
		elapsed := int64(now.Sub(session.CheckIn).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		overview.WorkSessions = append(overview.WorkSessions, ActiveWorkSession{
			WorkSession:    session,
			ElapsedSeconds: elapsed,
		})
	}

	for _, session := range activitySessions {
		elapsed := int64(now.Sub(session.Start).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		overview.ActivitySessions = append(overview.ActivitySessions, ActiveActivitySession{
			ActivitySession: session,
			ElapsedSeconds:  elapsed,
		})
	}

	slices.SortFunc(overview.WorkSessions, func(a, b ActiveWorkSession) int {
		return b.CheckIn.Compare(a.CheckIn)
	})
	slices.SortFunc(overview.ActivitySessions, func(a, b ActiveActivitySession) int {
		return b.Start.Compare(a.Start)
	})

	return overview, nil
}

// ForceEnd closes a specific work session on behalf of its owner, using
// the same duration math as a normal check-out. The acting admin is
// recorded on the row so the record distinguishes who closed it.
func (o *AdminOverseer) ForceEnd(ctx context.Context, sessionID, actingAdmin model.ID) (CheckOutResult, error) {
	var result CheckOutResult

	err := o.sessions.Atomic(ctx, func(store SessionStore) error {
		session, err := store.SessionByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.Active {
			return model.NewError("work session", model.ErrExists)
		}

		now := o.clock.Now()

		if _, err := store.ActivePauseBySession(ctx, session.ID); err == nil {
			if _, err := o.pauses.End(ctx, store, session.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		pauses, err := store.PausesBySession(ctx, session.ID)
		if err != nil {
			return err
		}

		total, net := sessionDurations(session.CheckIn, now, o.pauses.ClosedSeconds(pauses))

		admin := actingAdmin
		if err := store.CloseSession(ctx, session.ID, CloseSessionDTO{
			CheckOut:     now,
			TotalSeconds: total,
			NetSeconds:   net,
			ClosedBy:     &admin,
		}); err != nil {
			return err
		}

		if _, err := store.CloseOpenActivities(ctx, session.ID, now); err != nil {
			return err
		}

		result = CheckOutResult{
			SessionID:    session.ID,
			CheckOutTime: now,
			TotalSeconds: total,
			NetSeconds:   net,
			TotalHours:   hoursFromSeconds(net),
		}
		return nil
	})
	if err != nil {
		return CheckOutResult{}, err
	}

	o.logger.Info("force ended session",
		"sessionId", result.SessionID,
		"admin", actingAdmin,
		"totalSeconds", result.TotalSeconds,
	)

	return result, nil
}

// DefaultCleanupThreshold is how long a session may stay active before
// the orphan sweep considers it abandoned.
const DefaultCleanupThreshold = 12 * time.Hour

// Cleanup closes every work session still active whose check-in is older
// than the threshold. Stale sessions get gross duration only (total =
// net = now - check-in): once a session has been abandoned this long its
// pause bookkeeping is no longer trusted, so the sweep deliberately does
// not subtract pause time the way check-out does. Open pauses and
// activities are still closed so no child row outlives its session's
// active state.
func (o *AdminOverseer) Cleanup(ctx context.Context, threshold time.Duration, actingAdmin model.ID) (int, error) {
	if threshold <= 0 {
		threshold = DefaultCleanupThreshold
	}

	now := o.clock.Now()
	cutoff := now.Add(-threshold)

	stale, err := o.sessions.ActiveSessionsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var closed int
	for _, session := range stale {
		session := session

		err := o.sessions.Atomic(ctx, func(store SessionStore) error {
			if _, err := store.ActivePauseBySession(ctx, session.ID); err == nil {
				if _, err := o.pauses.End(ctx, store, session.ID); err != nil {
					return err
				}
			} else if !errors.Is(err, model.ErrNotFound) {
				return err
			}

			gross := int64(now.Sub(session.CheckIn).Seconds())
			if gross < 0 {
				gross = 0
			}

			admin := actingAdmin
			if err := store.CloseSession(ctx, session.ID, CloseSessionDTO{
				CheckOut:     now,
				TotalSeconds: gross,
				NetSeconds:   gross,
				ClosedBy:     &admin,
			}); err != nil {
				return err
			}

			_, err := store.CloseOpenActivities(ctx, session.ID, now)
			return err
		})
		if err != nil {
			o.logger.Error("orphan cleanup failed for session", "sessionId", session.ID, "error", err)
			continue
		}

		closed++
	}

	o.logger.Info("orphan cleanup finished",
		"threshold", threshold.String(),
		"candidates", len(stale),
		"closed", closed,
	)

	return closed, nil
}
