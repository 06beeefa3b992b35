package tracking

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/model"

	"golang.org/x/exp/slices"
)

// WorkSessionManager owns the explicit shift lifecycle:
// check-in -> (pause/resume)* -> check-out, plus the history queries.
type WorkSessionManager struct {
	logger *slog.Logger
	clock  clock.Clock
	repo   SessionRepository
	pauses *PauseTracker
}

func NewWorkSessionManager(logger *slog.Logger, clock clock.Clock, repo SessionRepository) *WorkSessionManager {
	return &WorkSessionManager{
		logger: logger.With("module", "workSessionManager"),
		clock:  clock,
		repo:   repo,
		pauses: NewPauseTracker(clock),
	}
}

type CheckInResult struct {
	SessionID   model.ID  `json:"sessionId"`
	CheckInTime time.Time `json:"checkInTime"`
}

// CheckIn opens a new work session for the user. It fails with a wrapped
// model.ErrExists if the user already has an active session; the storage
// layer's one-active-per-user constraint backstops the precondition
// under concurrent check-ins.
func (m *WorkSessionManager) CheckIn(ctx context.Context, user model.ID, date *time.Time, notes *string) (CheckInResult, error) {
	var result CheckInResult

	err := m.repo.Atomic(ctx, func(store SessionStore) error {
		if _, err := store.ActiveSessionByUser(ctx, user); err == nil {
			return model.NewError("work session", model.ErrExists)
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		now := m.clock.Now()

		sessionDate := now
		if date != nil {
			sessionDate = *date
		}
		year, month, day := sessionDate.In(m.clock.Location()).Date()
		sessionDate = time.Date(year, month, day, 0, 0, 0, 0, m.clock.Location())

		id, err := store.InsertSession(ctx, InsertSessionDTO{
			User:    user,
			Date:    sessionDate,
			CheckIn: now,
			Notes:   notes,
		})
		if err != nil {
			return err
		}

		result = CheckInResult{SessionID: id, CheckInTime: now}
		return nil
	})
	if err != nil {
		return CheckInResult{}, err
	}

	m.logger.Debug("checked in", "user", user, "sessionId", result.SessionID)

	return result, nil
}

type CheckOutResult struct {
	SessionID    model.ID  `json:"sessionId"`
	CheckOutTime time.Time `json:"checkOutTime"`
	TotalSeconds int64     `json:"totalDuration"`
	NetSeconds   int64     `json:"netDuration"`
	TotalHours   float64   `json:"totalHours"`
}

// CheckOut closes the user's active session. Total is the wall-clock
// span since check-in; net subtracts the accounted (closed) pause time.
// A pause still open at check-out is closed at the check-out instant and
// counted, so the record stays complete and net stays honest. Open
// activity rows are closed in the same atomic unit.
func (m *WorkSessionManager) CheckOut(ctx context.Context, user model.ID) (CheckOutResult, error) {
	var result CheckOutResult

	err := m.repo.Atomic(ctx, func(store SessionStore) error {
		session, err := store.ActiveSessionByUser(ctx, user)
		if err != nil {
			return err
		}

		now := m.clock.Now()

		if _, err := store.ActivePauseBySession(ctx, session.ID); err == nil {
			if _, err := m.pauses.End(ctx, store, session.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		pauses, err := store.PausesBySession(ctx, session.ID)
		if err != nil {
			return err
		}

		total, net := sessionDurations(session.CheckIn, now, m.pauses.ClosedSeconds(pauses))

		if err := store.CloseSession(ctx, session.ID, CloseSessionDTO{
			CheckOut:     now,
			TotalSeconds: total,
			NetSeconds:   net,
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

	m.logger.Debug("checked out",
		"user", user,
		"sessionId", result.SessionID,
		"totalSeconds", result.TotalSeconds,
		"netSeconds", result.NetSeconds,
	)

	return result, nil
}

type PauseResult struct {
	PauseID    model.ID          `json:"pauseId"`
	PauseStart time.Time         `json:"pauseStart"`
	Reason     model.PauseReason `json:"reason"`
}

// Pause suspends the user's active session. It fails with a wrapped
// model.ErrExists if there is no active session or the session is
// already paused.
func (m *WorkSessionManager) Pause(ctx context.Context, user model.ID, reason model.PauseReason) (PauseResult, error) {
	var result PauseResult

	err := m.repo.Atomic(ctx, func(store SessionStore) error {
		session, err := store.ActiveSessionByUser(ctx, user)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewError("work session", model.ErrExists)
			}
			return err
		}

		pause, err := m.pauses.Begin(ctx, store, session.ID, reason)
		if err != nil {
			return err
		}

		result = PauseResult{
			PauseID:    pause.ID,
			PauseStart: pause.Start,
			Reason:     pause.Reason,
		}
		return nil
	})
	if err != nil {
		return PauseResult{}, err
	}

	m.logger.Debug("paused session", "user", user, "pauseId", result.PauseID, "reason", result.Reason)

	return result, nil
}

type ResumeResult struct {
	PauseSeconds int64     `json:"pauseDuration"`
	ResumeTime   time.Time `json:"resumeTime"`
}

// Resume closes the active pause on the user's active session. It fails
// with a wrapped model.ErrNotFound if the user is not paused.
func (m *WorkSessionManager) Resume(ctx context.Context, user model.ID) (ResumeResult, error) {
	var result ResumeResult

	err := m.repo.Atomic(ctx, func(store SessionStore) error {
		session, err := store.ActiveSessionByUser(ctx, user)
		if err != nil {
			return err
		}

		pause, err := m.pauses.End(ctx, store, session.ID)
		if err != nil {
			return err
		}

		result = ResumeResult{
			PauseSeconds: *pause.DurationSeconds,
			ResumeTime:   *pause.End,
		}
		return nil
	})
	if err != nil {
		return ResumeResult{}, err
	}

	m.logger.Debug("resumed session", "user", user, "pauseSeconds", result.PauseSeconds)

	return result, nil
}

// CurrentSession is a live view over the user's active session. Totals
// are recomputed from "now", not read back from stored columns.
type CurrentSession struct {
	Session      model.WorkSession  `json:"session"`
	TotalSeconds int64              `json:"totalDuration"`
	NetSeconds   int64              `json:"netDuration"`
	Paused       bool               `json:"isPaused"`
	PauseReason  *model.PauseReason `json:"pauseReason,omitempty"`
	PauseStart   *time.Time         `json:"pauseStart,omitempty"`
}

// Current returns the live view of the user's active session, or nil if
// the user is not checked in.
func (m *WorkSessionManager) Current(ctx context.Context, user model.ID) (*CurrentSession, error) {
	session, err := m.repo.ActiveSessionByUser(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	pauses, err := m.repo.PausesBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	total, net := sessionDurations(session.CheckIn, now, m.pauses.ClosedSeconds(pauses))

	current := &CurrentSession{
		Session:      session,
		TotalSeconds: total,
		NetSeconds:   net,
	}

	for _, pause := range pauses {
		if pause.Active {
			reason, start := pause.Reason, pause.Start
			current.Paused = true
			current.PauseReason = &reason
			current.PauseStart = &start
			break
		}
	}

	return current, nil
}

type HistoryEntry struct {
	model.WorkSession
	Pauses []model.Pause `json:"pauses"`
}

// History returns the user's sessions with check-in time in [from, to],
// newest first, each annotated with its ordered pauses.
func (m *WorkSessionManager) History(ctx context.Context, user model.ID, from, to time.Time, limit, offset int) ([]HistoryEntry, error) {
	sessions, err := m.repo.SessionsByUserBetween(ctx, user, from, to, limit, offset)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(sessions, func(a, b model.WorkSession) int {
		return b.CheckIn.Compare(a.CheckIn)
	})

	entries := make([]HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		pauses, err := m.repo.PausesBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}

		entries = append(entries, HistoryEntry{WorkSession: session, Pauses: pauses})
	}

	return entries, nil
}

type StartActivityResult struct {
	ActivityID model.ID           `json:"activityId"`
	Kind       model.ActivityKind `json:"kind"`
	StartTime  time.Time          `json:"startTime"`
}

// StartActivity opens an annotation row inside the user's active
// session. Several activities may be open at once; whatever is still
// open when the session closes is ended at the check-out instant.
func (m *WorkSessionManager) StartActivity(ctx context.Context, user model.ID, kind model.ActivityKind, project *model.ID, note *string) (StartActivityResult, error) {
	var result StartActivityResult

	err := m.repo.Atomic(ctx, func(store SessionStore) error {
		session, err := store.ActiveSessionByUser(ctx, user)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewError("work session", model.ErrExists)
			}
			return err
		}

		now := m.clock.Now()

		id, err := store.InsertActivity(ctx, InsertActivityDTO{
			Session: session.ID,
			Kind:    kind,
			Start:   now,
			Project: project,
			Note:    note,
		})
		if err != nil {
			return err
		}

		result = StartActivityResult{ActivityID: id, Kind: kind, StartTime: now}
		return nil
	})
	if err != nil {
		return StartActivityResult{}, err
	}

	return result, nil
}

// EndActivities closes every open activity on the user's active session
// and returns how many were closed.
func (m *WorkSessionManager) EndActivities(ctx context.Context, user model.ID) (int, error) {
	var closed int

	err := m.repo.Atomic(ctx, func(store SessionStore) error {
		session, err := store.ActiveSessionByUser(ctx, user)
		if err != nil {
			return err
		}

		closed, err = store.CloseOpenActivities(ctx, session.ID, m.clock.Now())
		return err
	})
	if err != nil {
		return 0, err
	}

	return closed, nil
}

// sessionDurations computes the total and net spans in whole seconds.
// Net is clamped at zero: inconsistent pause bookkeeping must never
// surface as a negative duration.
func sessionDurations(checkIn, now time.Time, pauseSeconds int64) (total, net int64) {
	total = int64(now.Sub(checkIn).Seconds())
	if total < 0 {
		total = 0
	}

	net = total - pauseSeconds
	if net < 0 {
		net = 0
	}

	return total, net
}

func hoursFromSeconds(seconds int64) float64 {
	return math.Round(float64(seconds)/3600*100) / 100
}
