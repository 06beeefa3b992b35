package tracking

import (
	"context"
	"time"

	"github.com/protomem/shift-tracker/internal/model"
)

// SessionStore is the persistence surface for explicit shift tracking.
// "Active" lookups return model.ErrNotFound (wrapped) when no active row
// exists. Inside Atomic the implementation must serialize active-row
// reads per user so concurrent mutations cannot both pass the same
// precondition.
type SessionStore interface {
	InsertSession(ctx context.Context, dto InsertSessionDTO) (model.ID, error)
	SessionByID(ctx context.Context, id model.ID) (model.WorkSession, error)
	ActiveSessionByUser(ctx context.Context, user model.ID) (model.WorkSession, error)
	CloseSession(ctx context.Context, id model.ID, dto CloseSessionDTO) error
	SessionsByUserBetween(ctx context.Context, user model.ID, from, to time.Time, limit, offset int) ([]model.WorkSession, error)
	ActiveSessions(ctx context.Context) ([]model.WorkSession, error)
	ActiveSessionsBefore(ctx context.Context, cutoff time.Time) ([]model.WorkSession, error)

	InsertPause(ctx context.Context, dto InsertPauseDTO) (model.ID, error)
	ActivePauseBySession(ctx context.Context, session model.ID) (model.Pause, error)
	ClosePause(ctx context.Context, id model.ID, dto ClosePauseDTO) error
	PausesBySession(ctx context.Context, session model.ID) ([]model.Pause, error)

	InsertActivity(ctx context.Context, dto InsertActivityDTO) (model.ID, error)
	CloseOpenActivities(ctx context.Context, session model.ID, end time.Time) (int, error)
}

// SessionRepository adds the atomic unit every multi-row mutation runs
// in: either all of fn's writes commit or none do.
type SessionRepository interface {
	SessionStore
	Atomic(ctx context.Context, fn func(SessionStore) error) error
}

// PresenceStore is the persistence surface for the heartbeat-derived
// timeline. It is independent of SessionStore by design; the two
// timelines are never merged.
type PresenceStore interface {
	InsertActivitySession(ctx context.Context, dto InsertActivitySessionDTO) (model.ID, error)
	ActiveActivitySessionByUser(ctx context.Context, user model.ID) (model.ActivitySession, error)
	ExtendActivitySession(ctx context.Context, id model.ID, lastSeen time.Time) error
	CloseActivitySession(ctx context.Context, id model.ID, end time.Time, minutes int64) error
	ActiveActivitySessions(ctx context.Context) ([]model.ActivitySession, error)

	TouchPresence(ctx context.Context, user model.ID, seen time.Time) error
}

type PresenceRepository interface {
	PresenceStore
	Atomic(ctx context.Context, fn func(PresenceStore) error) error
}

type InsertSessionDTO struct {
	User    model.ID
	Date    time.Time
	CheckIn time.Time
	Notes   *string
}

type CloseSessionDTO struct {
	CheckOut     time.Time
	TotalSeconds int64
	NetSeconds   int64
	ClosedBy     *model.ID
}

type InsertPauseDTO struct {
	Session model.ID
	Start   time.Time
	Reason  model.PauseReason
}

type ClosePauseDTO struct {
	End             time.Time
	DurationSeconds int64
}

type InsertActivityDTO struct {
	Session model.ID
	Kind    model.ActivityKind
	Start   time.Time
	Project *model.ID
	Note    *string
}

type InsertActivitySessionDTO struct {
	User     model.ID
	Start    time.Time
	LastSeen time.Time
}
