package tracking

import (
	"context"
	"time"

	"github.com/protomem/shift-tracker/internal/model"

	"golang.org/x/exp/slices"
)

// In-memory repository doubles. Tests drive them from a single
// goroutine, so there is no locking; Atomic only replays the callback
// since preconditions are always checked before any mutation.

type fakeSessionRepo struct {
	nextID     model.ID
	sessions   map[model.ID]*model.WorkSession
	pauses     map[model.ID]*model.Pause
	activities map[model.ID]*model.Activity

	atomicErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:   make(map[model.ID]*model.WorkSession),
		pauses:     make(map[model.ID]*model.Pause),
		activities: make(map[model.ID]*model.Activity),
	}
}

func (r *fakeSessionRepo) Atomic(ctx context.Context, fn func(SessionStore) error) error {
	if r.atomicErr != nil {
		return r.atomicErr
	}
	return fn(r)
}

func (r *fakeSessionRepo) nextSequence() model.ID {
	r.nextID++
	return r.nextID
}

func (r *fakeSessionRepo) InsertSession(ctx context.Context, dto InsertSessionDTO) (model.ID, error) {
	for _, session := range r.sessions {
		if session.User == dto.User && session.Active {
			return 0, model.NewError("work session", model.ErrExists)
		}
	}

	id := r.nextSequence()
	r.sessions[id] = &model.WorkSession{
		ID:      id,
		User:    dto.User,
		Date:    dto.Date,
		CheckIn: dto.CheckIn,
		Notes:   dto.Notes,
		Active:  true,
	}
	return id, nil
}

func (r *fakeSessionRepo) SessionByID(ctx context.Context, id model.ID) (model.WorkSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return model.WorkSession{}, model.NewError("work session", model.ErrNotFound)
	}
	return *session, nil
}

func (r *fakeSessionRepo) ActiveSessionByUser(ctx context.Context, user model.ID) (model.WorkSession, error) {
	for _, session := range r.sessions {
		if session.User == user && session.Active {
			return *session, nil
		}
	}
	return model.WorkSession{}, model.NewError("work session", model.ErrNotFound)
}

func (r *fakeSessionRepo) CloseSession(ctx context.Context, id model.ID, dto CloseSessionDTO) error {
	session, ok := r.sessions[id]
	if !ok {
		return model.NewError("work session", model.ErrNotFound)
	}

	checkOut := dto.CheckOut
	total, net := dto.TotalSeconds, dto.NetSeconds

	session.CheckOut = &checkOut
	session.TotalSeconds = &total
	session.NetSeconds = &net
	session.Active = false
	session.ClosedBy = dto.ClosedBy
	return nil
}

func (r *fakeSessionRepo) SessionsByUserBetween(ctx context.Context, user model.ID, from, to time.Time, limit, offset int) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	for _, session := range r.sessions {
		if session.User != user {
			continue
		}
		if session.CheckIn.Before(from) || session.CheckIn.After(to) {
			continue
		}
		sessions = append(sessions, *session)
	}

	slices.SortFunc(sessions, func(a, b model.WorkSession) int {
		return b.CheckIn.Compare(a.CheckIn)
	})

	if offset >= len(sessions) {
		return []model.WorkSession{}, nil
	}
	sessions = sessions[offset:]
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (r *fakeSessionRepo) ActiveSessions(ctx context.Context) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	for _, session := range r.sessions {
		if session.Active {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

func (r *fakeSessionRepo) ActiveSessionsBefore(ctx context.Context, cutoff time.Time) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	for _, session := range r.sessions {
		if session.Active && session.CheckIn.Before(cutoff) {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

func (r *fakeSessionRepo) InsertPause(ctx context.Context, dto InsertPauseDTO) (model.ID, error) {
	for _, pause := range r.pauses {
		if pause.Session == dto.Session && pause.Active {
			return 0, model.NewError("pause", model.ErrExists)
		}
	}

	id := r.nextSequence()
	r.pauses[id] = &model.Pause{
		ID:      id,
		Session: dto.Session,
		Start:   dto.Start,
		Reason:  dto.Reason,
		Active:  true,
	}
	return id, nil
}

func (r *fakeSessionRepo) ActivePauseBySession(ctx context.Context, session model.ID) (model.Pause, error) {
	for _, pause := range r.pauses {
		if pause.Session == session && pause.Active {
			return *pause, nil
		}
	}
	return model.Pause{}, model.NewError("pause", model.ErrNotFound)
}

func (r *fakeSessionRepo) ClosePause(ctx context.Context, id model.ID, dto ClosePauseDTO) error {
	pause, ok := r.pauses[id]
	if !ok {
		return model.NewError("pause", model.ErrNotFound)
	}

	end := dto.End
	duration := dto.DurationSeconds

	pause.End = &end
	pause.DurationSeconds = &duration
	pause.Active = false
	return nil
}

func (r *fakeSessionRepo) PausesBySession(ctx context.Context, session model.ID) ([]model.Pause, error) {
	var pauses []model.Pause
	for _, pause := range r.pauses {
		if pause.Session == session {
			pauses = append(pauses, *pause)
		}
	}

	slices.SortFunc(pauses, func(a, b model.Pause) int {
		return a.Start.Compare(b.Start)
	})
	return pauses, nil
}

func (r *fakeSessionRepo) InsertActivity(ctx context.Context, dto InsertActivityDTO) (model.ID, error) {
	id := r.nextSequence()
	r.activities[id] = &model.Activity{
		ID:      id,
		Session: dto.Session,
		Kind:    dto.Kind,
		Start:   dto.Start,
		Project: dto.Project,
		Note:    dto.Note,
	}
	return id, nil
}

func (r *fakeSessionRepo) CloseOpenActivities(ctx context.Context, session model.ID, end time.Time) (int, error) {
	var closed int
	for _, activity := range r.activities {
		if activity.Session == session && activity.End == nil {
			endCopy := end
			activity.End = &endCopy
			closed++
		}
	}
	return closed, nil
}

type fakePresenceRepo struct {
	nextID   model.ID
	sessions map[model.ID]*model.ActivitySession
	presence map[model.ID]time.Time

	atomicErr error
	touchErr  error
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{
		sessions: make(map[model.ID]*model.ActivitySession),
		presence: make(map[model.ID]time.Time),
	}
}

func (r *fakePresenceRepo) Atomic(ctx context.Context, fn func(PresenceStore) error) error {
	if r.atomicErr != nil {
		return r.atomicErr
	}
	return fn(r)
}

func (r *fakePresenceRepo) InsertActivitySession(ctx context.Context, dto InsertActivitySessionDTO) (model.ID, error) {
	for _, session := range r.sessions {
		if session.User == dto.User && session.Active {
			return 0, model.NewError("activity session", model.ErrExists)
		}
	}

	r.nextID++
	id := r.nextID
	r.sessions[id] = &model.ActivitySession{
		ID:       id,
		User:     dto.User,
		Start:    dto.Start,
		LastSeen: dto.LastSeen,
		Active:   true,
	}
	return id, nil
}

func (r *fakePresenceRepo) ActiveActivitySessionByUser(ctx context.Context, user model.ID) (model.ActivitySession, error) {
	for _, session := range r.sessions {
		if session.User == user && session.Active {
			return *session, nil
		}
	}
	return model.ActivitySession{}, model.NewError("activity session", model.ErrNotFound)
}

func (r *fakePresenceRepo) ExtendActivitySession(ctx context.Context, id model.ID, lastSeen time.Time) error {
	session, ok := r.sessions[id]
	if !ok {
		return model.NewError("activity session", model.ErrNotFound)
	}
	session.LastSeen = lastSeen
	return nil
}

func (r *fakePresenceRepo) CloseActivitySession(ctx context.Context, id model.ID, end time.Time, minutes int64) error {
	session, ok := r.sessions[id]
	if !ok {
		return model.NewError("activity session", model.ErrNotFound)
	}
	session.LastSeen = end
	session.Active = false
	session.DurationMinutes = &minutes
	return nil
}

func (r *fakePresenceRepo) ActiveActivitySessions(ctx context.Context) ([]model.ActivitySession, error) {
	var sessions []model.ActivitySession
	for _, session := range r.sessions {
		if session.Active {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

func (r *fakePresenceRepo) TouchPresence(ctx context.Context, user model.ID, seen time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.presence[user] = seen
	return nil
}
