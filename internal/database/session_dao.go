package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/protomem/shift-tracker/internal/model"
	"github.com/protomem/shift-tracker/internal/tracking"
)

// SessionDAO persists work sessions and their pause/activity child rows.
// It satisfies tracking.SessionRepository. The "at most one active row
// per user/session" invariants are backed by partial unique indexes;
// inside Atomic, active-row lookups additionally take FOR UPDATE so
// concurrent callers serialize on the row before deciding.
type SessionDAO struct {
	Logger *slog.Logger

	db      *DB
	ext     sqlx.ExtContext
	locking bool
}

func NewSessionDAO(logger *slog.Logger, db *DB) *SessionDAO {
	return &SessionDAO{
		Logger: logger.With("dao", "session"),
		db:     db,
		ext:    db.DB,
	}
}

var _ tracking.SessionRepository = (*SessionDAO)(nil)

func (dao *SessionDAO) Atomic(ctx context.Context, fn func(tracking.SessionStore) error) error {
	if dao.locking {
		// Already transaction-bound; nested units join the outer one.
		return fn(dao)
	}

	tx, err := dao.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDAO := &SessionDAO{
		Logger:  dao.Logger,
		db:      dao.db,
		ext:     tx,
		locking: true,
	}

	if err := fn(txDAO); err != nil {
		return err
	}

	return tx.Commit()
}

func (dao *SessionDAO) InsertSession(ctx context.Context, dto tracking.InsertSessionDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insertSession")

	query, args, err := dao.db.Builder.
		Insert("work_sessions").
		Columns("user_id", "session_date", "checkin_at", "is_active", "notes").
		Values(dto.User, dto.Date, dto.CheckIn, true, dto.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("work session", model.ErrExists)
		}

		return 0, err
	}

	return id, nil
}

func (dao *SessionDAO) SessionByID(ctx context.Context, id model.ID) (model.WorkSession, error) {
	builder := dao.db.Builder.
		Select("*").
		From("work_sessions").
		Where(squirrel.Eq{"id": id}).
		Limit(1)
	if dao.locking {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model.WorkSession{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var session model.WorkSession
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.WorkSession{}, model.NewError("work session", model.ErrNotFound)
		}

		return model.WorkSession{}, err
	}

	return session, nil
}

func (dao *SessionDAO) ActiveSessionByUser(ctx context.Context, user model.ID) (model.WorkSession, error) {
	builder := dao.db.Builder.
		Select("*").
		From("work_sessions").
		Where(squirrel.Eq{"user_id": user, "is_active": true}).
		Limit(1)
	if dao.locking {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model.WorkSession{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var session model.WorkSession
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.WorkSession{}, model.NewError("work session", model.ErrNotFound)
		}

		return model.WorkSession{}, err
	}

	return session, nil
}

func (dao *SessionDAO) CloseSession(ctx context.Context, id model.ID, dto tracking.CloseSessionDTO) error {
	logger := dao.Logger.With("query", "closeSession")

	query, args, err := dao.db.Builder.
		Update("work_sessions").
		SetMap(map[string]any{
			"checkout_at":   dto.CheckOut,
			"total_seconds": dto.TotalSeconds,
			"net_seconds":   dto.NetSeconds,
			"is_active":     false,
			"closed_by":     dto.ClosedBy,
			"updated_at":    dto.CheckOut,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.ext.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	return nil
}

func (dao *SessionDAO) SessionsByUserBetween(ctx context.Context, user model.ID, from, to time.Time, limit, offset int) ([]model.WorkSession, error) {
	logger := dao.Logger.With("query", "sessionsByUserBetween")

	query, args, err := dao.db.Builder.
		Select("*").
		From("work_sessions").
		Where(squirrel.Eq{"user_id": user}).
		Where(squirrel.GtOrEq{"checkin_at": from}).
		Where(squirrel.LtOrEq{"checkin_at": to}).
		OrderBy("checkin_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return []model.WorkSession{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	sessions := make([]model.WorkSession, 0, limit)
	if err := sqlx.SelectContext(ctx, dao.ext, &sessions, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.WorkSession{}, err
	}

	return sessions, nil
}

func (dao *SessionDAO) ActiveSessions(ctx context.Context) ([]model.WorkSession, error) {
	query, args, err := dao.db.Builder.
		Select("*").
		From("work_sessions").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("checkin_at DESC").
		ToSql()
	if err != nil {
		return []model.WorkSession{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var sessions []model.WorkSession
	if err := sqlx.SelectContext(ctx, dao.ext, &sessions, query, args...); err != nil {
		return []model.WorkSession{}, err
	}

	return sessions, nil
}

func (dao *SessionDAO) ActiveSessionsBefore(ctx context.Context, cutoff time.Time) ([]model.WorkSession, error) {
	query, args, err := dao.db.Builder.
		Select("*").
		From("work_sessions").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Lt{"checkin_at": cutoff}).
		OrderBy("checkin_at ASC").
		ToSql()
	if err != nil {
		return []model.WorkSession{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var sessions []model.WorkSession
	if err := sqlx.SelectContext(ctx, dao.ext, &sessions, query, args...); err != nil {
		return []model.WorkSession{}, err
	}

	return sessions, nil
}

func (dao *SessionDAO) InsertPause(ctx context.Context, dto tracking.InsertPauseDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insertPause")

	query, args, err := dao.db.Builder.
		Insert("session_pauses").
		Columns("session_id", "started_at", "reason", "is_active").
		Values(dto.Session, dto.Start, dto.Reason, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("pause", model.ErrExists)
		}

		return 0, err
	}

	return id, nil
}

func (dao *SessionDAO) ActivePauseBySession(ctx context.Context, session model.ID) (model.Pause, error) {
	builder := dao.db.Builder.
		Select("*").
		From("session_pauses").
		Where(squirrel.Eq{"session_id": session, "is_active": true}).
		Limit(1)
	if dao.locking {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model.Pause{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var pause model.Pause
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&pause); err != nil {
		if IsNoRows(err) {
			return model.Pause{}, model.NewError("pause", model.ErrNotFound)
		}

		return model.Pause{}, err
	}

	return pause, nil
}

func (dao *SessionDAO) ClosePause(ctx context.Context, id model.ID, dto tracking.ClosePauseDTO) error {
	logger := dao.Logger.With("query", "closePause")

	query, args, err := dao.db.Builder.
		Update("session_pauses").
		SetMap(map[string]any{
			"ended_at":         dto.End,
			"duration_seconds": dto.DurationSeconds,
			"is_active":        false,
			"updated_at":       dto.End,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.ext.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	return nil
}

func (dao *SessionDAO) PausesBySession(ctx context.Context, session model.ID) ([]model.Pause, error) {
	query, args, err := dao.db.Builder.
		Select("*").
		From("session_pauses").
		Where(squirrel.Eq{"session_id": session}).
		OrderBy("started_at ASC").
		ToSql()
	if err != nil {
		return []model.Pause{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	pauses := make([]model.Pause, 0)
	if err := sqlx.SelectContext(ctx, dao.ext, &pauses, query, args...); err != nil {
		return []model.Pause{}, err
	}

	return pauses, nil
}

func (dao *SessionDAO) InsertActivity(ctx context.Context, dto tracking.InsertActivityDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insertActivity")

	query, args, err := dao.db.Builder.
		Insert("session_activities").
		Columns("session_id", "kind", "started_at", "project_id", "note").
		Values(dto.Session, dto.Kind, dto.Start, dto.Project, dto.Note).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	return id, nil
}

func (dao *SessionDAO) CloseOpenActivities(ctx context.Context, session model.ID, end time.Time) (int, error) {
	logger := dao.Logger.With("query", "closeOpenActivities")

	query, args, err := dao.db.Builder.
		Update("session_activities").
		SetMap(map[string]any{
			"ended_at":   end,
			"updated_at": end,
		}).
		Where(squirrel.Eq{"session_id": session, "ended_at": nil}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ext.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}
