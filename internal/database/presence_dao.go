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

// PresenceDAO persists the heartbeat-derived timeline: activity sessions
// plus the per-user last-seen marker. It satisfies
// tracking.PresenceRepository and is deliberately independent of
// SessionDAO; the two timelines never join.
type PresenceDAO struct {
	Logger *slog.Logger

	db      *DB
	ext     sqlx.ExtContext
	locking bool
}

func NewPresenceDAO(logger *slog.Logger, db *DB) *PresenceDAO {
	return &PresenceDAO{
		Logger: logger.With("dao", "presence"),
		db:     db,
		ext:    db.DB,
	}
}

var _ tracking.PresenceRepository = (*PresenceDAO)(nil)

func (dao *PresenceDAO) Atomic(ctx context.Context, fn func(tracking.PresenceStore) error) error {
	if dao.locking {
		return fn(dao)
	}

	tx, err := dao.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDAO := &PresenceDAO{
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

func (dao *PresenceDAO) InsertActivitySession(ctx context.Context, dto tracking.InsertActivitySessionDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insertActivitySession")

	query, args, err := dao.db.Builder.
		Insert("user_activity_sessions").
		Columns("user_id", "started_at", "last_seen_at", "is_active").
		Values(dto.User, dto.Start, dto.LastSeen, true).
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
			return 0, model.NewError("activity session", model.ErrExists)
		}

		return 0, err
	}

	return id, nil
}

func (dao *PresenceDAO) ActiveActivitySessionByUser(ctx context.Context, user model.ID) (model.ActivitySession, error) {
	builder := dao.db.Builder.
		Select("*").
		From("user_activity_sessions").
		Where(squirrel.Eq{"user_id": user, "is_active": true}).
		Limit(1)
	if dao.locking {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model.ActivitySession{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var session model.ActivitySession
	row := dao.ext.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.ActivitySession{}, model.NewError("activity session", model.ErrNotFound)
		}

		return model.ActivitySession{}, err
	}

	return session, nil
}

func (dao *PresenceDAO) ExtendActivitySession(ctx context.Context, id model.ID, lastSeen time.Time) error {
	logger := dao.Logger.With("query", "extendActivitySession")

	query, args, err := dao.db.Builder.
		Update("user_activity_sessions").
		SetMap(map[string]any{
			"last_seen_at": lastSeen,
			"updated_at":   lastSeen,
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

func (dao *PresenceDAO) CloseActivitySession(ctx context.Context, id model.ID, end time.Time, minutes int64) error {
	logger := dao.Logger.With("query", "closeActivitySession")

	query, args, err := dao.db.Builder.
		Update("user_activity_sessions").
		SetMap(map[string]any{
			"last_seen_at":     end,
			"is_active":        false,
			"duration_minutes": minutes,
			"updated_at":       end,
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

func (dao *PresenceDAO) ActiveActivitySessions(ctx context.Context) ([]model.ActivitySession, error) {
	query, args, err := dao.db.Builder.
		Select("*").
		From("user_activity_sessions").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("started_at DESC").
		ToSql()
	if err != nil {
		return []model.ActivitySession{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var sessions []model.ActivitySession
	if err := sqlx.SelectContext(ctx, dao.ext, &sessions, query, args...); err != nil {
		return []model.ActivitySession{}, err
	}

	return sessions, nil
}

func (dao *PresenceDAO) TouchPresence(ctx context.Context, user model.ID, seen time.Time) error {
	logger := dao.Logger.With("query", "touchPresence")

	query, args, err := dao.db.Builder.
		Insert("user_presence").
		Columns("user_id", "last_seen_at").
		Values(user, seen).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET last_seen_at = EXCLUDED.last_seen_at").
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
