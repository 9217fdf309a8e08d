package settings

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcore/eyeclinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Get(ctx context.Context, userID int64) (*Settings, error) {
	var s Settings
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, language, theme, notifications_enabled, reminder_minutes,
			timezone, date_format, time_format
		FROM user_settings WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Language, &s.Theme, &s.NotificationsEnabled,
			&s.ReminderMinutes, &s.Timezone, &s.DateFormat, &s.TimeFormat)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert seeds defaults on first save, then lets provided fields win over
// stored values via COALESCE.
func (r *repoPG) Upsert(ctx context.Context, userID int64, p *Patch) error {
	d := Defaults(userID)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO user_settings (user_id, language, theme, notifications_enabled, reminder_minutes, timezone, date_format, time_format)
		VALUES ($1,
			COALESCE($2, $9), COALESCE($3, $10), COALESCE($4, $11), COALESCE($5, $12),
			COALESCE($6, $13), COALESCE($7, $14), COALESCE($8, $15))
		ON CONFLICT (user_id) DO UPDATE SET
			language = COALESCE($2, user_settings.language),
			theme = COALESCE($3, user_settings.theme),
			notifications_enabled = COALESCE($4, user_settings.notifications_enabled),
			reminder_minutes = COALESCE($5, user_settings.reminder_minutes),
			timezone = COALESCE($6, user_settings.timezone),
			date_format = COALESCE($7, user_settings.date_format),
			time_format = COALESCE($8, user_settings.time_format),
			updated_at = NOW()`,
		userID,
		p.Language, p.Theme, p.NotificationsEnabled, p.ReminderMinutes,
		p.Timezone, p.DateFormat, p.TimeFormat,
		d.Language, d.Theme, d.NotificationsEnabled, d.ReminderMinutes,
		d.Timezone, d.DateFormat, d.TimeFormat)
	return err
}
