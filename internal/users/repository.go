package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetOrCreateByDeviceID(ctx context.Context, deviceID, name string, quotaResetAt time.Time) (*User, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*User, error)
	UpdatePreferences(ctx context.Context, deviceID string, prefs PreferencesRequest) (*User, error)
	GetProgress(ctx context.Context, userID uuid.UUID) (*Progress, error)
	RecordVerseRead(ctx context.Context, userID uuid.UUID, surah, ayah, xpGain int) (*Progress, error)
	SetLevel(ctx context.Context, userID uuid.UUID, level int) error
	UpdateStreak(ctx context.Context, userID uuid.UUID, streak, xpGain int, activeAt time.Time) (*Progress, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, device_id, COALESCE(name, ''), language, COALESCE(mezhep, ''),
	COALESCE(translation, ''), is_premium, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.DeviceID, &u.Name, &u.Language, &u.Mezhep,
		&u.Translation, &u.IsPremium, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *postgresRepository) GetOrCreateByDeviceID(ctx context.Context, deviceID, name string, quotaResetAt time.Time) (*User, error) {
	var nameArg any
	if name != "" {
		nameArg = name
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, device_id, name, daily_message_reset_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (device_id) DO NOTHING`,
		uuid.New(), deviceID, nameArg, quotaResetAt)
	if err != nil {
		return nil, fmt.Errorf("ensuring user: %w", err)
	}

	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE device_id = $1`, deviceID))
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	// Progress row is created alongside the user so that reads never have
	// to special-case its absence.
	_, err = r.pool.Exec(ctx,
		`INSERT INTO user_progress (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("ensuring user progress: %w", err)
	}

	return user, nil
}

func (r *postgresRepository) GetByDeviceID(ctx context.Context, deviceID string) (*User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE device_id = $1`, deviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user by device id: %w", err)
	}
	return user, nil
}

func (r *postgresRepository) UpdatePreferences(ctx context.Context, deviceID string, prefs PreferencesRequest) (*User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET language = COALESCE(NULLIF($2, ''), language),
		     mezhep = COALESCE(NULLIF($3, ''), mezhep),
		     translation = COALESCE(NULLIF($4, ''), translation),
		     updated_at = NOW()
		 WHERE device_id = $1
		 RETURNING `+userColumns,
		deviceID, prefs.Language, prefs.Mezhep, prefs.Translation))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("updating preferences: %w", err)
	}
	return user, nil
}

const progressColumns = `user_id, last_read_surah, last_read_ayah, level, xp, streak,
	total_verses_read, last_active_date`

func scanProgress(row pgx.Row) (*Progress, error) {
	p := &Progress{}
	err := row.Scan(&p.UserID, &p.LastReadSurah, &p.LastReadAyah, &p.Level,
		&p.XP, &p.Streak, &p.TotalVersesRead, &p.LastActiveDate)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepository) GetProgress(ctx context.Context, userID uuid.UUID) (*Progress, error) {
	p, err := scanProgress(r.pool.QueryRow(ctx,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying progress: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) RecordVerseRead(ctx context.Context, userID uuid.UUID, surah, ayah, xpGain int) (*Progress, error) {
	p, err := scanProgress(r.pool.QueryRow(ctx,
		`UPDATE user_progress
		 SET last_read_surah = $2,
		     last_read_ayah = $3,
		     total_verses_read = total_verses_read + 1,
		     xp = xp + $4
		 WHERE user_id = $1
		 RETURNING `+progressColumns,
		userID, surah, ayah, xpGain))
	if err != nil {
		return nil, fmt.Errorf("recording verse read: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) SetLevel(ctx context.Context, userID uuid.UUID, level int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_progress SET level = $2 WHERE user_id = $1`, userID, level)
	if err != nil {
		return fmt.Errorf("setting level: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateStreak(ctx context.Context, userID uuid.UUID, streak, xpGain int, activeAt time.Time) (*Progress, error) {
	p, err := scanProgress(r.pool.QueryRow(ctx,
		`UPDATE user_progress
		 SET streak = $2,
		     xp = xp + $3,
		     last_active_date = $4
		 WHERE user_id = $1
		 RETURNING `+progressColumns,
		userID, streak, xpGain, activeAt))
	if err != nil {
		return nil, fmt.Errorf("updating streak: %w", err)
	}
	return p, nil
}
