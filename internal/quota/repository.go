package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists per-device quota state. The users table owns the row;
// this interface only ever reads and updates the quota columns on it.
type Store interface {
	// GetOrCreate returns the device's quota record, creating the user row
	// (and its companion progress row) with a zero count and the given reset
	// boundary if it doesn't exist.
	GetOrCreate(ctx context.Context, deviceID string, resetAt time.Time) (*Record, error)

	// ResetIfDue zeroes the daily count and advances the reset boundary in a
	// single conditional update. The WHERE clause makes it idempotent: once
	// one request has advanced the boundary past "now", concurrent or
	// repeated calls match zero rows. Returns whether the reset fired.
	ResetIfDue(ctx context.Context, deviceID string, now, nextReset time.Time) (bool, error)

	// Increment adds exactly 1 to the daily count as a single atomic update
	// and returns the post-increment record. Doing the increment in the
	// database rather than read-then-write removes the lost-update race
	// between concurrent requests for the same device.
	Increment(ctx context.Context, deviceID string) (*Record, error)
}

// Repository implements Store against the users table in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new quota Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetOrCreate(ctx context.Context, deviceID string, resetAt time.Time) (*Record, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (device_id, daily_message_reset_at) VALUES ($1, $2)
		 ON CONFLICT (device_id) DO NOTHING`, deviceID, resetAt)
	if err != nil {
		return nil, fmt.Errorf("ensuring user quota row: %w", err)
	}

	// A user row is always accompanied by a progress row, no matter which
	// path created the user first.
	_, err = r.pool.Exec(ctx,
		`INSERT INTO user_progress (user_id)
		 SELECT id FROM users WHERE device_id = $1
		 ON CONFLICT (user_id) DO NOTHING`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("ensuring user progress row: %w", err)
	}

	var rec Record
	err = r.pool.QueryRow(ctx,
		`SELECT device_id, is_premium, daily_message_count, daily_message_reset_at
		 FROM users WHERE device_id = $1`, deviceID,
	).Scan(&rec.DeviceID, &rec.IsPremium, &rec.DailyCount, &rec.ResetAt)
	if err != nil {
		return nil, fmt.Errorf("fetching user quota: %w", err)
	}
	return &rec, nil
}

func (r *Repository) ResetIfDue(ctx context.Context, deviceID string, now, nextReset time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET daily_message_count = 0,
		     daily_message_reset_at = $3,
		     updated_at = NOW()
		 WHERE device_id = $1 AND daily_message_reset_at <= $2`,
		deviceID, now, nextReset)
	if err != nil {
		return false, fmt.Errorf("resetting daily quota: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Increment(ctx context.Context, deviceID string) (*Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET daily_message_count = daily_message_count + 1,
		     updated_at = NOW()
		 WHERE device_id = $1
		 RETURNING device_id, is_premium, daily_message_count, daily_message_reset_at`,
		deviceID,
	).Scan(&rec.DeviceID, &rec.IsPremium, &rec.DailyCount, &rec.ResetAt)
	if err != nil {
		return nil, fmt.Errorf("incrementing daily message count: %w", err)
	}
	return &rec, nil
}
