package quota

import (
	"context"
	"fmt"
	"time"
)

// Tracker decides whether a device may send another quota-gated message
// today, and records consumption after the message has been answered.
//
// Call ordering is the caller's contract: CheckLimit, then the guarded
// action, then Consume only if the action succeeded. A failed or timed-out
// answer is never charged. Tracker does not re-validate the grant inside
// Consume.
type Tracker struct {
	store Store
	limit int
	now   func() time.Time
}

// NewTracker creates a Tracker enforcing the given daily message limit.
func NewTracker(store Store, limit int) *Tracker {
	return &Tracker{
		store: store,
		limit: limit,
		now:   time.Now,
	}
}

// Limit returns the configured daily allowance.
func (t *Tracker) Limit() int {
	return t.limit
}

// CheckLimit reports whether the device may send a message right now.
// It never consumes allowance: aside from the rollover transition, which
// is idempotent, checking is free to repeat.
//
// Store errors are surfaced and must be treated as "cannot proceed" by the
// caller — failing open here would let the limit be bypassed whenever the
// database is down.
func (t *Tracker) CheckLimit(ctx context.Context, deviceID string) (LimitStatus, error) {
	now := t.now().UTC()

	rec, err := t.store.GetOrCreate(ctx, deviceID, NextMidnight(now))
	if err != nil {
		return LimitStatus{}, fmt.Errorf("loading quota record: %w", err)
	}

	if rec.IsPremium {
		return LimitStatus{
			CanProceed: true,
			Remaining:  Unlimited,
			IsPremium:  true,
			ResetAt:    rec.ResetAt,
		}, nil
	}

	// Rollover before evaluating: a boundary in the past means the count
	// belongs to a previous day.
	if !now.Before(rec.ResetAt) {
		if _, err := t.store.ResetIfDue(ctx, deviceID, now, NextMidnight(now)); err != nil {
			return LimitStatus{}, fmt.Errorf("rolling over daily quota: %w", err)
		}
		rec, err = t.store.GetOrCreate(ctx, deviceID, NextMidnight(now))
		if err != nil {
			return LimitStatus{}, fmt.Errorf("reloading quota record: %w", err)
		}
	}

	remaining := t.limit - rec.DailyCount
	if remaining < 0 {
		remaining = 0
	}

	return LimitStatus{
		CanProceed: remaining > 0,
		Remaining:  remaining,
		IsPremium:  false,
		ResetAt:    rec.ResetAt,
	}, nil
}

// Consume charges one message against the device's daily allowance and
// returns the post-increment record. It must be called exactly once per
// successfully answered message, after the answer has been produced.
//
// Consume never performs rollover; that is CheckLimit's job. A failed
// increment is returned as an error, not retried — a silent retry could
// double-charge.
func (t *Tracker) Consume(ctx context.Context, deviceID string) (*Record, error) {
	rec, err := t.store.Increment(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("consuming daily allowance: %w", err)
	}
	return rec, nil
}
