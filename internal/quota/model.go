package quota

import "time"

// Unlimited is the Remaining sentinel reported for premium users, whose
// messages are never counted against the daily allowance.
const Unlimited = -1

// Record is the per-device quota state persisted on the users table.
type Record struct {
	DeviceID   string    `json:"device_id"`
	IsPremium  bool      `json:"is_premium"`
	DailyCount int       `json:"daily_count"`
	ResetAt    time.Time `json:"reset_at"`
}

// LimitStatus is the outcome of a permission check.
type LimitStatus struct {
	CanProceed bool      `json:"can_proceed"`
	Remaining  int       `json:"remaining_messages"`
	IsPremium  bool      `json:"is_premium"`
	ResetAt    time.Time `json:"reset_at"`
}

// NextMidnight returns 00:00:00 UTC of the calendar day after now.
//
// The reset boundary is always computed fresh from the current instant,
// never by adding 24h to the previous boundary: wall-clock arithmetic
// drifts across DST transitions. UTC is used throughout so every
// deployment agrees on where "tomorrow" starts.
func NextMidnight(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}
