package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mirrors the SQL semantics of Repository: conditional reset,
// atomic increment, lazy row creation.
type memStore struct {
	recs    map[string]*Record
	failErr error
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]*Record)}
}

func (s *memStore) GetOrCreate(_ context.Context, deviceID string, resetAt time.Time) (*Record, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	rec, ok := s.recs[deviceID]
	if !ok {
		rec = &Record{DeviceID: deviceID, DailyCount: 0, ResetAt: resetAt}
		s.recs[deviceID] = rec
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) ResetIfDue(_ context.Context, deviceID string, now, nextReset time.Time) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	rec, ok := s.recs[deviceID]
	if !ok || rec.ResetAt.After(now) {
		return false, nil
	}
	rec.DailyCount = 0
	rec.ResetAt = nextReset
	return true, nil
}

func (s *memStore) Increment(_ context.Context, deviceID string) (*Record, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	rec, ok := s.recs[deviceID]
	if !ok {
		return nil, errors.New("no such device")
	}
	rec.DailyCount++
	cp := *rec
	return &cp, nil
}

func newTestTracker(limit int, at time.Time) (*Tracker, *memStore, *time.Time) {
	store := newMemStore()
	tr := NewTracker(store, limit)
	clock := at
	tr.now = func() time.Time { return clock }
	return tr, store, &clock
}

var noon = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCheckLimit_FreshUser(t *testing.T) {
	tr, store, _ := newTestTracker(3, noon)
	ctx := context.Background()

	status, err := tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)

	assert.True(t, status.CanProceed)
	assert.Equal(t, 3, status.Remaining)
	assert.False(t, status.IsPremium)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), status.ResetAt)

	rec := store.recs["device-1"]
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.DailyCount)
}

func TestCheckThenConsume_MonotonicDecrement(t *testing.T) {
	tr, _, _ := newTestTracker(3, noon)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		status, err := tr.CheckLimit(ctx, "device-1")
		require.NoError(t, err)
		assert.True(t, status.CanProceed, "cycle %d", i+1)
		assert.Equal(t, 3-i, status.Remaining, "cycle %d", i+1)

		// guarded action succeeds, then and only then consume
		rec, err := tr.Consume(ctx, "device-1")
		require.NoError(t, err)
		assert.Equal(t, i+1, rec.DailyCount)
	}

	status, err := tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	assert.False(t, status.CanProceed)
	assert.Equal(t, 0, status.Remaining)
}

func TestCheckLimit_PremiumBypass(t *testing.T) {
	tr, store, _ := newTestTracker(3, noon)
	ctx := context.Background()

	_, err := tr.CheckLimit(ctx, "vip")
	require.NoError(t, err)
	store.recs["vip"].IsPremium = true

	// Consume far past the limit; premium checks never look at the count.
	for i := 0; i < 10; i++ {
		_, err := tr.Consume(ctx, "vip")
		require.NoError(t, err)
	}

	status, err := tr.CheckLimit(ctx, "vip")
	require.NoError(t, err)
	assert.True(t, status.CanProceed)
	assert.Equal(t, Unlimited, status.Remaining)
	assert.True(t, status.IsPremium)
}

func TestCheckLimit_Rollover(t *testing.T) {
	tr, store, clock := newTestTracker(3, noon)
	ctx := context.Background()

	// Exhaust today's allowance.
	for i := 0; i < 3; i++ {
		_, err := tr.CheckLimit(ctx, "device-1")
		require.NoError(t, err)
		_, err = tr.Consume(ctx, "device-1")
		require.NoError(t, err)
	}
	status, err := tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	require.False(t, status.CanProceed)

	// Next morning: the stored boundary is now in the past.
	*clock = time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)

	status, err = tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	assert.True(t, status.CanProceed)
	assert.Equal(t, 3, status.Remaining)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), status.ResetAt)
	assert.Equal(t, 0, store.recs["device-1"].DailyCount)
}

func TestCheckLimit_NoChargeWithoutConsume(t *testing.T) {
	tr, _, _ := newTestTracker(3, noon)
	ctx := context.Background()

	status, err := tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	require.True(t, status.CanProceed)

	// Guarded action failed: Consume is never called. Checking again must
	// observe the same remaining allowance.
	status, err = tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 3, status.Remaining)
}

func TestCheckLimit_DoubleRolloverResetsOnce(t *testing.T) {
	tr, store, clock := newTestTracker(3, noon)
	ctx := context.Background()

	_, err := tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	_, err = tr.Consume(ctx, "device-1")
	require.NoError(t, err)

	// Cross the boundary: first check performs the rollover.
	*clock = time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	status, err := tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	require.Equal(t, 3, status.Remaining)

	// Spend one message in the new day, then check again immediately: the
	// boundary is already in the future, so the count must not be re-zeroed.
	_, err = tr.Consume(ctx, "device-1")
	require.NoError(t, err)

	status, err = tr.CheckLimit(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 2, status.Remaining)
	assert.Equal(t, 1, store.recs["device-1"].DailyCount)
}

func TestCheckLimit_FailsClosedOnStoreError(t *testing.T) {
	tr, store, _ := newTestTracker(3, noon)
	ctx := context.Background()

	store.failErr = errors.New("connection refused")

	status, err := tr.CheckLimit(ctx, "device-1")
	require.Error(t, err)
	assert.False(t, status.CanProceed)
}

func TestNextMidnight(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{
			now:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			// one tick before midnight still resolves to the next day
			now:  time.Date(2025, 3, 10, 23, 59, 59, 999999999, time.UTC),
			want: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			// exactly midnight: the boundary is tomorrow, strictly in the future
			now:  time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			// month rollover
			now:  time.Date(2025, 1, 31, 18, 30, 0, 0, time.UTC),
			want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// non-UTC input is normalized
			now:  time.Date(2025, 3, 10, 22, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			want: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		got := NextMidnight(tc.now)
		assert.Equal(t, tc.want, got, "now=%s", tc.now)
		assert.True(t, got.After(tc.now.UTC()), "boundary must be strictly in the future")
	}
}
