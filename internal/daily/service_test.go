package daily

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahle-app/rahle/internal/quran"
)

type fakeVerseRepo struct {
	verses []quran.Verse
	calls  int
}

func (f *fakeVerseRepo) GetVerse(_ context.Context, surah, ayah int) (*quran.Verse, error) {
	for i := range f.verses {
		if f.verses[i].Surah == surah && f.verses[i].Ayah == ayah {
			return &f.verses[i], nil
		}
	}
	return nil, nil
}

func (f *fakeVerseRepo) ListBySurah(_ context.Context, _ int) ([]quran.Verse, error) {
	return nil, nil
}

func (f *fakeVerseRepo) Search(_ context.Context, _ string, _ int) ([]quran.Verse, error) {
	return nil, nil
}

func (f *fakeVerseRepo) CountAll(_ context.Context) (int, error) {
	f.calls++
	return len(f.verses), nil
}

func (f *fakeVerseRepo) CountBySurah(_ context.Context) (map[int]int, error) {
	return nil, nil
}

func (f *fakeVerseRepo) VerseAtOffset(_ context.Context, offset int) (*quran.Verse, error) {
	if offset < 0 || offset >= len(f.verses) {
		return nil, nil
	}
	return &f.verses[offset], nil
}

func (f *fakeVerseRepo) Sample(_ context.Context, _, _ int) ([]quran.Verse, error) {
	return nil, nil
}

func someVerses(n int) []quran.Verse {
	verses := make([]quran.Verse, n)
	for i := range verses {
		verses[i] = quran.Verse{Surah: 1, Ayah: i + 1, SurahName: "Fatiha"}
	}
	return verses
}

func newTestService(t *testing.T, repo *fakeVerseRepo, now time.Time) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := NewService(repo, cache)
	svc.now = func() time.Time { return now }
	return svc
}

func TestContentRotatesByDayOfYear(t *testing.T) {
	repo := &fakeVerseRepo{verses: someVerses(100)}
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) // day 10
	svc := newTestService(t, repo, now)

	content, err := svc.Content(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", content.Date.Gregorian)
	assert.NotEmpty(t, content.Date.Hijri)
	assert.Equal(t, 11, content.VerseOfDay.Ayah) // offset 10
	require.NotNil(t, content.Tafsir)
	assert.Equal(t, 41, content.Tafsir.Ayah) // offset 10+30
	assert.Equal(t, prayers[10%dailyPrayerCount], content.Prayer)
}

func TestContentCachedUntilNextDay(t *testing.T) {
	repo := &fakeVerseRepo{verses: someVerses(50)}
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, repo, now)

	first, err := svc.Content(context.Background())
	require.NoError(t, err)
	callsAfterFirst := repo.calls

	second, err := svc.Content(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, repo.calls, "second read must come from cache")
}

func TestContentEmptyCorpusFallsBack(t *testing.T) {
	svc := newTestService(t, &fakeVerseRepo{}, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))

	content, err := svc.Content(context.Background())
	require.NoError(t, err)

	assert.Equal(t, defaultVerse, content.VerseOfDay)
	assert.Nil(t, content.Tafsir)
}

func TestRandomVerseEmptyCorpus(t *testing.T) {
	svc := newTestService(t, &fakeVerseRepo{}, time.Now())

	verse, err := svc.RandomVerse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultVerse, *verse)
}

func TestRandomPrayerFromCuratedList(t *testing.T) {
	svc := newTestService(t, &fakeVerseRepo{}, time.Now())

	prayer := svc.RandomPrayer()
	assert.Contains(t, prayers, prayer)
}
