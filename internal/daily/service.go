package daily

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rahle-app/rahle/internal/quota"
	"github.com/rahle-app/rahle/internal/quran"
)

// VerseOfDay is the daily verse in display form.
type VerseOfDay struct {
	Surah     int    `json:"surah"`
	Ayah      int    `json:"ayah"`
	SurahName string `json:"surah_name"`
	Arabic    string `json:"arabic"`
	Turkish   string `json:"turkish"`
}

// DailyTafsir is the daily commentary verse with a short note.
type DailyTafsir struct {
	VerseOfDay
	Commentary string `json:"commentary"`
}

// Content is the complete daily screen payload.
type Content struct {
	Date struct {
		Gregorian string `json:"gregorian"`
		Hijri     string `json:"hijri"`
	} `json:"date"`
	VerseOfDay VerseOfDay   `json:"verse_of_day"`
	Tafsir     *DailyTafsir `json:"tafsir"`
	Prayer     Prayer       `json:"prayer"`
}

const (
	dailyCacheKeyPrefix = "daily:content:"
	tafsirDayOffset     = 30
	dailyCommentary     = "Bu ayet, Allah'ın kullarına olan merhametini ve hidayetini göstermektedir."
)

// defaultVerse stands in when the verse table is empty.
var defaultVerse = VerseOfDay{
	Surah:     1,
	Ayah:      1,
	SurahName: "Fatiha",
	Arabic:    "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
	Turkish:   "Rahmân ve Rahîm olan Allah'ın adıyla.",
}

// Service assembles the rotating daily content. Selections are keyed to
// the day of year so every client sees the same verse and prayer, and
// the assembled payload is cached in Redis until the next UTC midnight.
type Service struct {
	verses quran.Repository
	cache  *redis.Client
	now    func() time.Time
}

func NewService(verses quran.Repository, cache *redis.Client) *Service {
	return &Service{
		verses: verses,
		cache:  cache,
		now:    time.Now,
	}
}

// Content returns today's verse, tafsir verse, and prayer. Cache
// failures fall through to a fresh build; the cache is an optimization,
// not a dependency.
func (s *Service) Content(ctx context.Context) (*Content, error) {
	today := s.now().UTC()
	key := dailyCacheKeyPrefix + today.Format("2006-01-02")

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached Content
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	content, err := s.build(ctx, today)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(content); err == nil {
			ttl := quota.NextMidnight(today).Sub(today)
			if err := s.cache.Set(ctx, key, payload, ttl).Err(); err != nil {
				slog.Warn("caching daily content failed", "error", err)
			}
		}
	}
	return content, nil
}

func (s *Service) build(ctx context.Context, today time.Time) (*Content, error) {
	content := &Content{}
	content.Date.Gregorian = today.Format("2006-01-02")
	content.Date.Hijri = HijriDate(today)

	day := today.YearDay()
	content.Prayer = prayers[day%dailyPrayerCount]

	total, err := s.verses.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting verses for daily rotation: %w", err)
	}
	if total == 0 {
		content.VerseOfDay = defaultVerse
		return content, nil
	}

	verse, err := s.verses.VerseAtOffset(ctx, day%total)
	if err != nil {
		return nil, err
	}
	if verse == nil {
		content.VerseOfDay = defaultVerse
		return content, nil
	}
	content.VerseOfDay = toVerseOfDay(*verse)

	// A different verse carries the daily commentary, shifted so the
	// two rotations never collide on small corpora.
	tafsirVerse, err := s.verses.VerseAtOffset(ctx, (day+tafsirDayOffset)%total)
	if err != nil {
		return nil, err
	}
	if tafsirVerse != nil {
		content.Tafsir = &DailyTafsir{
			VerseOfDay: toVerseOfDay(*tafsirVerse),
			Commentary: dailyCommentary,
		}
	}
	return content, nil
}

// RandomVerse picks a uniformly random seeded verse for sharing.
func (s *Service) RandomVerse(ctx context.Context) (*VerseOfDay, error) {
	total, err := s.verses.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting verses: %w", err)
	}
	if total == 0 {
		v := defaultVerse
		return &v, nil
	}

	verse, err := s.verses.VerseAtOffset(ctx, rand.Intn(total))
	if err != nil {
		return nil, err
	}
	if verse == nil {
		v := defaultVerse
		return &v, nil
	}
	v := toVerseOfDay(*verse)
	return &v, nil
}

// RandomPrayer picks a random prayer from the full curated list.
func (s *Service) RandomPrayer() Prayer {
	return prayers[rand.Intn(len(prayers))]
}

func toVerseOfDay(v quran.Verse) VerseOfDay {
	return VerseOfDay{
		Surah:     v.Surah,
		Ayah:      v.Ayah,
		SurahName: v.SurahName,
		Arabic:    v.TextAr,
		Turkish:   v.TextTr,
	}
}
