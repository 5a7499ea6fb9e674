package users

import (
	"context"
	"fmt"
	"time"

	"github.com/rahle-app/rahle/internal/quota"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register returns the user for a device, creating it (with a fresh progress
// row and quota state) on first sight.
func (s *Service) Register(ctx context.Context, deviceID, name string) (*User, *Progress, error) {
	user, err := s.repo.GetOrCreateByDeviceID(ctx, deviceID, name, quota.NextMidnight(s.now()))
	if err != nil {
		return nil, nil, err
	}
	progress, err := s.repo.GetProgress(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, progress, nil
}

func (s *Service) GetByDeviceID(ctx context.Context, deviceID string) (*User, error) {
	return s.repo.GetByDeviceID(ctx, deviceID)
}

// Progress returns the device's reading progress. An unknown device is
// registered on the spot, matching Register, so reads always find a row.
func (s *Service) Progress(ctx context.Context, deviceID string) (*Progress, error) {
	user, err := s.repo.GetOrCreateByDeviceID(ctx, deviceID, "", quota.NextMidnight(s.now()))
	if err != nil {
		return nil, err
	}
	return s.repo.GetProgress(ctx, user.ID)
}

// MarkVerseRead records a read verse, awards XP and levels the user up when
// the XP threshold is crossed (level = xp/100 + 1).
func (s *Service) MarkVerseRead(ctx context.Context, deviceID string, surah, ayah int) (*Progress, error) {
	user, err := s.repo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	progress, err := s.repo.RecordVerseRead(ctx, user.ID, surah, ayah, xpPerVerse)
	if err != nil {
		return nil, err
	}

	if newLevel := progress.XP/xpPerLevel + 1; newLevel > progress.Level {
		if err := s.repo.SetLevel(ctx, user.ID, newLevel); err != nil {
			return nil, fmt.Errorf("leveling up: %w", err)
		}
		progress.Level = newLevel
	}

	return progress, nil
}

// UpdateStreak applies the daily check-in: consecutive days extend the
// streak, a gap resets it to 1, a repeat check-in on the same day leaves it
// unchanged. Every check-in awards XP and refreshes the last-active date.
func (s *Service) UpdateStreak(ctx context.Context, deviceID string) (*Progress, error) {
	user, err := s.repo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	progress, err := s.repo.GetProgress(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, nil
	}

	now := s.now().UTC()
	newStreak := nextStreak(progress.Streak, progress.LastActiveDate, now)

	return s.repo.UpdateStreak(ctx, user.ID, newStreak, xpPerCheckIn, now)
}

// nextStreak computes the streak value for a check-in at now, given the
// previous streak and last active instant. Days are compared as UTC
// calendar dates.
func nextStreak(streak int, lastActive, now time.Time) int {
	today := truncateToDay(now)
	last := truncateToDay(lastActive)

	switch diffDays := int(today.Sub(last).Hours() / 24); diffDays {
	case 0:
		return streak
	case 1:
		return streak + 1
	default:
		return 1
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) UpdatePreferences(ctx context.Context, deviceID string, prefs PreferencesRequest) (*User, error) {
	return s.repo.UpdatePreferences(ctx, deviceID, prefs)
}

// Achievements derives earned achievements from progress thresholds.
func Achievements(p *Progress) []Achievement {
	achievements := []Achievement{}
	if p == nil {
		return achievements
	}

	if p.Streak >= 7 {
		achievements = append(achievements, Achievement{
			ID: "streak_7", Title: "Haftalık Okuyucu",
			Description: "7 gün üst üste okudun", Icon: "🔥", Earned: true,
		})
	}
	if p.Streak >= 30 {
		achievements = append(achievements, Achievement{
			ID: "streak_30", Title: "Aylık Okuyucu",
			Description: "30 gün üst üste okudun", Icon: "⭐", Earned: true,
		})
	}
	if p.TotalVersesRead >= 100 {
		achievements = append(achievements, Achievement{
			ID: "verses_100", Title: "Yüz Ayet",
			Description: "100 ayet okudun", Icon: "📖", Earned: true,
		})
	}
	if p.TotalVersesRead >= 1000 {
		achievements = append(achievements, Achievement{
			ID: "verses_1000", Title: "Bin Ayet",
			Description: "1000 ayet okudun", Icon: "📚", Earned: true,
		})
	}
	if p.Level >= 5 {
		achievements = append(achievements, Achievement{
			ID: "level_5", Title: "Talebe",
			Description: "Seviye 5'e ulaştın", Icon: "🎓", Earned: true,
		})
	}
	if p.Level >= 10 {
		achievements = append(achievements, Achievement{
			ID: "level_10", Title: "Hafız Adayı",
			Description: "Seviye 10'a ulaştın", Icon: "🌙", Earned: true,
		})
	}

	return achievements
}
