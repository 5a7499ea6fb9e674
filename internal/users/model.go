package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a device-identified account. There is no password: the app runs on
// anonymous device identities, and the device ID is the stable key.
type User struct {
	ID          uuid.UUID `json:"id"`
	DeviceID    string    `json:"device_id"`
	Name        string    `json:"name,omitempty"`
	Language    string    `json:"language"`
	Mezhep      string    `json:"mezhep,omitempty"`
	Translation string    `json:"translation,omitempty"`
	IsPremium   bool      `json:"is_premium"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Progress is the per-user reading/gamification state.
type Progress struct {
	UserID          uuid.UUID `json:"user_id"`
	LastReadSurah   int       `json:"last_read_surah"`
	LastReadAyah    int       `json:"last_read_ayah"`
	Level           int       `json:"level"`
	XP              int       `json:"xp"`
	Streak          int       `json:"streak"`
	TotalVersesRead int       `json:"total_verses_read"`
	LastActiveDate  time.Time `json:"last_active_date"`
}

// Achievement is derived from Progress thresholds, never stored.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

// XP awards and leveling.
const (
	xpPerVerse   = 5
	xpPerCheckIn = 10
	xpPerLevel   = 100
)

// RegisterRequest creates or returns the user for a device.
type RegisterRequest struct {
	DeviceID string `json:"device_id" validate:"required,min=1"`
	Name     string `json:"name,omitempty"`
}

// VerseReadRequest marks a verse as read.
type VerseReadRequest struct {
	Surah int `json:"surah" validate:"required,min=1,max=114"`
	Ayah  int `json:"ayah" validate:"required,min=1"`
}

// PreferencesRequest updates user preferences; empty fields are left unchanged.
type PreferencesRequest struct {
	Language    string `json:"language,omitempty"`
	Mezhep      string `json:"mezhep,omitempty"`
	Translation string `json:"translation,omitempty"`
}
