//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestRegisterAndProgress(t *testing.T) {
	env := SetupTestEnv(t)
	device := "user-device-1"

	resp := DoRequest(t, env, "POST", "/api/v1/user/register",
		map[string]string{"device_id": device, "name": "Ayşe"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: status %d", resp.StatusCode)
	}
	data := ParseResponse(t, resp)["data"].(map[string]any)
	user := data["user"].(map[string]any)
	if user["device_id"] != device {
		t.Errorf("device_id = %v", user["device_id"])
	}
	if user["is_premium"] != false {
		t.Errorf("new user is premium")
	}
	progress := data["progress"].(map[string]any)
	if progress["level"].(float64) != 1 {
		t.Errorf("level = %v, want 1", progress["level"])
	}

	// Registering again returns the same user.
	resp = DoRequest(t, env, "POST", "/api/v1/user/register",
		map[string]string{"device_id": device}, "")
	again := ParseResponse(t, resp)["data"].(map[string]any)["user"].(map[string]any)
	if again["id"] != user["id"] {
		t.Errorf("re-register created a new user: %v vs %v", again["id"], user["id"])
	}
}

func TestVerseReadAwardsXP(t *testing.T) {
	env := SetupTestEnv(t)
	device := "user-device-2"

	DoRequest(t, env, "POST", "/api/v1/user/register", map[string]string{"device_id": device}, "").Body.Close()

	resp := DoRequest(t, env, "POST", "/api/v1/user/progress/verse-read",
		map[string]int{"surah": 1, "ayah": 1}, device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verse-read: status %d", resp.StatusCode)
	}
	progress := ParseResponse(t, resp)["data"].(map[string]any)
	if progress["xp"].(float64) != 5 {
		t.Errorf("xp = %v, want 5", progress["xp"])
	}
	if progress["total_verses_read"].(float64) != 1 {
		t.Errorf("total_verses_read = %v, want 1", progress["total_verses_read"])
	}
}

func TestStreakCheckIn(t *testing.T) {
	env := SetupTestEnv(t)
	device := "user-device-3"

	DoRequest(t, env, "POST", "/api/v1/user/register", map[string]string{"device_id": device}, "").Body.Close()

	resp := DoRequest(t, env, "POST", "/api/v1/user/progress/update-streak", nil, device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update-streak: status %d", resp.StatusCode)
	}
	progress := ParseResponse(t, resp)["data"].(map[string]any)
	if progress["streak"].(float64) != 1 {
		t.Errorf("first check-in streak = %v, want 1", progress["streak"])
	}

	// Second check-in on the same day leaves the streak alone.
	resp = DoRequest(t, env, "POST", "/api/v1/user/progress/update-streak", nil, device)
	progress = ParseResponse(t, resp)["data"].(map[string]any)
	if progress["streak"].(float64) != 1 {
		t.Errorf("same-day streak = %v, want 1", progress["streak"])
	}
}

func TestProgressAfterChatFirstContact(t *testing.T) {
	env := SetupTestEnv(t)
	device := "user-device-5"

	// First contact is a chat message, not registration: the quota path
	// creates the user and its progress row.
	resp := DoRequest(t, env, "POST", "/api/v1/chat", map[string]string{"message": "Sabır nedir?"}, device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = DoRequest(t, env, "POST", "/api/v1/user/progress/verse-read",
		map[string]int{"surah": 1, "ayah": 1}, device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verse-read after chat-first contact: status %d", resp.StatusCode)
	}
	progress := ParseResponse(t, resp)["data"].(map[string]any)
	if progress["xp"].(float64) != 5 {
		t.Errorf("xp = %v, want 5", progress["xp"])
	}

	resp = DoRequest(t, env, "POST", "/api/v1/user/progress/update-streak", nil, device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update-streak after chat-first contact: status %d", resp.StatusCode)
	}
	progress = ParseResponse(t, resp)["data"].(map[string]any)
	if progress["streak"].(float64) != 1 {
		t.Errorf("streak = %v, want 1", progress["streak"])
	}
}

func TestGetProgressUnknownDevice(t *testing.T) {
	env := SetupTestEnv(t)

	resp := DoRequest(t, env, "GET", "/api/v1/user/progress", nil, "user-device-6")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress: status %d", resp.StatusCode)
	}
	progress := ParseResponse(t, resp)["data"].(map[string]any)
	if progress["level"].(float64) != 1 {
		t.Errorf("level = %v, want 1", progress["level"])
	}
	if progress["total_verses_read"].(float64) != 0 {
		t.Errorf("total_verses_read = %v, want 0", progress["total_verses_read"])
	}
}

func TestAchievementsEndpoint(t *testing.T) {
	env := SetupTestEnv(t)
	device := "user-device-4"

	DoRequest(t, env, "POST", "/api/v1/user/register", map[string]string{"device_id": device}, "").Body.Close()

	resp := DoRequest(t, env, "GET", "/api/v1/user/achievements", nil, device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("achievements: status %d", resp.StatusCode)
	}
	data := ParseResponse(t, resp)["data"].(map[string]any)
	achievements := data["achievements"].([]any)
	if len(achievements) != 0 {
		t.Errorf("fresh user already earned %d achievements", len(achievements))
	}
}
