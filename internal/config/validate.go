package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	// Quota limit must stay positive; zero would lock every free user out
	if c.Quota.DailyMessageLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_DAILY_MESSAGE_LIMIT must be at least 1, got %d", c.Quota.DailyMessageLimit))
	}

	if c.RateLimit.ChatMaxRequests < 1 {
		errs = append(errs, fmt.Sprintf("RATELIMIT_CHAT_MAX_REQUESTS must be at least 1, got %d", c.RateLimit.ChatMaxRequests))
	}
	if c.RateLimit.ChatWindowSec < 1 {
		errs = append(errs, fmt.Sprintf("RATELIMIT_CHAT_WINDOW_SEC must be at least 1, got %d", c.RateLimit.ChatWindowSec))
	}

	// API keys: warn only, the features degrade cleanly without them
	if c.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is empty — chat answers will fail")
	}
	if c.ElevenLabs.APIKey == "" {
		slog.Warn("ELEVENLABS_API_KEY is empty — verse audio is disabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
