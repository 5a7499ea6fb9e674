package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rahle-app/rahle/internal/config"
)

// Voice is a narration voice available for synthesis.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Usage reports the synthesis character budget on the upstream account.
type Usage struct {
	CharacterCount int `json:"character_count"`
	CharacterLimit int `json:"character_limit"`
}

// Client talks to the ElevenLabs text-to-speech API.
type Client struct {
	apiKey         string
	baseURL        string
	defaultVoiceID string
	httpClient     *http.Client
}

// voiceSettings are tuned for calm, natural reading of verse
// translations with the default Turkish voice.
var voiceSettings = map[string]any{
	"stability":         0.48,
	"similarity_boost":  0.80,
	"style":             0.03,
	"use_speaker_boost": true,
}

const ttsModelID = "eleven_multilingual_v2"

func NewClient(cfg config.ElevenLabsConfig) *Client {
	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		defaultVoiceID: cfg.VoiceID,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an API key is present. Without one the
// audio endpoints answer 503 instead of failing mid-request.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Voices lists the voices available to the account.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voices request failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse voices response: %w", err)
	}
	for i := range payload.Voices {
		if payload.Voices[i].Category == "" {
			payload.Voices[i].Category = "generated"
		}
	}
	return payload.Voices, nil
}

// TextToSpeech synthesizes the text as MP3 with the given voice, or the
// configured default when voiceID is empty.
func (c *Client) TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}

	body, err := json.Marshal(map[string]any{
		"text":           text,
		"model_id":       ttsModelID,
		"voice_settings": voiceSettings,
		"output_format":  "mp3_44100_128",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts request failed with status %d: %s", resp.StatusCode, detail)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tts response: %w", err)
	}
	return audio, nil
}

// UsageInfo returns the account's character budget, or nil when the
// upstream does not answer. Usage is informational only.
func (c *Client) UsageInfo(ctx context.Context) (*Usage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/subscription", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var usage Usage
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return nil, fmt.Errorf("failed to parse subscription response: %w", err)
	}
	return &usage, nil
}
