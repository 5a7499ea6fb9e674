package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahle-app/rahle/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.ElevenLabsConfig{
		APIKey:  "test-key",
		VoiceID: "default-voice",
		BaseURL: serverURL,
	})
}

func TestConfigured(t *testing.T) {
	assert.True(t, newTestClient("http://localhost").Configured())
	assert.False(t, NewClient(config.ElevenLabsConfig{}).Configured())
}

func TestTextToSpeechUsesDefaultVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/default-voice/stream", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eleven_multilingual_v2", req["model_id"])
		assert.Equal(t, "Rahmân ve Rahîm olan Allah'ın adıyla.", req["text"])

		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	audio, err := newTestClient(srv.URL).TextToSpeech(context.Background(), "Rahmân ve Rahîm olan Allah'ın adıyla.", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
}

func TestTextToSpeechExplicitVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/other-voice/stream", r.URL.Path)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).TextToSpeech(context.Background(), "metin", "other-voice")
	require.NoError(t, err)
}

func TestVoicesFillsCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"voices": []map[string]string{
				{"voice_id": "v1", "name": "Yunus", "category": "professional"},
				{"voice_id": "v2", "name": "Adsız"},
			},
		})
	}))
	defer srv.Close()

	voices, err := newTestClient(srv.URL).Voices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "professional", voices[0].Category)
	assert.Equal(t, "generated", voices[1].Category)
}
