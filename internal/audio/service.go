package audio

import (
	"context"
	"fmt"

	"github.com/rahle-app/rahle/internal/quran"
)

// Service narrates verse translations through the TTS client.
type Service struct {
	client *Client
	verses quran.Repository
}

func NewService(client *Client, verses quran.Repository) *Service {
	return &Service{client: client, verses: verses}
}

func (s *Service) Configured() bool {
	return s.client.Configured()
}

// VerseAudio synthesizes the Turkish translation of a verse. The second
// return value is false when the verse is not seeded.
func (s *Service) VerseAudio(ctx context.Context, surah, ayah int, voiceID string) ([]byte, bool, error) {
	verse, err := s.verses.GetVerse(ctx, surah, ayah)
	if err != nil {
		return nil, false, err
	}
	if verse == nil {
		return nil, false, nil
	}

	audio, err := s.client.TextToSpeech(ctx, verse.TextTr, voiceID)
	if err != nil {
		return nil, true, fmt.Errorf("synthesizing verse %d:%d: %w", surah, ayah, err)
	}
	return audio, true, nil
}

func (s *Service) Voices(ctx context.Context) ([]Voice, error) {
	return s.client.Voices(ctx)
}

func (s *Service) Usage(ctx context.Context) (*Usage, error) {
	return s.client.UsageInfo(ctx)
}
