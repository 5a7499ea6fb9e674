package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rahle-app/rahle/internal/api"
	"github.com/rahle-app/rahle/internal/llm"
	"github.com/rahle-app/rahle/internal/metrics"
	"github.com/rahle-app/rahle/internal/quota"
	"github.com/rahle-app/rahle/internal/quran"
)

const disclaimer = "Bu yanıt yapay zeka ve Kuran ayetlerine dayanmaktadır. Daha detaylı bilgi için İslam alimlerine danışabilirsiniz."

const fallbackNote = "\n\n💡 Not: Belirtilen ayetler henüz veritabanımıza eklenmemiş. Yakın konuda örnek ayetler gösterilmektedir."

const titleMaxLen = 50

// Asker produces a structured answer for a user question.
type Asker interface {
	AskAboutQuran(ctx context.Context, question string) (*llm.Answer, error)
}

// Service runs the question-answer flow: quota check, model call, verse
// resolution, persistence, and finally charging the daily allowance.
type Service struct {
	repo    Repository
	verses  quran.Repository
	tracker *quota.Tracker
	ai      Asker

	// sampleOffset picks where the fallback sample starts; swapped out
	// in tests for determinism.
	sampleOffset func() int
}

func NewService(repo Repository, verses quran.Repository, tracker *quota.Tracker, ai Asker) *Service {
	return &Service{
		repo:         repo,
		verses:       verses,
		tracker:      tracker,
		ai:           ai,
		sampleOffset: func() int { return rand.Intn(6) },
	}
}

// ProcessMessage answers one user message. The daily allowance is
// checked up front and charged only after an answer has been produced
// and stored; a failed model call costs the user nothing.
func (s *Service) ProcessMessage(ctx context.Context, deviceID string, req SendMessageRequest) (*Response, error) {
	status, err := s.tracker.CheckLimit(ctx, deviceID)
	if err != nil {
		// Cannot verify the allowance, so do not grant one.
		metrics.ChatMessagesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("checking message quota: %w", err)
	}
	if !status.CanProceed {
		metrics.QuotaRejectionsTotal.Inc()
		return nil, &api.QuotaExceededError{ResetAt: status.ResetAt, IsPremium: status.IsPremium}
	}

	conversation, err := s.resolveConversation(ctx, deviceID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMessage(ctx, conversation.ID, "user", map[string]string{"text": req.Message}); err != nil {
		return nil, err
	}

	answer, err := s.ai.AskAboutQuran(ctx, req.Message)
	if err != nil {
		metrics.ChatMessagesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("answering question: %w", err)
	}

	verses, err := s.resolveVerses(ctx, answer.Verses)
	if err != nil {
		return nil, err
	}

	summary := answer.Summary
	outcome := "answered"
	if len(verses) == 0 {
		verses, err = s.sampleVerses(ctx)
		if err != nil {
			return nil, err
		}
		summary += fallbackNote
		outcome = "fallback"
	}

	content := AnswerContent{
		Summary:    summary,
		Verses:     verses,
		Disclaimer: disclaimer,
	}
	if err := s.repo.AddMessage(ctx, conversation.ID, "assistant", content); err != nil {
		return nil, err
	}
	metrics.ChatMessagesTotal.WithLabelValues(outcome).Inc()

	remaining := quota.Unlimited
	if !status.IsPremium {
		rec, err := s.tracker.Consume(ctx, deviceID)
		if err != nil {
			// The answer is already delivered and stored; losing it over a
			// failed charge punishes the user for our outage. Log and move on.
			slog.Error("charging message quota", "device_id", deviceID, "error", err)
			remaining = status.Remaining - 1
		} else {
			remaining = s.tracker.Limit() - rec.DailyCount
		}
		if remaining < 0 {
			remaining = 0
		}
	}

	return &Response{
		ConversationID:    conversation.ID,
		Answer:            content,
		RemainingMessages: remaining,
		IsPremium:         status.IsPremium,
	}, nil
}

// resolveConversation loads the requested conversation or starts a new
// one titled after the opening message. A conversation belonging to a
// different device is treated as unknown.
func (s *Service) resolveConversation(ctx context.Context, deviceID string, req SendMessageRequest) (*Conversation, error) {
	if req.ConversationID != "" {
		conversation, err := s.repo.GetConversation(ctx, req.ConversationID)
		if err != nil {
			return nil, err
		}
		if conversation != nil && conversation.DeviceID == deviceID {
			return conversation, nil
		}
	}
	return s.repo.CreateConversation(ctx, deviceID, titleFrom(req.Message))
}

func (s *Service) resolveVerses(ctx context.Context, refs []llm.VerseRef) ([]AnswerVerse, error) {
	var verses []AnswerVerse
	for _, ref := range refs {
		v, err := s.verses.GetVerse(ctx, ref.Surah, ref.Ayah)
		if err != nil {
			return nil, err
		}
		if v == nil {
			slog.Debug("cited verse not seeded", "surah", ref.Surah, "ayah", ref.Ayah)
			continue
		}
		verses = append(verses, toAnswerVerse(*v))
	}
	return verses, nil
}

func (s *Service) sampleVerses(ctx context.Context) ([]AnswerVerse, error) {
	sample, err := s.verses.Sample(ctx, 2, s.sampleOffset())
	if err != nil {
		return nil, err
	}
	verses := make([]AnswerVerse, 0, len(sample))
	for _, v := range sample {
		verses = append(verses, toAnswerVerse(v))
	}
	return verses, nil
}

func toAnswerVerse(v quran.Verse) AnswerVerse {
	return AnswerVerse{
		ID:        v.ID,
		Surah:     v.Surah,
		SurahName: v.SurahName,
		Ayah:      v.Ayah,
		TextAr:    v.TextAr,
		TextTr:    v.TextTr,
	}
}

func titleFrom(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxLen {
		return message
	}
	return string(runes[:titleMaxLen]) + "..."
}

// Conversations lists a device's conversations, most recent first.
func (s *Service) Conversations(ctx context.Context, deviceID string) ([]ConversationSummary, error) {
	return s.repo.ListConversations(ctx, deviceID)
}

// ConversationByID returns a conversation with its full history, or nil
// when it does not exist or belongs to another device.
func (s *Service) ConversationByID(ctx context.Context, deviceID, id string) (*ConversationDetail, error) {
	conversation, err := s.repo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.DeviceID != deviceID {
		return nil, nil
	}

	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ConversationDetail{Conversation: *conversation, Messages: messages}, nil
}
