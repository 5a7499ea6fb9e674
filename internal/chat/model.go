package chat

import (
	"encoding/json"
	"time"
)

// Conversation groups the messages a device exchanged on one topic.
type Conversation struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single turn in a conversation. Content is JSON: user
// turns carry {"text": ...}, assistant turns carry the full answer.
type Message struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Sender         string          `json:"sender"`
	Content        json.RawMessage `json:"content"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ConversationSummary is a list row: the conversation plus its opening
// message for preview.
type ConversationSummary struct {
	Conversation
	FirstMessage json.RawMessage `json:"first_message,omitempty"`
}

// ConversationDetail is a conversation with its full message history.
type ConversationDetail struct {
	Conversation
	Messages []Message `json:"messages"`
}

// AnswerVerse is one cited verse in an assistant answer.
type AnswerVerse struct {
	ID        string `json:"id"`
	Surah     int    `json:"surah"`
	SurahName string `json:"surah_name"`
	Ayah      int    `json:"ayah"`
	TextAr    string `json:"text_ar"`
	TextTr    string `json:"text_tr"`
}

// AnswerContent is the assistant payload stored with the message and
// returned to the client.
type AnswerContent struct {
	Summary    string        `json:"summary"`
	Verses     []AnswerVerse `json:"verses"`
	Disclaimer string        `json:"disclaimer"`
}

// Response is the reply to a sent message, including the remaining
// quota so the client can render the allowance without a second call.
type Response struct {
	ConversationID    string        `json:"conversation_id"`
	Answer            AnswerContent `json:"response"`
	RemainingMessages int           `json:"remaining_messages"`
	IsPremium         bool          `json:"is_premium"`
}

// SendMessageRequest is the inbound chat payload. DeviceID is normally
// taken from the X-Device-ID header, the body field is a fallback for
// older clients.
type SendMessageRequest struct {
	Message        string `json:"message" validate:"required,min=1,max=2000"`
	ConversationID string `json:"conversation_id"`
	DeviceID       string `json:"device_id"`
}
