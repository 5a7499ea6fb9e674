package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rahle-app/rahle/internal/config"
	"github.com/rahle-app/rahle/internal/metrics"
)

// VerseRef is a verse citation proposed by the model.
type VerseRef struct {
	Surah       int    `json:"surah"`
	Ayah        int    `json:"ayah"`
	Explanation string `json:"explanation"`
}

// Answer is the structured reply the model produces for a question.
type Answer struct {
	Summary string     `json:"summary"`
	Verses  []VerseRef `json:"verses"`
}

// Client asks a chat-completions endpoint about the Quran and parses
// the structured JSON reply.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

const systemPrompt = `Sen bir Kuran-ı Kerim uzmanısın. Kullanıcının sorularına Kuran ayetlerine dayanarak cevap veriyorsun.

GÖREVIN:
1. Kullanıcının sorusunu anla
2. İlgili Kuran ayetlerini bul (surah ve ayah numaraları ile)
3. Kısa bir özet ve ayetlerin açıklamasını ver

YANIT FORMATI (JSON):
{
  "summary": "Kısa özet açıklama (2-3 cümle)",
  "verses": [
    {
      "surah": 2,
      "ayah": 153,
      "explanation": "Bu ayette sabır ve namazla yardım istenmesi anlatılır"
    }
  ]
}

ÖNEMLİ:
- Sadece gerçek Kuran ayetlerini kullan
- Sure ve ayet numaralarını doğru ver
- Türkçe açıkla
- 2-4 ayet öner
- JSON formatında yanıt ver`

func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AskAboutQuran sends the question with the structured-answer system
// prompt and parses the JSON reply. Errors propagate to the caller, who
// decides whether to degrade.
func (c *Client) AskAboutQuran(ctx context.Context, question string) (*Answer, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
			return nil, fmt.Errorf("chat completion failed (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("chat completion failed with status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var answer Answer
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse structured answer: %w", err)
	}
	return &answer, nil
}
