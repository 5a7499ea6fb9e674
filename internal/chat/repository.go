package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists conversations and their messages.
type Repository interface {
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	CreateConversation(ctx context.Context, deviceID, title string) (*Conversation, error)
	ListConversations(ctx context.Context, deviceID string) ([]ConversationSummary, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	AddMessage(ctx context.Context, conversationID, sender string, content any) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a conversation repository backed by PostgreSQL.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const conversationColumns = `id, device_id, title, created_at, updated_at`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.DeviceID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	c, err := scanConversation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) CreateConversation(ctx context.Context, deviceID, title string) (*Conversation, error) {
	query := `INSERT INTO conversations (device_id, title) VALUES ($1, $2)
		RETURNING ` + conversationColumns

	c, err := scanConversation(r.pool.QueryRow(ctx, query, deviceID, title))
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) ListConversations(ctx context.Context, deviceID string) ([]ConversationSummary, error) {
	query := `SELECT c.id, c.device_id, c.title, c.created_at, c.updated_at,
			(SELECT m.content FROM messages m
				WHERE m.conversation_id = c.id
				ORDER BY m.created_at ASC LIMIT 1)
		FROM conversations c
		WHERE c.device_id = $1
		ORDER BY c.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(&s.ID, &s.DeviceID, &s.Title, &s.CreatedAt, &s.UpdatedAt, &s.FirstMessage); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}
	return summaries, nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	query := `SELECT id, conversation_id, sender, content, created_at FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

// AddMessage stores a message and bumps the conversation's updated_at
// so the list endpoint orders by recent activity.
func (r *postgresRepository) AddMessage(ctx context.Context, conversationID, sender string, content any) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal message content: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, content) VALUES ($1, $2, $3)`,
		conversationID, sender, payload)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}
