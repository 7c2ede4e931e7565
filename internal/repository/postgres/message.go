package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studentious/studentious/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// Create persists a message. Messages use bigserial ids, so Postgres
// generates the id and RETURNING hands it back.
func (s *MessageStore) Create(ctx context.Context, chatID uuid.UUID, senderID, body string) (*models.Message, error) {
	query := `
		INSERT INTO messages (chat_id, sender_id, body, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, chat_id, sender_id, body, created_at`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, chatID, senderID, body).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.SenderID,
		&msg.Body,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// ListByChat returns the full transcript ascending by creation time, each
// message carrying the sender's display name for rendering.
func (s *MessageStore) ListByChat(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT m.id, m.chat_id, m.sender_id, m.body, m.created_at, COALESCE(u.name, '')
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.created_at ASC, m.id ASC`

	rows, err := s.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.SenderID,
			&msg.Body,
			&msg.CreatedAt,
			&msg.SenderName,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
