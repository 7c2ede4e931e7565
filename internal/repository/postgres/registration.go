package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/repository"
)

type RegistrationStore struct {
	pool *pgxpool.Pool
}

func NewRegistrationStore(pool *pgxpool.Pool) *RegistrationStore {
	return &RegistrationStore{pool: pool}
}

// Join registers the user for the event and admits them to the event's chat
// inside a single transaction, so a user can never end up registered but
// outside the chat. Both inserts are ON CONFLICT DO NOTHING, which makes the
// whole call idempotent: joining twice leaves exactly one registration row.
func (s *RegistrationStore) Join(ctx context.Context, eventID uuid.UUID, userID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var chatID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM chats WHERE event_id = $1`, eventID).Scan(&chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrChatNotFound
		}
		return fmt.Errorf("find event chat: %w", err)
	}

	insertRegistration := `
		INSERT INTO registrations (user_id, event_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, event_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insertRegistration, userID, eventID); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	insertMember := `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insertMember, chatID, userID); err != nil {
		return fmt.Errorf("insert chat member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *RegistrationStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	query := `
		SELECT user_id, event_id, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]models.Registration, 0)
	for rows.Next() {
		var r models.Registration
		if err := rows.Scan(&r.UserID, &r.EventID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}

	return regs, nil
}
