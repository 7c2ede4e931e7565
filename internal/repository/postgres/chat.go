package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studentious/studentious/internal/models"
)

type ChatStore struct {
	pool *pgxpool.Pool
}

func NewChatStore(pool *pgxpool.Pool) *ChatStore {
	return &ChatStore{pool: pool}
}

// CreateDirect returns a chat whose membership is exactly memberIDs, creating
// it if no such direct chat exists yet. Event chats are created by the event
// store, never here.
func (s *ChatStore) CreateDirect(ctx context.Context, memberIDs []string) (uuid.UUID, error) {
	findQuery := `
		SELECT c.id
		FROM chats c
		WHERE c.event_id IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM chat_members m
			WHERE m.chat_id = c.id AND m.user_id <> ALL($1::text[])
		  )
		  AND (SELECT count(*) FROM chat_members m WHERE m.chat_id = c.id) = cardinality($1::text[])
		LIMIT 1`

	var existing uuid.UUID
	err := s.pool.QueryRow(ctx, findQuery, memberIDs).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("find direct chat: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var chatID uuid.UUID
	insertChat := `
		INSERT INTO chats (id, event_id, created_at)
		VALUES (uuid_generate_v4(), NULL, now())
		RETURNING id`
	if err := tx.QueryRow(ctx, insertChat).Scan(&chatID); err != nil {
		return uuid.Nil, fmt.Errorf("insert chat: %w", err)
	}

	insertMember := `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, user_id) DO NOTHING`
	for _, userID := range memberIDs {
		if _, err := tx.Exec(ctx, insertMember, chatID, userID); err != nil {
			return uuid.Nil, fmt.Errorf("insert chat member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return chatID, nil
}

// GetByID returns the chat with its members attached, or nil, nil when the
// chat does not exist.
func (s *ChatStore) GetByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	var ch models.Chat
	err := s.pool.QueryRow(ctx,
		`SELECT id, event_id, created_at FROM chats WHERE id = $1`, chatID,
	).Scan(&ch.ID, &ch.EventID, &ch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	members, err := s.listMembers(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	ch.Members = members

	if ch.EventID != nil {
		ev, err := s.eventHeader(ctx, *ch.EventID)
		if err != nil {
			return nil, err
		}
		ch.Event = ev
	}

	return &ch, nil
}

// GetByEventID returns an event's chat, or nil, nil when the event has none.
func (s *ChatStore) GetByEventID(ctx context.Context, eventID uuid.UUID) (*models.Chat, error) {
	var ch models.Chat
	err := s.pool.QueryRow(ctx,
		`SELECT id, event_id, created_at FROM chats WHERE event_id = $1`, eventID,
	).Scan(&ch.ID, &ch.EventID, &ch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event chat: %w", err)
	}
	return &ch, nil
}

// ListByUser returns every chat the user is a member of, newest first, with
// members and the owning event's title/image attached for naming.
func (s *ChatStore) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	query := `
		SELECT c.id, c.event_id, c.created_at
		FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		var ch models.Chat
		if err := rows.Scan(&ch.ID, &ch.EventID, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	for i := range chats {
		members, err := s.listMembers(ctx, chats[i].ID)
		if err != nil {
			return nil, err
		}
		chats[i].Members = members

		if chats[i].EventID != nil {
			ev, err := s.eventHeader(ctx, *chats[i].EventID)
			if err != nil {
				return nil, err
			}
			chats[i].Event = ev
		}
	}

	return chats, nil
}

func (s *ChatStore) IsMember(ctx context.Context, chatID uuid.UUID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM chat_members
			WHERE chat_id = $1 AND user_id = $2
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, chatID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

func (s *ChatStore) listMembers(ctx context.Context, chatID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, COALESCE(u.profile_image, ''), u.preferences, u.created_at
		FROM chat_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.chat_id = $1`

	rows, err := s.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list chat members: %w", err)
	}
	defer rows.Close()

	members := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.ProfileImage, &u.Preferences, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat members: %w", err)
	}

	return members, nil
}

// eventHeader loads just enough of an event to label its chat.
func (s *ChatStore) eventHeader(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var ev models.Event
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, image FROM events WHERE id = $1`, eventID,
	).Scan(&ev.ID, &ev.Title, &ev.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat event: %w", err)
	}
	return &ev, nil
}
