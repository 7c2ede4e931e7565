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

type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Create inserts the event together with its chat, the organizer's chat
// membership, and the organizer's own registration, all in one transaction.
// Either the whole structure exists afterwards or none of it does.
func (s *EventStore) Create(ctx context.Context, p *models.CreateEventParams) (*models.Event, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	insertEvent := `
		INSERT INTO events
			(id, title, description, start_time, end_time, tags, event_type,
			 url, lat, long, image, organizer_id, created_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		RETURNING id, created_at`

	ev := models.Event{
		Title:       p.Title,
		Description: p.Description,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Tags:        p.Tags,
		Type:        p.Type,
		URL:         p.URL,
		Lat:         p.Lat,
		Long:        p.Long,
		Image:       p.Image,
		OrganizerID: p.OrganizerID,
	}
	err = tx.QueryRow(ctx, insertEvent,
		p.Title, p.Description, p.StartTime, p.EndTime, p.Tags, p.Type,
		p.URL, p.Lat, p.Long, p.Image, p.OrganizerID,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	var chatID uuid.UUID
	insertChat := `
		INSERT INTO chats (id, event_id, created_at)
		VALUES (uuid_generate_v4(), $1, now())
		RETURNING id`
	if err := tx.QueryRow(ctx, insertChat, ev.ID).Scan(&chatID); err != nil {
		return nil, fmt.Errorf("insert chat: %w", err)
	}

	insertMember := `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insertMember, chatID, p.OrganizerID); err != nil {
		return nil, fmt.Errorf("insert chat member: %w", err)
	}

	insertRegistration := `
		INSERT INTO registrations (user_id, event_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, event_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insertRegistration, p.OrganizerID, ev.ID); err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &ev, nil
}

const eventColumns = `
	id, title, description, start_time, end_time, tags, event_type,
	url, lat, long, image, summary, podcast_url, organizer_id, created_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var ev models.Event
	err := row.Scan(
		&ev.ID,
		&ev.Title,
		&ev.Description,
		&ev.StartTime,
		&ev.EndTime,
		&ev.Tags,
		&ev.Type,
		&ev.URL,
		&ev.Lat,
		&ev.Long,
		&ev.Image,
		&ev.Summary,
		&ev.PodcastURL,
		&ev.OrganizerID,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetByID returns the event with organizer and registrations attached.
// Returns nil, nil when no such event exists.
func (s *EventStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	ev, err := scanEvent(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	organizerQuery := `
		SELECT id, name, email, COALESCE(profile_image, ''), preferences, created_at
		FROM users
		WHERE id = $1`
	var org models.User
	err = s.pool.QueryRow(ctx, organizerQuery, ev.OrganizerID).Scan(
		&org.ID, &org.Name, &org.Email, &org.ProfileImage, &org.Preferences, &org.CreatedAt,
	)
	if err == nil {
		ev.Organizer = &org
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get organizer: %w", err)
	}

	regQuery := `
		SELECT user_id, event_id, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, regQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	ev.Registrations = make([]models.Registration, 0)
	for rows.Next() {
		var r models.Registration
		if err := rows.Scan(&r.UserID, &r.EventID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		ev.Registrations = append(ev.Registrations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}

	return ev, nil
}

// List returns every event, ordered by start time ascending or creation time
// descending.
func (s *EventStore) List(ctx context.Context, order repository.EventOrder) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_time ASC`
	if order == repository.OrderByCreatedAt {
		query = `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func (s *EventStore) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE events SET summary = $2 WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrEventNotFound
	}
	return nil
}

func (s *EventStore) UpdatePodcastURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE events SET podcast_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update podcast url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrEventNotFound
	}
	return nil
}
