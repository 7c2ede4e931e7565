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

type CurriculumStore struct {
	pool *pgxpool.Pool
}

func NewCurriculumStore(pool *pgxpool.Pool) *CurriculumStore {
	return &CurriculumStore{pool: pool}
}

func (s *CurriculumStore) Create(ctx context.Context, eventID uuid.UUID, url string) (*models.Curriculum, error) {
	query := `
		INSERT INTO curricula (id, event_id, url, created_at)
		VALUES (uuid_generate_v4(), $1, $2, now())
		RETURNING id, event_id, url, created_at`

	var c models.Curriculum
	err := s.pool.QueryRow(ctx, query, eventID, url).Scan(
		&c.ID,
		&c.EventID,
		&c.URL,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert curriculum: %w", err)
	}
	return &c, nil
}

// GetByID returns nil, nil when the entry does not exist.
func (s *CurriculumStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Curriculum, error) {
	var c models.Curriculum
	err := s.pool.QueryRow(ctx,
		`SELECT id, event_id, url, created_at FROM curricula WHERE id = $1`, id,
	).Scan(&c.ID, &c.EventID, &c.URL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get curriculum: %w", err)
	}
	return &c, nil
}

func (s *CurriculumStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Curriculum, error) {
	query := `
		SELECT id, event_id, url, created_at
		FROM curricula
		WHERE event_id = $1
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	defer rows.Close()

	entries := make([]models.Curriculum, 0)
	for rows.Next() {
		var c models.Curriculum
		if err := rows.Scan(&c.ID, &c.EventID, &c.URL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan curriculum: %w", err)
		}
		entries = append(entries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curricula: %w", err)
	}

	return entries, nil
}

// Delete removes an entry. Deleting an absent entry is a no-op.
func (s *CurriculumStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM curricula WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete curriculum: %w", err)
	}
	return nil
}
