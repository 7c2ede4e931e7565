package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studentious/studentious/internal/models"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// GetByID returns a user by their identity-provider id, or nil, nil when the
// user has never written a profile.
func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, COALESCE(profile_image, ''), preferences, created_at
		FROM users
		WHERE id = $1`

	var u models.User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.ProfileImage,
		&u.Preferences,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Upsert creates the profile on first write and updates it afterwards. The
// stored profile image is kept when the incoming value is empty, so a profile
// update without a new image never clears the old one.
func (s *UserStore) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, profile_image, preferences, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, now())
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			email       = EXCLUDED.email,
			preferences = EXCLUDED.preferences,
			profile_image = COALESCE(EXCLUDED.profile_image, users.profile_image)
		RETURNING id, name, email, COALESCE(profile_image, ''), preferences, created_at`

	var out models.User
	err := s.pool.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.ProfileImage, u.Preferences).Scan(
		&out.ID,
		&out.Name,
		&out.Email,
		&out.ProfileImage,
		&out.Preferences,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &out, nil
}
