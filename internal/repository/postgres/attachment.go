package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studentious/studentious/internal/models"
)

type AttachmentStore struct {
	pool *pgxpool.Pool
}

func NewAttachmentStore(pool *pgxpool.Pool) *AttachmentStore {
	return &AttachmentStore{pool: pool}
}

func (s *AttachmentStore) Create(ctx context.Context, chatID uuid.UUID, url string, typ models.AttachmentType, uploaderID *string) (*models.Attachment, error) {
	query := `
		INSERT INTO attachments (id, chat_id, url, type, uploader_id, uploaded_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, now())
		RETURNING id, chat_id, url, type, uploader_id, uploaded_at`

	var a models.Attachment
	err := s.pool.QueryRow(ctx, query, chatID, url, typ, uploaderID).Scan(
		&a.ID,
		&a.ChatID,
		&a.URL,
		&a.Type,
		&a.UploaderID,
		&a.UploadedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	return &a, nil
}

// ListByChat returns attachments of one type, newest upload first.
func (s *AttachmentStore) ListByChat(ctx context.Context, chatID uuid.UUID, typ models.AttachmentType) ([]models.Attachment, error) {
	query := `
		SELECT id, chat_id, url, type, uploader_id, uploaded_at
		FROM attachments
		WHERE chat_id = $1 AND type = $2
		ORDER BY uploaded_at DESC`

	rows, err := s.pool.Query(ctx, query, chatID, typ)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]models.Attachment, 0)
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.ChatID,
			&a.URL,
			&a.Type,
			&a.UploaderID,
			&a.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return attachments, nil
}
