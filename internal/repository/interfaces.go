package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/models"
)

// Every method takes a context so request cancellation propagates into the
// database. Stores return (nil, nil) for single-row lookups that match
// nothing; handlers translate that into a 404.

// EventOrder selects the ordering of event listings.
type EventOrder string

const (
	OrderByStartTime EventOrder = "start_time"
	OrderByCreatedAt EventOrder = "created_at"
)

// EventRepository persists events and their summary-setup fields.
type EventRepository interface {
	// Create inserts the event and, in the same transaction, its chat with
	// the organizer as first member plus the organizer's registration.
	Create(ctx context.Context, p *models.CreateEventParams) (*models.Event, error)

	// GetByID returns the event with organizer and registrations attached.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)

	// List returns all events in the given order (start_time ascending or
	// created_at descending). Returns an empty slice, never nil.
	List(ctx context.Context, order EventOrder) ([]models.Event, error)

	// UpdateSummary sets the AI or organizer-written summary text.
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error

	// UpdatePodcastURL records the generated podcast audio location.
	UpdatePodcastURL(ctx context.Context, id uuid.UUID, url string) error
}

// RegistrationRepository handles event sign-ups.
type RegistrationRepository interface {
	// Join registers the user and admits them to the event's chat in one
	// transaction. Idempotent: repeating the call changes nothing. Returns
	// ErrChatNotFound (and writes nothing) when the event has no chat.
	Join(ctx context.Context, eventID uuid.UUID, userID string) error

	// ListByEvent returns the event's registrations, oldest first.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error)
}

// ChatRepository handles chat rooms and their membership.
type ChatRepository interface {
	// CreateDirect creates a chat between the given users, reusing an
	// existing direct chat with exactly that membership if one exists.
	CreateDirect(ctx context.Context, memberIDs []string) (uuid.UUID, error)

	// GetByID returns the chat with members attached.
	GetByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error)

	// GetByEventID returns an event's chat.
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*models.Chat, error)

	// ListByUser returns all chats the user belongs to, with members and
	// (for event chats) the owning event attached.
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)

	// IsMember reports whether the user belongs to the chat.
	IsMember(ctx context.Context, chatID uuid.UUID, userID string) (bool, error)
}

// MessageRepository handles chat message persistence.
type MessageRepository interface {
	// Create persists a message and returns it with ID and CreatedAt set.
	Create(ctx context.Context, chatID uuid.UUID, senderID, body string) (*models.Message, error)

	// ListByChat returns the chat's messages ascending by creation time,
	// each with the sender's display name attached.
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)
}

// AttachmentRepository handles files and links shared in chats.
type AttachmentRepository interface {
	Create(ctx context.Context, chatID uuid.UUID, url string, typ models.AttachmentType, uploaderID *string) (*models.Attachment, error)

	// ListByChat returns the chat's attachments of one type, newest first.
	ListByChat(ctx context.Context, chatID uuid.UUID, typ models.AttachmentType) ([]models.Attachment, error)
}

// CurriculumRepository handles organizer-curated required reading.
type CurriculumRepository interface {
	Create(ctx context.Context, eventID uuid.UUID, url string) (*models.Curriculum, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Curriculum, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Curriculum, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository handles profile data.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Upsert creates the profile on first write and updates it afterwards.
	// ProfileImage is only overwritten when the incoming value is non-empty.
	Upsert(ctx context.Context, u *models.User) (*models.User, error)
}
