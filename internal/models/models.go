package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is a person known to the system. The ID is the subject issued by the
// identity provider, so it is an opaque string rather than a UUID we mint.
// A row appears on the first profile write; users are never hard-deleted.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Preferences  []string  `json:"preferences"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventType discriminates online events (joined via URL) from offline events
// (attended at a geolocation). Exactly one of the two location shapes is set.
type EventType string

const (
	EventTypeOnline  EventType = "online"
	EventTypeOffline EventType = "offline"
)

// Event is a study session. URL is set iff Type is online; Lat/Long are set
// iff Type is offline. Summary and PodcastURL are filled in later by the
// summary-setup flow.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Tags        []string   `json:"tags"`
	Type        EventType  `json:"event_type"`
	URL         *string    `json:"url,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Long        *float64   `json:"long,omitempty"`
	Image       *string    `json:"image,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	PodcastURL  *string    `json:"podcast_url,omitempty"`
	OrganizerID string     `json:"organizer_id"`
	CreatedAt   time.Time  `json:"created_at"`

	// Populated on detail fetches only.
	Organizer     *User          `json:"organizer,omitempty"`
	Registrations []Registration `json:"registrations,omitempty"`
}

// Registration links a user to an event they intend to attend.
// (user_id, event_id) is the primary key, so a user registers at most once.
type Registration struct {
	UserID    string    `json:"user_id"`
	EventID   uuid.UUID `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat is a message room. EventID is set for event chats (one per event) and
// nil for direct chats between two users.
type Chat struct {
	ID        uuid.UUID  `json:"id"`
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Members []User `json:"members,omitempty"`

	// For event chats, the owning event with only Title and Image populated.
	// Used to name the chat in listings.
	Event *Event `json:"event,omitempty"`
}

// ChatMember is the join table between chats and users. An event chat's
// membership must stay a superset of that event's registrants; the join
// workflow maintains this.
type ChatMember struct {
	ChatID uuid.UUID `json:"chat_id"`
	UserID string    `json:"user_id"`
}

// Message is a single chat message. Immutable once created; listed ascending
// by creation time so the transcript reads top to bottom.
type Message struct {
	ID         int64     `json:"id"`
	ChatID     uuid.UUID `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	SenderName string    `json:"sender_name,omitempty"`
}

// AttachmentType classifies what an attachment URL points at.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "IMAGE"
	AttachmentDocument AttachmentType = "DOCUMENT"
	AttachmentLink     AttachmentType = "LINK"
)

// Attachment is a file or link shared in a chat. UploaderID is nil for LINK
// attachments harvested out of message bodies.
type Attachment struct {
	ID         uuid.UUID      `json:"id"`
	ChatID     uuid.UUID      `json:"chat_id"`
	URL        string         `json:"url"`
	Type       AttachmentType `json:"type"`
	UploaderID *string        `json:"uploader_id,omitempty"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// Curriculum is an organizer-curated required-reading entry for an event,
// referencing an uploaded document by URL.
type Curriculum struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Validation errors for event creation.
var (
	ErrMissingTitle     = errors.New("title is required")
	ErrMissingStartTime = errors.New("start time is required")
	ErrMissingTags      = errors.New("at least one tag is required")
	ErrInvalidEventType = errors.New("event_type must be online or offline")
	ErrMissingURL       = errors.New("online events require a url")
	ErrMissingLocation  = errors.New("offline events require lat and long")
	ErrConflictingPlace = errors.New("an event is either online or offline, not both")
)

// CreateEventParams carries validated input into the event store.
type CreateEventParams struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Tags        []string
	Type        EventType
	URL         *string
	Lat         *float64
	Long        *float64
	Image       *string
	OrganizerID string
}

// Validate enforces the required fields and the location invariant:
// exactly one of {url} or {lat,long} is set, chosen by Type.
func (p *CreateEventParams) Validate() error {
	if p.Title == "" {
		return ErrMissingTitle
	}
	if p.StartTime.IsZero() {
		return ErrMissingStartTime
	}
	if len(p.Tags) == 0 {
		return ErrMissingTags
	}
	switch p.Type {
	case EventTypeOnline:
		if p.URL == nil || *p.URL == "" {
			return ErrMissingURL
		}
		if p.Lat != nil || p.Long != nil {
			return ErrConflictingPlace
		}
	case EventTypeOffline:
		if p.Lat == nil || p.Long == nil {
			return ErrMissingLocation
		}
		if p.URL != nil {
			return ErrConflictingPlace
		}
	default:
		return ErrInvalidEventType
	}
	return nil
}
