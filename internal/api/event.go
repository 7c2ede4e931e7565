package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/recommend"
	"github.com/studentious/studentious/internal/repository"
	"github.com/studentious/studentious/internal/storage"
	"github.com/studentious/studentious/internal/timeline"
	"go.uber.org/zap"
)

// EventHandler serves the event lifecycle: create, list (flat, grouped,
// recommended), detail, and join.
type EventHandler struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	users         repository.UserRepository
	uploads       *storage.Client
	logger        *zap.Logger
}

func NewEventHandler(
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
	users repository.UserRepository,
	uploads *storage.Client,
	logger *zap.Logger,
) *EventHandler {
	return &EventHandler{
		events:        events,
		registrations: registrations,
		users:         users,
		uploads:       uploads,
		logger:        logger,
	}
}

// createEventRequest binds the multipart form for POST /v1/events. Tags come
// in as a comma-separated string; the optional image file is read from the
// "image" form file separately.
type createEventRequest struct {
	Title       string   `form:"title" binding:"required"`
	Description string   `form:"description"`
	StartTime   string   `form:"start_time" binding:"required"`
	EndTime     string   `form:"end_time"`
	Tags        string   `form:"tags" binding:"required"`
	EventType   string   `form:"event_type" binding:"required"`
	URL         string   `form:"url"`
	Lat         *float64 `form:"lat"`
	Long        *float64 `form:"long"`
}

// parseEventTime accepts RFC3339 or a plain date.
func parseEventTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	return t, err
}

// splitTags turns "math, cs,," into ["math", "cs"].
func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Create handles POST /v1/events (multipart).
func (h *EventHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req createEventRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startTime, err := parseEventTime(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time, use RFC3339 or YYYY-MM-DD"})
		return
	}
	var endTime *time.Time
	if req.EndTime != "" {
		t, err := parseEventTime(req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time, use RFC3339 or YYYY-MM-DD"})
			return
		}
		endTime = &t
	}

	params := models.CreateEventParams{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartTime:   startTime,
		EndTime:     endTime,
		Tags:        splitTags(req.Tags),
		Type:        models.EventType(req.EventType),
		Lat:         req.Lat,
		Long:        req.Long,
		OrganizerID: userID,
	}
	if req.URL != "" {
		params.URL = &req.URL
	}

	// The organizer must have a profile before owning events.
	organizer, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to look up organizer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	if organizer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
			return
		}
		url, err := h.uploads.Upload(c.Request.Context(), file, storage.FolderEvents)
		file.Close()
		if err != nil {
			h.logger.Error("event image upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
			return
		}
		params.Image = &url
	}

	ev, err := h.events.Create(c.Request.Context(), &params)
	if err != nil {
		h.logger.Error("failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, ev)
}

// List handles GET /v1/events?order=start_time|created_at
func (h *EventHandler) List(c *gin.Context) {
	order := repository.OrderByCreatedAt
	if c.Query("order") == string(repository.OrderByStartTime) {
		order = repository.OrderByStartTime
	}

	events, err := h.events.List(c.Request.Context(), order)
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// ListGrouped handles GET /v1/events/grouped, returning events bucketed by
// start date relative to now (Today, Tomorrow, This Week, This Month, Later).
func (h *EventHandler) ListGrouped(c *gin.Context) {
	events, err := h.events.List(c.Request.Context(), repository.OrderByStartTime)
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, timeline.Group(events, time.Now()))
}

// ListRecommended handles GET /v1/events/recommended, returning the top
// matches against the caller's stored preference tags.
func (h *EventHandler) ListRecommended(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recommend events"})
		return
	}

	var preferences []string
	if user != nil {
		preferences = user.Preferences
	}
	if len(preferences) == 0 {
		c.JSON(http.StatusOK, []recommend.Match{})
		return
	}

	events, err := h.events.List(c.Request.Context(), repository.OrderByStartTime)
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recommend events"})
		return
	}

	c.JSON(http.StatusOK, recommend.TopMatches(preferences, events))
}

// GetByID handles GET /v1/events/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("failed to get event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get event"})
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

// Join handles POST /v1/events/:id/join. It registers the caller and admits
// them to the event chat in one atomic step, then redirects to the joined
// confirmation view. Joining an event twice is a no-op success.
func (h *EventHandler) Join(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.registrations.Join(c.Request.Context(), eventID, userID); err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event chat not found"})
			return
		}
		h.logger.Error("failed to join event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join event"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/events/joined/"+eventID.String())
}
