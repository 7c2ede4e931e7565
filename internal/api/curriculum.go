package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/repository"
	"github.com/studentious/studentious/internal/storage"
	"go.uber.org/zap"
)

// CurriculumHandler serves organizer-curated required reading for an event.
// Add and remove are organizer-only; the listing is open to any member.
type CurriculumHandler struct {
	events    repository.EventRepository
	curricula repository.CurriculumRepository
	uploads   *storage.Client
	logger    *zap.Logger
}

func NewCurriculumHandler(
	events repository.EventRepository,
	curricula repository.CurriculumRepository,
	uploads *storage.Client,
	logger *zap.Logger,
) *CurriculumHandler {
	return &CurriculumHandler{
		events:    events,
		curricula: curricula,
		uploads:   uploads,
		logger:    logger,
	}
}

// isOrganizer loads the event and checks ownership, writing the failure
// response itself.
func (h *CurriculumHandler) isOrganizer(c *gin.Context, eventID uuid.UUID) bool {
	ev, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("failed to get event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get event"})
		return false
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return false
	}
	if ev.OrganizerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the organizer can modify the curriculum"})
		return false
	}
	return true
}

// Upload handles POST /v1/events/:id/curriculum (multipart, field "file").
func (h *CurriculumHandler) Upload(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	if !h.isOrganizer(c, eventID) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	url, err := h.uploads.Upload(c.Request.Context(), file, storage.FolderAttachments)
	if err != nil {
		h.logger.Error("curriculum upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	entry, err := h.curricula.Create(c.Request.Context(), eventID, url)
	if err != nil {
		h.logger.Error("failed to record curriculum", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List handles GET /v1/events/:id/curriculum
func (h *CurriculumHandler) List(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	entries, err := h.curricula.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("failed to list curriculum", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list curriculum"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Delete handles DELETE /v1/curriculum/:id
func (h *CurriculumHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid curriculum id"})
		return
	}

	entry, err := h.curricula.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get curriculum", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete curriculum"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "curriculum not found"})
		return
	}
	if !h.isOrganizer(c, entry.EventID) {
		return
	}

	if err := h.curricula.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete curriculum", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete curriculum"})
		return
	}

	c.Status(http.StatusNoContent)
}
