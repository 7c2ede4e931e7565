package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/ai"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/repository"
	"github.com/studentious/studentious/internal/storage"
	"go.uber.org/zap"
)

// SummaryHandler serves the organizer's summary-setup flow: writing a
// summary by hand, generating one from the curriculum, and producing the
// podcast audio. All operations are organizer-only.
type SummaryHandler struct {
	events    repository.EventRepository
	curricula repository.CurriculumRepository
	model     *ai.Client
	uploads   *storage.Client
	logger    *zap.Logger
}

func NewSummaryHandler(
	events repository.EventRepository,
	curricula repository.CurriculumRepository,
	model *ai.Client,
	uploads *storage.Client,
	logger *zap.Logger,
) *SummaryHandler {
	return &SummaryHandler{
		events:    events,
		curricula: curricula,
		model:     model,
		uploads:   uploads,
		logger:    logger,
	}
}

// requireOrganizer loads the event and checks the caller owns it. On failure
// it writes the response and returns nil.
func (h *SummaryHandler) requireOrganizer(c *gin.Context) *models.Event {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return nil
	}

	ev, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("failed to get event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get event"})
		return nil
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return nil
	}
	if ev.OrganizerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the organizer can modify this event"})
		return nil
	}
	return ev
}

type updateSummaryRequest struct {
	Summary string `json:"summary" binding:"required"`
}

// Update handles PUT /v1/events/:id/summary
func (h *SummaryHandler) Update(c *gin.Context) {
	ev := h.requireOrganizer(c)
	if ev == nil {
		return
	}

	var req updateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.events.UpdateSummary(c.Request.Context(), ev.ID, req.Summary); err != nil {
		h.logger.Error("failed to update summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Generate handles POST /v1/events/:id/summary/generate. It summarizes the
// event's curriculum documents with the model API and stores the result.
func (h *SummaryHandler) Generate(c *gin.Context) {
	ev := h.requireOrganizer(c)
	if ev == nil {
		return
	}

	entries, err := h.curricula.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		h.logger.Error("failed to list curriculum", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate summary"})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event has no curriculum documents"})
		return
	}

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}

	summary, err := h.model.Summarize(c.Request.Context(), urls)
	if err != nil {
		h.logger.Error("summary generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary generation failed"})
		return
	}

	if err := h.events.UpdateSummary(c.Request.Context(), ev.ID, summary); err != nil {
		h.logger.Error("failed to store summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GeneratePodcast handles POST /v1/events/:id/podcast. It turns the stored
// summary into audio, uploads it, and records the URL on the event.
func (h *SummaryHandler) GeneratePodcast(c *gin.Context) {
	ev := h.requireOrganizer(c)
	if ev == nil {
		return
	}

	if ev.Summary == nil || *ev.Summary == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "generate a summary first"})
		return
	}

	audio, err := h.model.SynthesizeAudio(c.Request.Context(), *ev.Summary)
	if err != nil {
		h.logger.Error("podcast synthesis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "podcast generation failed"})
		return
	}

	url, err := h.uploads.Upload(c.Request.Context(), bytes.NewReader(audio), storage.FolderPodcasts)
	if err != nil {
		h.logger.Error("podcast upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "podcast generation failed"})
		return
	}

	if err := h.events.UpdatePodcastURL(c.Request.Context(), ev.ID, url); err != nil {
		h.logger.Error("failed to store podcast url", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "podcast generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"podcast_url": url})
}
