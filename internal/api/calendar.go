package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/calendar"
	"github.com/studentious/studentious/internal/repository"
	"go.uber.org/zap"
)

// CalendarHandler serves event .ics downloads. The endpoint is public so
// calendar apps can fetch it without a token.
type CalendarHandler struct {
	events repository.EventRepository
	logger *zap.Logger
}

func NewCalendarHandler(events repository.EventRepository, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{events: events, logger: logger}
}

// Export handles GET /v1/calendar/:id
func (h *CalendarHandler) Export(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("failed to get event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export calendar"})
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	payload, err := calendar.Export(ev)
	if err != nil {
		h.logger.Error("calendar export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create .ics file"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+calendar.Filename(ev.Title)+`"`)
	c.Data(http.StatusOK, "text/calendar", []byte(payload))
}
