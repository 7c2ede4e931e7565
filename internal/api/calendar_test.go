package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentious/studentious/internal/models"
	"go.uber.org/zap"
)

func TestCalendarExport(t *testing.T) {
	events := newFakeEventRepo()
	url := "https://meet.example.com/abc"
	ev, err := events.Create(context.Background(), &models.CreateEventParams{
		Title:       "Linear Algebra Review",
		StartTime:   time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC),
		Type:        models.EventTypeOnline,
		URL:         &url,
		OrganizerID: "organizer",
	})
	require.NoError(t, err)
	h := NewCalendarHandler(events, zap.NewNop())

	c, w := newTestContext(t, http.MethodGet, "/v1/calendar/"+ev.ID.String(), nil, "")
	c.Params = gin.Params{{Key: "id", Value: ev.ID.String()}}

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Linear_Algebra_Review.ics"`, w.Header().Get("Content-Disposition"))
	body := w.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "DTSTART:20250410T100000")
	assert.Contains(t, body, "DTEND:20250410T100000")
}

func TestCalendarExportUnknownEvent(t *testing.T) {
	h := NewCalendarHandler(newFakeEventRepo(), zap.NewNop())

	id := uuid.NewString()
	c, w := newTestContext(t, http.MethodGet, "/v1/calendar/"+id, nil, "")
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Export(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendarExportBadID(t *testing.T) {
	h := NewCalendarHandler(newFakeEventRepo(), zap.NewNop())

	c, w := newTestContext(t, http.MethodGet, "/v1/calendar/nope", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
