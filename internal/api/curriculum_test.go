package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentious/studentious/internal/models"
	"go.uber.org/zap"
)

func TestCurriculumDelete(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	curricula := newFakeCurriculumRepo()
	entry, err := curricula.Create(context.Background(), ev.ID, "https://cdn.example.com/reading.pdf")
	require.NoError(t, err)
	h := NewCurriculumHandler(events, curricula, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodDelete, "/v1/curriculum/"+entry.ID.String(), nil, "organizer")
	c.Params = gin.Params{{Key: "id", Value: entry.ID.String()}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	got, err := curricula.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCurriculumDeleteForbiddenForNonOrganizer(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	curricula := newFakeCurriculumRepo()
	entry, err := curricula.Create(context.Background(), ev.ID, "https://cdn.example.com/reading.pdf")
	require.NoError(t, err)
	h := NewCurriculumHandler(events, curricula, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodDelete, "/v1/curriculum/"+entry.ID.String(), nil, "someone-else")
	c.Params = gin.Params{{Key: "id", Value: entry.ID.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	got, err := curricula.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCurriculumDeleteUnknownEntry(t *testing.T) {
	h := NewCurriculumHandler(newFakeEventRepo(), newFakeCurriculumRepo(), nil, zap.NewNop())

	id := uuid.NewString()
	c, w := newTestContext(t, http.MethodDelete, "/v1/curriculum/"+id, nil, "organizer")
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCurriculumList(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	curricula := newFakeCurriculumRepo()
	_, err = curricula.Create(context.Background(), ev.ID, "https://cdn.example.com/a.pdf")
	require.NoError(t, err)
	h := NewCurriculumHandler(events, curricula, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodGet, "/v1/events/"+ev.ID.String()+"/curriculum", nil, "anyone")
	c.Params = gin.Params{{Key: "id", Value: ev.ID.String()}}

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Curriculum
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/a.pdf", got[0].URL)
}
