package api

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentious/studentious/internal/models"
	"go.uber.org/zap"
)

type fakeCurriculumRepo struct {
	entries map[uuid.UUID]*models.Curriculum
}

func newFakeCurriculumRepo(entries ...*models.Curriculum) *fakeCurriculumRepo {
	f := &fakeCurriculumRepo{entries: map[uuid.UUID]*models.Curriculum{}}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return f
}

func (f *fakeCurriculumRepo) Create(_ context.Context, eventID uuid.UUID, url string) (*models.Curriculum, error) {
	e := &models.Curriculum{ID: uuid.New(), EventID: eventID, URL: url}
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeCurriculumRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Curriculum, error) {
	return f.entries[id], nil
}

func (f *fakeCurriculumRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]models.Curriculum, error) {
	out := make([]models.Curriculum, 0)
	for _, e := range f.entries {
		if e.EventID == eventID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeCurriculumRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.entries, id)
	return nil
}

func TestSummaryUpdate(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	h := NewSummaryHandler(events, newFakeCurriculumRepo(), nil, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodPut, "/v1/events/"+ev.ID.String()+"/summary", bytes.NewBufferString(`{"summary": "key takeaways"}`), "organizer")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: ev.ID.String()}}

	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, events.events[ev.ID].Summary)
	assert.Equal(t, "key takeaways", *events.events[ev.ID].Summary)
}

func TestSummaryUpdateForbiddenForNonOrganizer(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	h := NewSummaryHandler(events, newFakeCurriculumRepo(), nil, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodPut, "/v1/events/"+ev.ID.String()+"/summary", bytes.NewBufferString(`{"summary": "sneaky edit"}`), "someone-else")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: ev.ID.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, events.events[ev.ID].Summary)
}

func TestSummaryUpdateUnknownEvent(t *testing.T) {
	h := NewSummaryHandler(newFakeEventRepo(), newFakeCurriculumRepo(), nil, nil, zap.NewNop())

	eventID := uuid.NewString()
	c, w := newTestContext(t, http.MethodPut, "/v1/events/"+eventID+"/summary", bytes.NewBufferString(`{"summary": "text"}`), "organizer")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: eventID}}

	h.Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryGenerateRequiresCurriculum(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	h := NewSummaryHandler(events, newFakeCurriculumRepo(), nil, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodPost, "/v1/events/"+ev.ID.String()+"/summary/generate", nil, "organizer")
	c.Params = gin.Params{{Key: "id", Value: ev.ID.String()}}

	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPodcastRequiresSummary(t *testing.T) {
	events := newFakeEventRepo()
	ev, err := events.Create(context.Background(), &models.CreateEventParams{Title: "Review", OrganizerID: "organizer"})
	require.NoError(t, err)
	h := NewSummaryHandler(events, newFakeCurriculumRepo(), nil, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodPost, "/v1/events/"+ev.ID.String()+"/podcast", nil, "organizer")
	c.Params = gin.Params{{Key: "id", Value: ev.ID.String()}}

	h.GeneratePodcast(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
