package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentious/studentious/internal/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestExportZeroDurationEvent(t *testing.T) {
	// No end time: DTEND equals DTSTART.
	ev := &models.Event{
		ID:        uuid.New(),
		Title:     "Study Session",
		StartTime: time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC),
	}

	out, err := Export(ev)
	require.NoError(t, err)

	assert.Contains(t, out, "DTSTART:20250410T100000")
	assert.Contains(t, out, "DTEND:20250410T100000")
	assert.Contains(t, out, "SUMMARY:Study Session")
	assert.Contains(t, out, "UID:"+ev.ID.String())
	assert.Contains(t, out, "METHOD:PUBLISH")
}

func TestExportWithEndTime(t *testing.T) {
	end := time.Date(2025, 4, 10, 12, 30, 0, 0, time.UTC)
	ev := &models.Event{
		ID:        uuid.New(),
		Title:     "Workshop",
		StartTime: time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC),
		EndTime:   &end,
	}

	out, err := Export(ev)
	require.NoError(t, err)

	assert.Contains(t, out, "DTSTART:20250410T100000")
	assert.Contains(t, out, "DTEND:20250410T123000")
}

func TestExportLocationPrefersURL(t *testing.T) {
	ev := &models.Event{
		ID:        uuid.New(),
		Title:     "Online Meetup",
		StartTime: time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC),
		URL:       strPtr("https://meet.example.com/xyz"),
	}

	out, err := Export(ev)
	require.NoError(t, err)
	assert.Contains(t, out, "LOCATION:https://meet.example.com/xyz")
}

func TestExportLocationFromCoordinates(t *testing.T) {
	ev := &models.Event{
		ID:        uuid.New(),
		Title:     "Campus Meetup",
		StartTime: time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC),
		Lat:       floatPtr(52.52),
		Long:      floatPtr(13.405),
	}

	out, err := Export(ev)
	require.NoError(t, err)
	// Serialization folds long lines, so match on the unfolded text.
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "https://www.google.com/maps?q=52.52,13.405")
}

func TestExportLocationFallback(t *testing.T) {
	ev := &models.Event{
		ID:        uuid.New(),
		Title:     "Mystery Event",
		StartTime: time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC),
	}

	out, err := Export(ev)
	require.NoError(t, err)
	assert.Contains(t, out, "LOCATION:No location provided")
}

func TestExportRejectsUntitledEvent(t *testing.T) {
	_, err := Export(&models.Event{ID: uuid.New()})
	assert.Error(t, err)

	_, err = Export(nil)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Linear_Algebra_Review.ics", Filename("Linear  Algebra\tReview"))
	assert.Equal(t, "Exam.ics", Filename("Exam"))
}
