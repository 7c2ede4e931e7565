// Package calendar renders events as iCalendar payloads for download.
package calendar

import (
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/studentious/studentious/internal/models"
)

// icsLocalFormat renders a floating local time: no zone suffix, so the
// attendee's calendar shows the event at its local wall-clock time.
const icsLocalFormat = "20060102T150405"

// Export renders a single VEVENT for the event. Start and end are local-time
// component tuples; a missing end time produces a zero-duration event with
// end equal to start. The location is the event URL for online events, a
// generated map link for offline ones, and a placeholder otherwise.
func Export(ev *models.Event) (string, error) {
	if ev == nil || ev.Title == "" {
		return "", fmt.Errorf("export calendar: event has no title")
	}

	start := ev.StartTime
	end := start
	if ev.EndTime != nil {
		end = *ev.EndTime
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	e := cal.AddEvent(ev.ID.String())
	e.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalFormat))
	e.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalFormat))
	e.SetSummary(ev.Title)
	e.SetDescription(ev.Description)
	e.SetLocation(location(ev))

	return cal.Serialize(), nil
}

// Filename returns the download filename for an event's calendar file,
// with whitespace in the title collapsed to underscores.
func Filename(title string) string {
	return strings.Join(strings.Fields(title), "_") + ".ics"
}

func location(ev *models.Event) string {
	if ev.URL != nil && *ev.URL != "" {
		return *ev.URL
	}
	if ev.Lat != nil && ev.Long != nil {
		return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", *ev.Lat, *ev.Long)
	}
	return "No location provided"
}
