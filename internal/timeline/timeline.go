// Package timeline buckets events by how soon they start, for the grouped
// event listing ("Today", "Tomorrow", ...).
package timeline

import (
	"time"

	"github.com/studentious/studentious/internal/models"
)

// Bucket labels, in display order.
const (
	LabelToday     = "Today"
	LabelTomorrow  = "Tomorrow"
	LabelThisWeek  = "This Week"
	LabelThisMonth = "This Month"
	LabelLater     = "Later"
)

// Bucket is one labeled group of events, in the order they were given.
type Bucket struct {
	Label  string         `json:"label"`
	Events []models.Event `json:"events"`
}

// Group partitions events into date buckets relative to now. Each event lands
// in exactly one bucket, chosen by the first matching rule:
//
//  1. Today: same calendar date as now
//  2. Tomorrow: calendar date of now + 1 day
//  3. This Week: starts on or before the end of the current week, where the
//     week ends on Saturday (Sunday-is-0 weekday convention)
//  4. This Month: same calendar month and year as now
//  5. Later: everything else
//
// Events already in the past fall through the same rules; there is no
// separate past bucket. Input order is preserved within each bucket. Buckets
// with no events are omitted from the result.
func Group(events []models.Event, now time.Time) []Bucket {
	buckets := map[string][]models.Event{}

	for _, ev := range events {
		label := classify(ev.StartTime.In(now.Location()), now)
		buckets[label] = append(buckets[label], ev)
	}

	out := make([]Bucket, 0, 5)
	for _, label := range []string{LabelToday, LabelTomorrow, LabelThisWeek, LabelThisMonth, LabelLater} {
		if evs, ok := buckets[label]; ok {
			out = append(out, Bucket{Label: label, Events: evs})
		}
	}
	return out
}

func classify(start, now time.Time) string {
	if sameDate(start, now) {
		return LabelToday
	}
	if sameDate(start, now.AddDate(0, 0, 1)) {
		return LabelTomorrow
	}
	if !start.After(endOfWeek(now)) {
		return LabelThisWeek
	}
	if start.Month() == now.Month() && start.Year() == now.Year() {
		return LabelThisMonth
	}
	return LabelLater
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// endOfWeek returns the last instant of the current week's Saturday.
func endOfWeek(now time.Time) time.Time {
	daysUntilSaturday := int(time.Saturday) - int(now.Weekday())
	saturday := now.AddDate(0, 0, daysUntilSaturday)
	y, m, d := saturday.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
}
