// Package recommend ranks events against a user's stored preference tags.
package recommend

import (
	"sort"

	"github.com/studentious/studentious/internal/models"
)

// MaxResults caps how many recommendations a user sees.
const MaxResults = 3

// Match is an event with its preference score.
type Match struct {
	Event models.Event `json:"event"`
	Score int          `json:"score"`
}

// TopMatches scores every event by counting, tag by tag, how many of its tags
// appear in the user's preference set. The count runs over occurrences, not
// distinct tags: an event listing the same preferred tag twice scores two.
// Zero-score events are dropped, the rest are sorted descending by score with
// ties keeping catalog order, and at most MaxResults are returned. A user
// with no preferences gets an empty result without any scoring.
func TopMatches(preferences []string, events []models.Event) []Match {
	if len(preferences) == 0 {
		return []Match{}
	}

	prefs := make(map[string]struct{}, len(preferences))
	for _, p := range preferences {
		prefs[p] = struct{}{}
	}

	matches := make([]Match, 0, len(events))
	for _, ev := range events {
		score := 0
		for _, tag := range ev.Tags {
			if _, ok := prefs[tag]; ok {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, Match{Event: ev, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}
