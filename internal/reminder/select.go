package reminder

import (
	"time"

	"github.com/fenneh/discord-f1-reminder/internal/race"
)

// Selection is one session picked out of the schedule.
type Selection struct {
	Weekend race.Weekend
	Event   race.EventType
	Instant race.Instant
}

// FindNext returns the session with the earliest start strictly after now,
// scanning weekends in feed order and event types in weekend order. Ties keep
// the first session found.
func FindNext(weekends []race.Weekend, now time.Time) (Selection, bool) {
	var best Selection
	found := false
	for _, w := range weekends {
		for _, ev := range race.EventTypes() {
			inst, err := race.Resolve(w, ev)
			if err != nil || !inst.At.After(now) {
				continue
			}
			if !found || inst.At.Before(best.Instant.At) {
				best = Selection{Weekend: w, Event: ev, Instant: inst}
				found = true
			}
		}
	}
	return best, found
}

// FindPrevious returns the session with the latest start strictly before
// now, restricted to the most recent season present in weekends. Event types
// are scanned from Race back to FirstPractice.
func FindPrevious(weekends []race.Weekend, now time.Time) (Selection, bool) {
	latest, ok := LatestSeason(weekends)
	if !ok {
		return Selection{}, false
	}

	var best Selection
	found := false
	for _, w := range weekends {
		if year, ok := w.SeasonYear(); !ok || year != latest {
			continue
		}
		for _, ev := range race.ReverseEventTypes() {
			inst, err := race.Resolve(w, ev)
			if err != nil || !inst.At.Before(now) {
				continue
			}
			if !found || inst.At.After(best.Instant.At) {
				best = Selection{Weekend: w, Event: ev, Instant: inst}
				found = true
			}
		}
	}
	return best, found
}

// LatestSeason returns the highest numeric season among weekends.
func LatestSeason(weekends []race.Weekend) (int, bool) {
	latest, found := 0, false
	for _, w := range weekends {
		year, ok := w.SeasonYear()
		if !ok {
			continue
		}
		if !found || year > latest {
			latest, found = year, true
		}
	}
	return latest, found
}

// PlanEntry is the dry-run view of one session.
type PlanEntry struct {
	ID       race.SessionID
	RaceName string
	Start    *race.Instant
	FireAt   time.Time
	Decision string // "schedule", "past", "unavailable"
}

// Plan reports what a scheduling pass would do with each session, without
// composing or sending anything.
func Plan(weekends []race.Weekend, now time.Time, lead time.Duration) []PlanEntry {
	var out []PlanEntry
	for _, w := range weekends {
		for _, ev := range race.EventTypes() {
			entry := PlanEntry{ID: w.ID(ev), RaceName: w.RaceName, Decision: "unavailable"}
			if inst, err := race.Resolve(w, ev); err == nil {
				entry.Start = &inst
				entry.FireAt = inst.At.Add(-lead)
				entry.Decision = "past"
				if entry.FireAt.After(now) {
					entry.Decision = "schedule"
				}
			}
			out = append(out, entry)
		}
	}
	return out
}
