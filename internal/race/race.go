// Package race models a Formula 1 race weekend as published by the Ergast
// schedule feed, the six session kinds that make up a weekend, and the
// resolution of a session's start instant from the loosely structured
// date/time fields.
package race

import (
	"fmt"
	"strconv"
)

// Weekend is one entry of the season schedule (an Ergast "Race" record).
// Session sub-records are optional: the feed omits them until the session
// is timetabled, and sprint weekends replace FP2/FP3 with Sprint sessions.
type Weekend struct {
	Season   string  `json:"season"`
	Round    string  `json:"round"`
	URL      string  `json:"url"`
	RaceName string  `json:"raceName"`
	Circuit  Circuit `json:"Circuit"`

	// Race start lives directly on the weekend record.
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`

	FirstPractice  *SessionTime `json:"FirstPractice,omitempty"`
	SecondPractice *SessionTime `json:"SecondPractice,omitempty"`
	ThirdPractice  *SessionTime `json:"ThirdPractice,omitempty"`
	Sprint         *SessionTime `json:"Sprint,omitempty"`
	Qualifying     *SessionTime `json:"Qualifying,omitempty"`
}

// SessionTime is a nested date/time sub-record. Either field may be empty.
type SessionTime struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// Circuit describes the venue of a weekend.
type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// Location carries coordinates as the feed's decimal strings.
type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

// Coordinates parses latitude and longitude.
func (l Location) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(l.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude %q: %w", l.Lat, err)
	}
	lon, err = strconv.ParseFloat(l.Long, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude %q: %w", l.Long, err)
	}
	return lat, lon, nil
}

// SeasonYear returns the season as an integer, ok=false if unparseable.
func (w Weekend) SeasonYear() (int, bool) {
	n, err := strconv.Atoi(w.Season)
	if err != nil {
		return 0, false
	}
	return n, true
}

// session returns the raw date/time pair for an event type.
func (w Weekend) session(ev EventType) (date, clock string, ok bool) {
	var st *SessionTime
	switch ev {
	case Race:
		return w.Date, w.Time, true
	case FirstPractice:
		st = w.FirstPractice
	case SecondPractice:
		st = w.SecondPractice
	case ThirdPractice:
		st = w.ThirdPractice
	case Sprint:
		st = w.Sprint
	case Qualifying:
		st = w.Qualifying
	default:
		return "", "", false
	}
	if st == nil {
		return "", "", false
	}
	return st.Date, st.Time, true
}

// SessionID identifies one session of one weekend. It is the dedup key of
// the scheduler's live job set.
type SessionID struct {
	Season string
	Round  string
	Event  EventType
}

// ID returns the identity of the weekend's session of the given type.
func (w Weekend) ID(ev EventType) SessionID {
	return SessionID{Season: w.Season, Round: w.Round, Event: ev}
}

// String renders the identity as "<season>_<round>_<event>_notification".
func (id SessionID) String() string {
	return fmt.Sprintf("%s_%s_%s_notification", id.Season, id.Round, id.Event.Key())
}
