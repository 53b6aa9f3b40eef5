package race

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DisplayLayout renders e.g. "Sunday, Jun 09, 2024 at 14:00 UTC".
const DisplayLayout = "Monday, Jan 02, 2006 at 15:04 MST"

// ErrNotScheduled means the feed carries no date or time for the session yet.
// This is a normal state, not a failure.
var ErrNotScheduled = errors.New("session not scheduled")

// Accepted zone forms: "Z", "+hh:mm" and "+hhmm".
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z0700",
}

// Instant is a resolved session start.
type Instant struct {
	At      time.Time // always UTC
	Display string
}

// Resolve extracts the start instant of a session. It returns
// ErrNotScheduled when the sub-record, date or time is absent, and a parse
// error when the fields are present but malformed.
func Resolve(w Weekend, ev EventType) (Instant, error) {
	date, clock, ok := w.session(ev)
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if !ok || date == "" || clock == "" {
		return Instant{}, ErrNotScheduled
	}

	at, err := ParseInstant(date, clock)
	if err != nil {
		return Instant{}, fmt.Errorf("%s %s round %s: %w", ev.Key(), w.Season, w.Round, err)
	}
	return Instant{At: at, Display: at.Format(DisplayLayout)}, nil
}

// ParseInstant combines a feed date ("2024-06-09") and time ("14:00:00Z")
// into a UTC instant. A time without a zone designator is taken as UTC.
func ParseInstant(date, clock string) (time.Time, error) {
	if !hasZone(clock) {
		clock += "Z"
	}
	raw := date + "T" + clock
	var firstErr error
	for _, layout := range instantLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parse date/time %q: %w", raw, firstErr)
}

func hasZone(clock string) bool {
	if strings.HasSuffix(clock, "Z") || strings.HasSuffix(clock, "z") {
		return true
	}
	// "+hh:mm" or "+hhmm" after the clock digits
	if len(clock) > 6 && clock[len(clock)-3] == ':' && isSign(clock[len(clock)-6]) {
		return true
	}
	return len(clock) > 5 && isSign(clock[len(clock)-5]) && !strings.Contains(clock[len(clock)-4:], ":")
}

func isSign(b byte) bool {
	return b == '+' || b == '-'
}

// Resolver wraps Resolve for callers that only need "available or not":
// malformed values are logged and reported as unavailable.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a Resolver. logger may be nil.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve returns the session instant, ok=false if unavailable.
func (r *Resolver) Resolve(w Weekend, ev EventType) (Instant, bool) {
	inst, err := Resolve(w, ev)
	if err == nil {
		return inst, true
	}
	if !errors.Is(err, ErrNotScheduled) {
		r.logger.Warn("Unparseable session time",
			"race", w.RaceName, "event", ev.Key(), "error", err)
	}
	return Instant{}, false
}
