package scheduler

import (
	"context"
	"time"

	"github.com/fenneh/discord-f1-reminder/internal/notifications"
	"github.com/fenneh/discord-f1-reminder/internal/race"
)

// Job is a pending reminder.
type Job struct {
	// ID is the session identity and the dedup key of the live set.
	ID race.SessionID
	// RaceName is kept for logs and the status API.
	RaceName string
	// StartAt is the session start instant (UTC).
	StartAt time.Time
	// FireAt is StartAt minus the lead time.
	FireAt time.Time
	// Payload is composed when the job is scheduled, not when it fires.
	Payload notifications.Payload

	index int // position in the heap, maintained by jobHeap
}

// Composer builds a reminder payload for a resolved session.
type Composer interface {
	Compose(ctx context.Context, w race.Weekend, ev race.EventType, inst race.Instant) (notifications.Payload, error)
}

// Sink delivers a payload. Errors are logged by the scheduler and never
// stop the loop.
type Sink interface {
	Send(ctx context.Context, p notifications.Payload) error
}

// Outcome is the result of evaluating one session.
type Outcome int

const (
	// OutcomeUnavailable: no start instant could be resolved.
	OutcomeUnavailable Outcome = iota
	// OutcomePast: the fire instant is not in the future. Any existing job
	// for the session was dropped.
	OutcomePast
	// OutcomeScheduled: a new job was added.
	OutcomeScheduled
	// OutcomeReplaced: an existing job for the session was replaced.
	OutcomeReplaced
	// OutcomeFailed: the payload could not be built. The live set is
	// unchanged.
	OutcomeFailed
)

var outcomeNames = [...]string{"unavailable", "past", "scheduled", "replaced", "failed"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}
