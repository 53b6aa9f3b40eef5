package scheduler

import (
	"fmt"
	"time"
)

// PassResult tracks the outcome counts of one scheduling pass.
type PassResult struct {
	Weekends    int           `json:"weekends"`
	Evaluated   int           `json:"evaluated"`
	Scheduled   int           `json:"scheduled"`
	Replaced    int           `json:"replaced"`
	Unavailable int           `json:"unavailable"`
	Past        int           `json:"past"`
	Failed      int           `json:"failed"`
	Errors      []string      `json:"errors,omitempty"`
	Pending     int           `json:"pending"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// Record counts one evaluation.
func (r *PassResult) Record(o Outcome) {
	r.Evaluated++
	switch o {
	case OutcomeScheduled:
		r.Scheduled++
	case OutcomeReplaced:
		r.Replaced++
	case OutcomeUnavailable:
		r.Unavailable++
	case OutcomePast:
		r.Past++
	case OutcomeFailed:
		r.Failed++
	}
}

// AddErrorf records a formatted error message.
func (r *PassResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the pass.
func (r *PassResult) Summary() string {
	return fmt.Sprintf(
		"weekends=%d evaluated=%d scheduled=%d replaced=%d unavailable=%d past=%d failed=%d pending=%d",
		r.Weekends, r.Evaluated, r.Scheduled, r.Replaced,
		r.Unavailable, r.Past, r.Failed, r.Pending,
	)
}
