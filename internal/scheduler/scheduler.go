package scheduler

import (
	"container/heap"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fenneh/discord-f1-reminder/internal/race"
)

const maxSleepCap = 60 * time.Second

// Options configures a Scheduler.
type Options struct {
	// Lead is how long before a session starts its reminder fires.
	Lead time.Duration
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
	// KeepAlive keeps Run waiting when the live set is empty, for callers
	// that add jobs later (periodic refresh).
	KeepAlive bool
}

// Stats is a point-in-time view of the scheduler for status reporting.
type Stats struct {
	Lead       time.Duration `json:"lead_ns"`
	Pending    int           `json:"pending"`
	Fired      int           `json:"fired"`
	Failed     int           `json:"failed_deliveries"`
	Passes     int           `json:"passes"`
	LastPass   *PassResult   `json:"last_pass,omitempty"`
	NextFireAt *time.Time    `json:"next_fire_at,omitempty"`
}

// Scheduler owns the live job set. All methods are safe for concurrent use;
// jobs are delivered from the single goroutine running Run.
type Scheduler struct {
	mu    sync.Mutex
	jobs  map[race.SessionID]*Job
	queue jobHeap

	lead      time.Duration
	now       func() time.Time
	keepAlive bool

	resolver *race.Resolver
	composer Composer
	sink     Sink
	logger   *slog.Logger

	wakeCh chan struct{}

	fired    int
	failed   int
	passes   int
	lastPass *PassResult
}

// New creates a Scheduler. A negative lead is treated as zero.
func New(opts Options, composer Composer, sink Sink, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Lead < 0 {
		opts.Lead = 0
	}
	s := &Scheduler{
		jobs:      make(map[race.SessionID]*Job),
		lead:      opts.Lead,
		now:       opts.Now,
		keepAlive: opts.KeepAlive,
		resolver:  race.NewResolver(logger),
		composer:  composer,
		sink:      sink,
		logger:    logger,
		wakeCh:    make(chan struct{}, 1),
	}
	heap.Init(&s.queue)
	return s
}

// Lead returns the configured lead time.
func (s *Scheduler) Lead() time.Duration {
	return s.lead
}

// Evaluate decides whether a session needs a reminder and registers,
// replaces or drops its job accordingly. The returned error is only set for
// OutcomeFailed; every other outcome is a normal branch.
func (s *Scheduler) Evaluate(ctx context.Context, w race.Weekend, ev race.EventType) (Outcome, error) {
	// 1. Resolve start instant
	inst, ok := s.resolver.Resolve(w, ev)
	if !ok {
		return OutcomeUnavailable, nil
	}
	id := w.ID(ev)

	// 2. Fire instant must be strictly in the future
	fireAt := inst.At.Add(-s.lead)
	if !fireAt.After(s.now()) {
		if s.dropPending(id) {
			s.logger.Info("Dropped reminder, fire time has passed",
				"id", id.String(), "fire_at", fireAt)
		}
		return OutcomePast, nil
	}

	// 3. Build the payload now; it is delivered as-is later
	payload, err := s.composer.Compose(ctx, w, ev, inst)
	if err != nil {
		return OutcomeFailed, err
	}

	// 4. Register or replace
	job := &Job{
		ID:       id,
		RaceName: w.RaceName,
		StartAt:  inst.At,
		FireAt:   fireAt,
		Payload:  payload,
	}
	replaced := s.upsert(job)
	s.Wake()

	s.logger.Info("Scheduled reminder",
		"race", w.RaceName, "event", ev.Key(), "fire_at", fireAt, "replaced", replaced)
	if replaced {
		return OutcomeReplaced, nil
	}
	return OutcomeScheduled, nil
}

// RunPass evaluates every event type of every weekend. A failing session is
// logged and recorded, and the pass moves on.
func (s *Scheduler) RunPass(ctx context.Context, weekends []race.Weekend) PassResult {
	result := PassResult{StartedAt: s.now(), Weekends: len(weekends)}
	start := time.Now()

	for _, w := range weekends {
		if ctx.Err() != nil {
			result.AddErrorf("pass interrupted: %v", ctx.Err())
			break
		}
		for _, ev := range race.EventTypes() {
			outcome, err := s.Evaluate(ctx, w, ev)
			result.Record(outcome)
			if err != nil {
				s.logger.Warn("Failed to schedule reminder",
					"race", w.RaceName, "event", ev.Key(), "error", err)
				result.AddErrorf("%s: %v", w.ID(ev), err)
			}
		}
	}

	result.Pending = s.Len()
	result.Duration = time.Since(start)

	s.mu.Lock()
	s.passes++
	last := result
	s.lastPass = &last
	s.mu.Unlock()

	s.logger.Info("Scheduling pass complete", "summary", result.Summary())
	return result
}

// Run delivers jobs as they fall due. It returns nil when ctx is cancelled,
// or when the live set is empty and KeepAlive is off.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		for {
			job, ok := s.popDue()
			if !ok {
				break
			}
			s.fire(ctx, job)
		}

		next, ok := s.nextFireAt()
		if !ok && !s.keepAlive {
			s.logger.Info("No pending reminders, scheduler exiting")
			return nil
		}

		delay := maxSleepCap
		if ok {
			if d := next.Sub(s.now()); d < delay {
				delay = d
			}
			if delay < 0 {
				delay = 0
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler stopped", "pending", s.Len())
			return nil
		case <-s.wakeCh:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Wake interrupts Run's sleep so it re-reads the earliest fire instant.
func (s *Scheduler) Wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// Len returns the number of live jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Job returns a copy of the live job for a session.
func (s *Scheduler) Job(id race.SessionID) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs returns copies of all live jobs ordered by fire instant.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	out := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}

// Stats returns counters and the last pass result.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Lead:    s.lead,
		Pending: len(s.jobs),
		Fired:   s.fired,
		Failed:  s.failed,
		Passes:  s.passes,
	}
	if s.lastPass != nil {
		last := *s.lastPass
		st.LastPass = &last
	}
	if job, ok := s.queue.peek(); ok {
		at := job.FireAt
		st.NextFireAt = &at
	}
	return st
}

// --------------------------------------------------------------------------
// Live set
// --------------------------------------------------------------------------

func (s *Scheduler) upsert(job *Job) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.jobs[job.ID]; ok {
		existing.RaceName = job.RaceName
		existing.StartAt = job.StartAt
		existing.FireAt = job.FireAt
		existing.Payload = job.Payload
		heapFix(&s.queue, existing)
		return true
	}
	s.jobs[job.ID] = job
	heapPush(&s.queue, job)
	return false
}

// dropPending removes the session's job only while its stored fire instant
// is still ahead. A job that is already due belongs to Run, which may be
// busy delivering an earlier one.
func (s *Scheduler) dropPending(id race.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || !job.FireAt.After(s.now()) {
		return false
	}
	delete(s.jobs, id)
	heapRemove(&s.queue, job)
	return true
}

// popDue removes and returns the earliest job if it is due.
func (s *Scheduler) popDue() (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.queue.peek()
	if !ok || job.FireAt.After(s.now()) {
		return nil, false
	}
	heapPop(&s.queue)
	delete(s.jobs, job.ID)
	return job, true
}

func (s *Scheduler) nextFireAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.queue.peek()
	if !ok {
		return time.Time{}, false
	}
	return job.FireAt, true
}

func (s *Scheduler) fire(ctx context.Context, job *Job) {
	s.logger.Info("Sending reminder",
		"id", job.ID.String(), "race", job.RaceName, "fire_at", job.FireAt)

	err := s.sink.Send(ctx, job.Payload)

	s.mu.Lock()
	if err != nil {
		s.failed++
	} else {
		s.fired++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Reminder delivery failed", "id", job.ID.String(), "error", err)
	}
}
