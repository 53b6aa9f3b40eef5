// Package reminder wires the schedule feed, composer, sink and scheduler
// into the bot's run modes: the scheduling loop (with optional periodic
// refresh) and the on-demand next/previous test notifications.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fenneh/discord-f1-reminder/internal/notifications"
	"github.com/fenneh/discord-f1-reminder/internal/provider"
	"github.com/fenneh/discord-f1-reminder/internal/race"
	"github.com/fenneh/discord-f1-reminder/internal/scheduler"
)

// ErrNoEvent is returned by the probes when no session matches.
var ErrNoEvent = errors.New("no matching session")

// ScheduleSource fetches the season's weekends.
type ScheduleSource interface {
	FetchSchedule(ctx context.Context) ([]race.Weekend, error)
}

// Options configures a Service.
type Options struct {
	// RefreshCron is a standard 5-field cron spec. Empty runs a single
	// pass. The scheduler should be created with KeepAlive when set.
	RefreshCron string
	// Now overrides the clock used by the probes.
	Now func() time.Time
}

// Service runs scheduling passes and test notifications.
type Service struct {
	schedule ScheduleSource
	sched    *scheduler.Scheduler
	composer scheduler.Composer
	sink     scheduler.Sink
	opts     Options
	logger   *slog.Logger
}

// New creates a Service.
func New(schedule ScheduleSource, sched *scheduler.Scheduler, composer scheduler.Composer, sink scheduler.Sink, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		schedule: schedule,
		sched:    sched,
		composer: composer,
		sink:     sink,
		opts:     opts,
		logger:   logger,
	}
}

// SchedulePass fetches the schedule and evaluates every session.
func (s *Service) SchedulePass(ctx context.Context) (scheduler.PassResult, error) {
	weekends, err := s.fetch(ctx)
	if err != nil {
		return scheduler.PassResult{}, err
	}
	return s.sched.RunPass(ctx, weekends), nil
}

// Run performs the initial pass, starts the refresh schedule if configured,
// and blocks delivering reminders until ctx is cancelled or, without
// refresh, until nothing is left to send.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.SchedulePass(ctx); err != nil && s.opts.RefreshCron == "" {
		s.logger.Error("Could not fetch schedule, nothing to schedule", "error", err)
		return nil
	}

	if s.opts.RefreshCron != "" {
		c, err := s.startRefresh(ctx)
		if err != nil {
			return err
		}
		defer func() {
			<-c.Stop().Done()
		}()
	}

	if s.sched.Len() == 0 && s.opts.RefreshCron == "" {
		s.logger.Info("No future sessions found to schedule")
		return nil
	}
	s.logger.Info("Starting scheduler", "pending", s.sched.Len(), "lead", s.sched.Lead())
	return s.sched.Run(ctx)
}

func (s *Service) startRefresh(ctx context.Context) (*cron.Cron, error) {
	log := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	_, err := c.AddFunc(s.opts.RefreshCron, func() {
		if _, err := s.SchedulePass(ctx); err != nil {
			s.logger.Warn("Schedule refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", s.opts.RefreshCron, err)
	}
	c.Start()
	s.logger.Info("Schedule refresh enabled", "cron", s.opts.RefreshCron)
	return c, nil
}

// ProbeNext sends a test notification for the next upcoming session.
func (s *Service) ProbeNext(ctx context.Context) (Selection, error) {
	weekends, err := s.fetch(ctx)
	if err != nil {
		return Selection{}, err
	}
	sel, ok := FindNext(weekends, s.opts.Now())
	if !ok {
		return Selection{}, fmt.Errorf("no upcoming session in schedule: %w", ErrNoEvent)
	}
	s.logger.Info("Next session found",
		"race", sel.Weekend.RaceName, "event", sel.Event.Key(), "start", sel.Instant.At)

	p, err := s.composer.Compose(ctx, sel.Weekend, sel.Event, sel.Instant)
	if err != nil {
		return sel, fmt.Errorf("compose: %w", err)
	}
	notifications.MarkTest(&p, sel.Weekend, sel.Event)
	return sel, s.sink.Send(ctx, p)
}

// ProbePrevious sends a test notification for the most recent past session
// of the latest season in the schedule.
func (s *Service) ProbePrevious(ctx context.Context) (Selection, error) {
	weekends, err := s.fetch(ctx)
	if err != nil {
		return Selection{}, err
	}
	sel, ok := FindPrevious(weekends, s.opts.Now())
	if !ok {
		return Selection{}, fmt.Errorf("no past session in latest season: %w", ErrNoEvent)
	}
	s.logger.Info("Most recent past session found",
		"race", sel.Weekend.RaceName, "event", sel.Event.Key(), "start", sel.Instant.At)

	p, err := s.composer.Compose(ctx, sel.Weekend, sel.Event, sel.Instant)
	if err != nil {
		return sel, fmt.Errorf("compose: %w", err)
	}
	notifications.MarkPrevious(&p, sel.Weekend, sel.Event, sel.Instant)
	return sel, s.sink.Send(ctx, p)
}

// Weekends fetches the current schedule.
func (s *Service) Weekends(ctx context.Context) ([]race.Weekend, error) {
	return s.fetch(ctx)
}

func (s *Service) fetch(ctx context.Context) ([]race.Weekend, error) {
	weekends, err := s.schedule.FetchSchedule(ctx)
	if err != nil {
		if provider.IsUnavailable(err) {
			s.logger.Info("Schedule unavailable", "error", err)
		} else {
			s.logger.Error("Schedule fetch failed", "error", err)
		}
		return nil, fmt.Errorf("schedule unavailable: %w", err)
	}
	return weekends, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
