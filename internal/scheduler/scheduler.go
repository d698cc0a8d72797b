// Package scheduler decides when to remind about the next gameweek deadline.
//
// Each Step prunes the sent-notification record, fetches the schedule,
// notifies when the lead time has been reached and returns how long to wait
// before the next step. Run drives Step until its context is cancelled.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/fpl-notifier/internal/deadline"
)

// ErrInvalidConfig is wrapped by every configuration error returned by New.
var ErrInvalidConfig = errors.New("invalid scheduler config")

// Source returns upcoming deadlines after now, sorted ascending.
type Source interface {
	Fetch(ctx context.Context, now time.Time) ([]deadline.Deadline, error)
}

// Sink delivers one reminder for a deadline.
type Sink interface {
	Send(ctx context.Context, d deadline.Deadline, leadTime time.Duration) error
}

// Config controls the scheduler timing.
type Config struct {
	// LeadTime is how long before a deadline the reminder goes out.
	LeadTime time.Duration
	// PollInterval caps the wait between steps and is the grace period a
	// sent record outlives its deadline by.
	PollInterval time.Duration
}

// Validate reports whether both durations are strictly positive.
func (c Config) Validate() error {
	if c.LeadTime <= 0 {
		return fmt.Errorf("%w: lead time must be positive, got %s", ErrInvalidConfig, c.LeadTime)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidConfig, c.PollInterval)
	}
	return nil
}

// Service owns the sent-notification record. Steps are serialized: the
// prune, the decision and the insert of one step happen under a single lock.
type Service struct {
	cfg    Config
	source Source
	sink   Sink
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	sent *record

	smu    sync.RWMutex
	status Status
}

// New creates a scheduler. It fails with ErrInvalidConfig when a duration
// is not positive or a collaborator is missing.
func New(cfg Config, source Source, sink Sink, logger *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: deadline source is required", ErrInvalidConfig)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: notification sink is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		source: source,
		sink:   sink,
		logger: logger,
		now:    time.Now,
		sent:   newRecord(cfg.PollInterval),
		status: Status{
			LeadTime:     cfg.LeadTime,
			PollInterval: cfg.PollInterval,
			Sent:         []SentRecord{},
		},
	}, nil
}

// Step runs one scheduling step at now and returns the suggested wait
// before the next one. A zero now uses the system clock. Fetch and send
// failures are logged, never returned. The result is never negative.
func (s *Service) Step(ctx context.Context, now time.Time) time.Duration {
	if now.IsZero() {
		now = s.now()
	}
	now = now.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	wait := s.step(ctx, now)
	s.publish(now, wait)
	return wait
}

func (s *Service) step(ctx context.Context, now time.Time) time.Duration {
	poll := s.cfg.PollInterval
	s.logger.Debug("Scheduler step", "now", now)

	for _, id := range s.sent.prune(now) {
		s.logger.Debug("Removing expired notification record", "event_id", id)
	}

	deadlines, err := s.source.Fetch(ctx, now)
	if err != nil {
		s.logger.Error("Failed to fetch deadlines", "error", err)
		return poll
	}

	upcoming, ok := deadline.Earliest(deadlines)
	if !ok {
		s.logger.Info("No upcoming deadlines", "sleep", poll)
		return poll
	}

	if s.sent.has(upcoming.ID) {
		s.logger.Debug("Already notified", "event_id", upcoming.ID, "sleep", poll)
		return poll
	}

	notifyAt := upcoming.Time.Add(-s.cfg.LeadTime)
	if !notifyAt.After(now) {
		s.logger.Info("Within lead time, sending notification",
			"event_id", upcoming.ID, "name", upcoming.Name, "deadline", upcoming.Time)
		s.deliver(ctx, upcoming, now)
		return poll
	}

	wait := notifyAt.Sub(now)
	if wait > poll {
		s.logger.Debug("Notification not due yet",
			"event_id", upcoming.ID,
			"hours_away", fmt.Sprintf("%.2f", wait.Hours()),
			"sleep", poll)
		return poll
	}

	s.logger.Info("Scheduling notification",
		"event_id", upcoming.ID,
		"name", upcoming.Name,
		"minutes", fmt.Sprintf("%.1f", wait.Minutes()))
	return max(wait, 0)
}

// deliver sends the reminder and records it only on success, so a failed
// send is attempted again on the next step.
func (s *Service) deliver(ctx context.Context, d deadline.Deadline, now time.Time) {
	if err := s.sink.Send(ctx, d, s.cfg.LeadTime); err != nil {
		s.logger.Error("Failed to send notification", "event_id", d.ID, "error", err)
		return
	}
	s.sent.add(d.ID, d.Time)

	s.smu.Lock()
	s.status.LastDelivery = &Delivery{Deadline: d, SentAt: now}
	s.smu.Unlock()
}
