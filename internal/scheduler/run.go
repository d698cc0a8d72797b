package scheduler

import (
	"context"
	"time"
)

// Run calls Step, sleeps for the returned duration and repeats until ctx is
// cancelled. Cancellation is observed between steps, not inside one: each
// step runs on a context detached from ctx and is bounded by the client
// timeouts of its source and sink. Run returns nil once ctx is done.
func (s *Service) Run(ctx context.Context) error {
	stepCtx := context.WithoutCancel(ctx)
	s.logger.Info("Deadline notification service started",
		"lead_time", s.cfg.LeadTime, "poll_interval", s.cfg.PollInterval)

	for {
		if ctx.Err() != nil {
			s.logger.Info("Deadline notification service stopped")
			return nil
		}

		wait := s.Step(stepCtx, time.Time{})
		if wait <= 0 {
			continue
		}

		s.logger.Debug("Sleeping", "duration", wait)
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Deadline notification service stopped")
			return nil
		}
	}
}
