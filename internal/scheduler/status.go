package scheduler

import (
	"slices"
	"time"

	"github.com/albapepper/fpl-notifier/internal/deadline"
)

// Delivery is the last reminder that was accepted by the sink.
type Delivery struct {
	Deadline deadline.Deadline `json:"deadline"`
	SentAt   time.Time         `json:"sent_at"`
}

// Status is a point-in-time view of the scheduler, safe to read while a
// step is running.
type Status struct {
	LeadTime     time.Duration `json:"-"`
	PollInterval time.Duration `json:"-"`
	LastStep     time.Time     `json:"last_step"`
	NextStep     time.Time     `json:"next_step"`
	Sent         []SentRecord  `json:"sent"`
	LastDelivery *Delivery     `json:"last_delivery,omitempty"`
}

// Status returns the snapshot published by the most recent step.
func (s *Service) Status() Status {
	s.smu.RLock()
	defer s.smu.RUnlock()
	st := s.status
	st.Sent = slices.Clone(s.status.Sent)
	if s.status.LastDelivery != nil {
		d := *s.status.LastDelivery
		st.LastDelivery = &d
	}
	return st
}

// publish refreshes the snapshot; callers hold s.mu.
func (s *Service) publish(now time.Time, wait time.Duration) {
	sent := s.sent.snapshot()
	s.smu.Lock()
	s.status.LastStep = now
	s.status.NextStep = now.Add(wait)
	s.status.Sent = sent
	s.smu.Unlock()
}
