package scheduler

// notified reports whether id is currently in the sent record.
func (s *Service) notified(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent.has(id)
}

func (r *record) len() int { return len(r.entries) }
