package scheduler

import (
	"cmp"
	"slices"
	"time"
)

// SentRecord is one entry of the sent-notification record.
type SentRecord struct {
	EventID  int       `json:"event_id"`
	Deadline time.Time `json:"deadline"`
}

// record maps event ids to the deadline they were notified for. Entries
// expire once now reaches deadline+grace. Not safe for concurrent use; the
// Service guards it.
type record struct {
	entries map[int]time.Time
	grace   time.Duration
}

func newRecord(grace time.Duration) *record {
	return &record{
		entries: make(map[int]time.Time),
		grace:   grace,
	}
}

func (r *record) has(id int) bool {
	_, ok := r.entries[id]
	return ok
}

func (r *record) add(id int, deadline time.Time) {
	r.entries[id] = deadline.UTC()
}

// prune removes every entry whose deadline+grace is at or before now and
// returns the removed ids.
func (r *record) prune(now time.Time) []int {
	var removed []int
	for id, deadline := range r.entries {
		if !now.Before(deadline.Add(r.grace)) {
			delete(r.entries, id)
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)
	return removed
}

// snapshot returns the entries sorted by deadline, then id.
func (r *record) snapshot() []SentRecord {
	out := make([]SentRecord, 0, len(r.entries))
	for id, deadline := range r.entries {
		out = append(out, SentRecord{EventID: id, Deadline: deadline})
	}
	slices.SortFunc(out, func(a, b SentRecord) int {
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}
		return cmp.Compare(a.EventID, b.EventID)
	})
	return out
}
