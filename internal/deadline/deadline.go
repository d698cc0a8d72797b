// Package deadline defines the gameweek deadline value shared by the source,
// the scheduler and the notification sink.
//
// Instants are normalized to UTC on the way in and only converted to a
// display zone when a message is rendered.
package deadline

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the timestamp layout used in notification messages.
const DisplayLayout = "2006-01-02 15:04 MST"

// Deadline is an upcoming gameweek deadline.
type Deadline struct {
	ID   int       `json:"id"`
	Name string    `json:"name"`
	Time time.Time `json:"deadline"`
}

// New returns a Deadline with its instant normalized to UTC.
func New(id int, name string, t time.Time) Deadline {
	return Deadline{ID: id, Name: name, Time: t.UTC()}
}

// In returns the deadline instant in loc. A nil loc means UTC.
func (d Deadline) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return d.Time.In(loc)
}

// Format renders the deadline instant in loc using DisplayLayout.
func (d Deadline) Format(loc *time.Location) string {
	return d.In(loc).Format(DisplayLayout)
}

func (d Deadline) String() string {
	return fmt.Sprintf("%s (GW %d) @ %s", d.Name, d.ID, d.Time.Format(time.RFC3339))
}

// ParseTime parses an ISO-8601 deadline such as "2024-08-16T18:30:00Z" or
// "2024-08-16T19:30:00+01:00" into a UTC instant. A trailing "Z" is the same
// instant as "+00:00". Values without an explicit offset are rejected.
func ParseTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse deadline %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// Earliest returns the deadline with the smallest instant. ok is false when
// list is empty. Ties keep the first occurrence.
func Earliest(list []Deadline) (d Deadline, ok bool) {
	if len(list) == 0 {
		return Deadline{}, false
	}
	d = list[0]
	for _, c := range list[1:] {
		if c.Time.Before(d.Time) {
			d = c
		}
	}
	return d, true
}
