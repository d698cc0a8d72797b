// Package notifications renders deadline reminders and delivers them as
// push notifications through the Pushover messages API.
//
// Pipeline: deadline + lead time → title/message → form payload → POST.
// Transport failures surface synchronously to the caller; retrying is the
// scheduler's job.
package notifications

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// DefaultAPIURL is the Pushover messages endpoint.
	DefaultAPIURL = "https://api.pushover.net/1/messages.json"

	// DefaultSubject prefixes the notification title.
	DefaultSubject = "FPL"

	defaultTimeout      = 10 * time.Second
	defaultRequestsPerS = 2

	// Pushover accepts priorities from -2 (lowest) to 2 (emergency).
	MinPriority = -2
	MaxPriority = 2
)

// --------------------------------------------------------------------------
// Duration formatting
// --------------------------------------------------------------------------

// FormatDuration renders d in whole seconds as e.g. "45 seconds",
// "1 minute and 30 seconds" or "2 hours and 15 minutes". Seconds are dropped
// once the duration reaches an hour.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 60 {
		return fmt.Sprintf("%d seconds", total)
	}

	minutes, seconds := total/60, total%60
	hours, minutes := minutes/60, minutes%60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 && hours == 0 {
		parts = append(parts, plural(seconds, "second"))
	}
	return strings.Join(parts, " and ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
