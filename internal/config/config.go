// Package config provides centralized configuration loaded from environment
// variables, with command-line flags layered on top by cmd/notifier.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/fpl-notifier/internal/notifications"
	"github.com/albapepper/fpl-notifier/internal/provider/fpl"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultLeadHours   = 2.0
	DefaultPollMinutes = 30.0
	DefaultTimezone    = "UTC"
)

// --------------------------------------------------------------------------
// Config is populated from environment variables, then overridden by flags.
// --------------------------------------------------------------------------

type Config struct {
	// Secrets (required)
	PushoverToken   string
	PushoverUserKey string

	// Scheduling
	LeadHours   float64
	PollMinutes float64

	// Display
	Timezone string
	Location *time.Location // resolved by Validate

	// Pushover overrides
	Sound    string
	Device   string
	Priority *int

	// Endpoints
	FPLAPIURL      string
	PushoverAPIURL string
	HTTPTimeout    time.Duration

	// Status API (empty address = disabled)
	StatusAddr        string
	CORSAllowOrigins  []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Process
	Verbose  bool
	SendTest bool
}

// Load reads configuration from environment variables with sensible
// defaults. It never fails; call Validate once flags have been applied.
func Load() *Config {
	return &Config{
		PushoverToken:   envOr("PUSHOVER_TOKEN", ""),
		PushoverUserKey: envOr("PUSHOVER_USER_KEY", ""),

		LeadHours:   envFloat("FPL_LEAD_HOURS", DefaultLeadHours),
		PollMinutes: envFloat("FPL_POLL_MINUTES", DefaultPollMinutes),
		Timezone:    envOr("FPL_TIMEZONE", DefaultTimezone),

		Sound:    envOr("PUSHOVER_SOUND", ""),
		Device:   envOr("PUSHOVER_DEVICE", ""),
		Priority: envIntPtr("PUSHOVER_PRIORITY"),

		FPLAPIURL:      envOr("FPL_API_URL", fpl.DefaultURL),
		PushoverAPIURL: envOr("PUSHOVER_API_URL", notifications.DefaultAPIURL),
		HTTPTimeout:    time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,

		StatusAddr:        envOr("STATUS_ADDR", ""),
		CORSAllowOrigins:  envList("CORS_ALLOW_ORIGINS", []string{"*"}),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		Verbose: envBool("FPL_VERBOSE", false),
	}
}

// Validate checks secrets, durations and the display timezone, and resolves
// Location. Every failure wraps ErrInvalid.
func (c *Config) Validate() error {
	if c.PushoverToken == "" || c.PushoverUserKey == "" {
		return fmt.Errorf("%w: PUSHOVER_TOKEN and PUSHOVER_USER_KEY environment variables are required", ErrInvalid)
	}
	if !durationInRange(c.LeadHours, time.Hour) || c.LeadTime() <= 0 {
		return fmt.Errorf("%w: lead time must be positive, got %v hours", ErrInvalid, c.LeadHours)
	}
	if !durationInRange(c.PollMinutes, time.Minute) || c.PollInterval() <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %v minutes", ErrInvalid, c.PollMinutes)
	}
	if c.Priority != nil && (*c.Priority < notifications.MinPriority || *c.Priority > notifications.MaxPriority) {
		return fmt.Errorf("%w: priority must be between %d and %d, got %d",
			ErrInvalid, notifications.MinPriority, notifications.MaxPriority, *c.Priority)
	}
	if c.Timezone == "" {
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalid)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: invalid timezone %q: %v", ErrInvalid, c.Timezone, err)
	}
	c.Location = loc
	return nil
}

// LeadTime returns LeadHours as a duration.
func (c *Config) LeadTime() time.Duration {
	return time.Duration(c.LeadHours * float64(time.Hour))
}

// PollInterval returns PollMinutes as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollMinutes * float64(time.Minute))
}

// durationInRange reports whether v units fit in a time.Duration.
func durationInRange(v float64, unit time.Duration) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) < math.MaxInt64/float64(unit)
}

// StatusEnabled reports whether the status API should be served.
func (c *Config) StatusEnabled() bool {
	return c.StatusAddr != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envIntPtr(key string) *int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return &n
		}
	}
	return nil
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
