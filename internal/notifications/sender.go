package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/fpl-notifier/internal/deadline"
)

// PushoverConfig holds the Pushover credentials and optional overrides.
type PushoverConfig struct {
	Token    string
	UserKey  string
	APIURL   string         // empty = DefaultAPIURL
	Subject  string         // empty = DefaultSubject
	Location *time.Location // display zone; nil = UTC
	Sound    string
	Device   string
	Priority *int
	Timeout  time.Duration
}

// PushoverSender sends deadline reminders via Pushover.
type PushoverSender struct {
	cfg        PushoverConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewPushoverSender creates a sender. Token and user key are required.
func NewPushoverSender(cfg PushoverConfig, logger *slog.Logger) (*PushoverSender, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("pushover token is required")
	}
	if cfg.UserKey == "" {
		return nil, fmt.Errorf("pushover user key is required")
	}
	if cfg.Priority != nil && (*cfg.Priority < MinPriority || *cfg.Priority > MaxPriority) {
		return nil, fmt.Errorf("pushover priority %d out of range [%d, %d]", *cfg.Priority, MinPriority, MaxPriority)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &PushoverSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerS), 1),
		logger:     logger,
	}, nil
}

// Title returns the notification title for a lead time.
func (s *PushoverSender) Title(leadTime time.Duration) string {
	return fmt.Sprintf("%s deadline in %s", s.cfg.Subject, FormatDuration(leadTime))
}

// Message returns the notification body for a deadline.
func (s *PushoverSender) Message(d deadline.Deadline) string {
	return fmt.Sprintf("%s (%d) deadline at %s", d.Name, d.ID, d.Format(s.cfg.Location))
}

// Payload builds the form fields posted to Pushover.
func (s *PushoverSender) Payload(d deadline.Deadline, leadTime time.Duration) url.Values {
	form := url.Values{}
	form.Set("token", s.cfg.Token)
	form.Set("user", s.cfg.UserKey)
	form.Set("title", s.Title(leadTime))
	form.Set("message", s.Message(d))
	if s.cfg.Sound != "" {
		form.Set("sound", s.cfg.Sound)
	}
	if s.cfg.Device != "" {
		form.Set("device", s.cfg.Device)
	}
	if s.cfg.Priority != nil {
		form.Set("priority", strconv.Itoa(*s.cfg.Priority))
	}
	return form
}

// Send delivers one notification for d. Any transport failure or non-2xx
// response is returned as an error.
func (s *PushoverSender) Send(ctx context.Context, d deadline.Deadline, leadTime time.Duration) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	form := s.Payload(d, leadTime)
	s.logger.Info("Sending push notification", "event_id", d.ID, "name", d.Name, "deadline", d.Time)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Failed to contact Pushover", "error", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error("Pushover rejected the request", "status", resp.StatusCode, "body", truncate(body, 200))
		return fmt.Errorf("Pushover returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	s.logger.Debug("Notification accepted", "status", resp.StatusCode, "body", truncate(body, 200))
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
