// Package fpl provides the HTTP client for the Fantasy Premier League
// bootstrap-static endpoint.
//
// The endpoint is public (no auth). Requests are paced through a token
// bucket limiter so a tight scheduling loop cannot hammer the API.
package fpl

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/fpl-notifier/internal/deadline"
)

// DefaultURL is the public FPL bootstrap endpoint.
const DefaultURL = "https://fantasy.premierleague.com/api/bootstrap-static/"

const userAgent = "fpl-notifier/1.0"

// Client fetches upcoming gameweek deadlines.
type Client struct {
	httpClient *http.Client
	url        string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an FPL client with rate limiting. An empty url uses
// DefaultURL; a non-positive requestsPerMinute disables pacing.
func NewClient(url string, timeout time.Duration, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// bootstrapResponse is the subset of bootstrap-static we read. Events are
// decoded one by one so a single bad entry does not fail the batch.
type bootstrapResponse struct {
	Events []json.RawMessage `json:"events"`
}

type event struct {
	ID           *int    `json:"id"`
	Name         string  `json:"name"`
	DeadlineTime *string `json:"deadline_time"`
}

// Fetch returns deadlines strictly after now, sorted ascending. Malformed
// events are skipped and logged.
func (c *Client) Fetch(ctx context.Context, now time.Time) ([]deadline.Deadline, error) {
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}

	var payload bootstrapResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	deadlines := make([]deadline.Deadline, 0, len(payload.Events))
	for i, raw := range payload.Events {
		d, err := parseEvent(raw)
		if err != nil {
			c.logger.Warn("Skipping event with invalid deadline", "index", i, "error", err)
			continue
		}
		// Past deadlines include the gameweek currently in progress.
		if !d.Time.After(now) {
			continue
		}
		deadlines = append(deadlines, d)
	}

	slices.SortStableFunc(deadlines, func(a, b deadline.Deadline) int {
		return cmp.Compare(a.Time.UnixNano(), b.Time.UnixNano())
	})
	c.logger.Debug("Fetched deadlines", "upcoming", len(deadlines), "events", len(payload.Events))
	return deadlines, nil
}

// Next returns the first upcoming deadline, or nil if there is none.
func (c *Client) Next(ctx context.Context, now time.Time) (*deadline.Deadline, error) {
	deadlines, err := c.Fetch(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(deadlines) == 0 {
		return nil, nil
	}
	return &deadlines[0], nil
}

func parseEvent(raw json.RawMessage) (deadline.Deadline, error) {
	var e event
	if err := json.Unmarshal(raw, &e); err != nil {
		return deadline.Deadline{}, fmt.Errorf("decode event: %w", err)
	}
	if e.ID == nil {
		return deadline.Deadline{}, fmt.Errorf("missing id")
	}
	if *e.ID <= 0 {
		return deadline.Deadline{}, fmt.Errorf("invalid id %d", *e.ID)
	}
	if e.DeadlineTime == nil {
		return deadline.Deadline{}, fmt.Errorf("event %d: missing deadline_time", *e.ID)
	}
	t, err := deadline.ParseTime(*e.DeadlineTime)
	if err != nil {
		return deadline.Deadline{}, fmt.Errorf("event %d: %w", *e.ID, err)
	}
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("Gameweek %d", *e.ID)
	}
	return deadline.New(*e.ID, name, t), nil
}

// get performs a rate-limited GET against the bootstrap endpoint.
func (c *Client) get(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("Fetching FPL data", "url", c.url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FPL returned %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
