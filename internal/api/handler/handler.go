// Package handler provides HTTP handlers for the status API.
// Handlers only read scheduler snapshots; they never drive a step.
package handler

import (
	"net/http"
	"time"

	"github.com/albapepper/fpl-notifier/internal/api/respond"
	"github.com/albapepper/fpl-notifier/internal/notifications"
	"github.com/albapepper/fpl-notifier/internal/scheduler"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// StatusSource provides scheduler snapshots.
type StatusSource interface {
	Status() scheduler.Status
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	status  StatusSource
	started time.Time
	now     func() time.Time
}

// New creates a Handler backed by src.
func New(src StatusSource) *Handler {
	return &Handler{
		status:  src,
		started: time.Now().UTC(),
		now:     time.Now,
	}
}

// StatusResponse is the JSON body of GET /status.
type StatusResponse struct {
	LeadTimeSeconds     int64                  `json:"lead_time_seconds"`
	LeadTime            string                 `json:"lead_time"`
	PollIntervalSeconds int64                  `json:"poll_interval_seconds"`
	PollInterval        string                 `json:"poll_interval"`
	LastStep            *time.Time             `json:"last_step"`
	NextStep            *time.Time             `json:"next_step"`
	Sent                []scheduler.SentRecord `json:"sent"`
	LastDelivery        *scheduler.Delivery    `json:"last_delivery"`
	Timestamp           string                 `json:"timestamp"`
}

// Root serves service info at /.
// @Summary Service root info
// @Description Returns service name, version and uptime.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "FPL Deadline Notifier",
		"version": Version,
		"status":  "running",
		"docs":    "/docs/",
		"uptime":  h.now().Sub(h.started).Round(time.Second).String(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// GetStatus returns the scheduler snapshot.
// @Summary Scheduler status
// @Description Returns the timing configuration, last and next step, sent records and the last delivery.
// @Tags scheduler
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.status.Status()
	resp := StatusResponse{
		LeadTimeSeconds:     int64(st.LeadTime / time.Second),
		LeadTime:            notifications.FormatDuration(st.LeadTime),
		PollIntervalSeconds: int64(st.PollInterval / time.Second),
		PollInterval:        notifications.FormatDuration(st.PollInterval),
		LastStep:            optionalTime(st.LastStep),
		NextStep:            optionalTime(st.NextStep),
		Sent:                st.Sent,
		LastDelivery:        st.LastDelivery,
		Timestamp:           h.now().UTC().Format(time.RFC3339),
	}
	if resp.Sent == nil {
		resp.Sent = []scheduler.SentRecord{}
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
