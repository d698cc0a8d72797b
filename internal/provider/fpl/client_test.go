package fpl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer serves body with status and counts requests.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFetchFiltersPastEvents(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"events":[
		{"id":1,"name":"Gameweek 1","deadline_time":"2024-08-10T10:00:00Z"},
		{"id":2,"name":"Gameweek 2","deadline_time":"2024-08-20T10:00:00Z"}
	]}`)
	c := NewClient(srv.URL, time.Second, 0, quietLogger())

	now := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	got, err := c.Fetch(context.Background(), now)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("Fetch = %v, want only GW 2", got)
	}
	want := time.Date(2024, 8, 20, 10, 0, 0, 0, time.UTC)
	if !got[0].Time.Equal(want) {
		t.Errorf("deadline = %s, want %s", got[0].Time, want)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchSkipsMalformedAndSorts(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"events":[
		{"id":4,"name":"Gameweek 4","deadline_time":"2024-09-14T10:00:00+00:00"},
		{"id":3,"name":"Gameweek 3","deadline_time":"2024-09-01T10:00:00Z"},
		{"id":5,"name":"Gameweek 5","deadline_time":"garbage"},
		{"id":6,"name":"Gameweek 6"},
		{"name":"No id","deadline_time":"2024-09-20T10:00:00Z"},
		{"id":"7","name":"String id","deadline_time":"2024-09-20T10:00:00Z"},
		{"id":0,"name":"Zero id","deadline_time":"2024-09-20T10:00:00Z"},
		{"id":8,"name":"Naive","deadline_time":"2024-09-20T10:00:00"},
		"not an object",
		{"id":9,"deadline_time":"2024-09-28T10:00:00Z"}
	]}`)
	c := NewClient(srv.URL, time.Second, 0, quietLogger())

	got, err := c.Fetch(context.Background(), time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	var ids []int
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 4 || ids[2] != 9 {
		t.Fatalf("ids = %v, want [3 4 9]", ids)
	}
	if got[2].Name != "Gameweek 9" {
		t.Errorf("fallback name = %q, want %q", got[2].Name, "Gameweek 9")
	}
}

func TestFetchMissingEvents(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"teams":[]}`)
	c := NewClient(srv.URL, time.Second, 0, quietLogger())

	got, err := c.Fetch(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Fetch = %v, want empty", got)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusServiceUnavailable, "down for maintenance", "FPL returned 503"},
		{"invalid json", http.StatusOK, "{not json", "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			c := NewClient(srv.URL, time.Second, 0, quietLogger())
			_, err := c.Fetch(context.Background(), time.Now())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestNext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"events":[
		{"id":1,"name":"Gameweek 1","deadline_time":"2024-08-10T10:00:00Z"},
		{"id":2,"name":"Gameweek 2","deadline_time":"2024-09-01T09:00:00Z"}
	]}`)
	c := NewClient(srv.URL, time.Second, 0, quietLogger())

	next, err := c.Next(context.Background(), time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next == nil || next.ID != 1 {
		t.Fatalf("Next = %v, want GW 1", next)
	}
}

func TestNextNoneUpcoming(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"events":[]}`)
	c := NewClient(srv.URL, time.Second, 0, quietLogger())

	next, err := c.Next(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next != nil {
		t.Errorf("Next = %v, want nil", next)
	}
}

func TestFetchHonoursContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"events":[]}`)
	c := NewClient(srv.URL, time.Second, 0, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, time.Now()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
