package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/albapepper/fpl-notifier/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		PushoverToken:   "token",
		PushoverUserKey: "user",
		LeadHours:       2,
		PollMinutes:     30,
		Timezone:        "Europe/London",
		HTTPTimeout:     time.Second,
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := baseConfig()
	var got *config.Config
	cmd := rootCmd(cfg, func(_ context.Context, c *config.Config) error {
		got = c
		return nil
	})
	cmd.SetArgs([]string{
		"--lead-hours", "3", "--poll-minutes", "15", "--timezone", "Asia/Tokyo",
		"--sound", "siren", "--device", "phone", "--priority=-1", "--verbose",
	})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != cfg {
		t.Fatal("run function did not receive the bound config")
	}
	if cfg.LeadTime() != 3*time.Hour || cfg.PollInterval() != 15*time.Minute {
		t.Errorf("durations = %s/%s", cfg.LeadTime(), cfg.PollInterval())
	}
	if cfg.Timezone != "Asia/Tokyo" || cfg.Sound != "siren" || cfg.Device != "phone" || !cfg.Verbose {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Priority == nil || *cfg.Priority != -1 {
		t.Errorf("Priority = %v, want -1", cfg.Priority)
	}
}

func TestPriorityUnsetWithoutFlag(t *testing.T) {
	cfg := baseConfig()
	cmd := rootCmd(cfg, func(context.Context, *config.Config) error { return nil })
	cmd.SetArgs([]string{"--send-test"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if cfg.Priority != nil || !cfg.SendTest {
		t.Errorf("Priority = %v SendTest = %v", cfg.Priority, cfg.SendTest)
	}
}

func TestRunRejectsMissingSecrets(t *testing.T) {
	cfg := baseConfig()
	cfg.PushoverToken = ""
	cfg.FPLAPIURL = "http://127.0.0.1:1/unreachable"

	err := run(context.Background(), cfg)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("run = %v, want ErrInvalid", err)
	}
}

func TestRunRejectsUnknownTimezone(t *testing.T) {
	cfg := baseConfig()
	cfg.Timezone = "Nowhere/Special"

	if err := run(context.Background(), cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("run = %v, want ErrInvalid", err)
	}
}

func TestSendTestPath(t *testing.T) {
	future := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	fplSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"events":[{"id":12,"name":"Gameweek 12","deadline_time":"`+future+`"}]}`)
	}))
	defer fplSrv.Close()

	var mu sync.Mutex
	var posted url.Values
	pushSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		posted, _ = url.ParseQuery(string(raw))
		mu.Unlock()
		io.WriteString(w, `{"status":1}`)
	}))
	defer pushSrv.Close()

	cfg := baseConfig()
	cfg.SendTest = true
	cfg.FPLAPIURL = fplSrv.URL
	cfg.PushoverAPIURL = pushSrv.URL

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if posted.Get("title") != "FPL deadline in 2 hours" {
		t.Errorf("title = %q", posted.Get("title"))
	}
	if posted.Get("user") != "user" {
		t.Errorf("user = %q", posted.Get("user"))
	}
}

func TestSendTestNoDeadlines(t *testing.T) {
	fplSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"events":[]}`)
	}))
	defer fplSrv.Close()

	cfg := baseConfig()
	cfg.SendTest = true
	cfg.FPLAPIURL = fplSrv.URL
	cfg.PushoverAPIURL = "http://127.0.0.1:1/unused"

	if err := run(context.Background(), cfg); err == nil {
		t.Fatal("expected error when no deadlines are upcoming")
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	fplSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"events":[]}`)
	}))
	defer fplSrv.Close()

	cfg := baseConfig()
	cfg.FPLAPIURL = fplSrv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestRunFailsWhenStatusAddrInUse(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	fplSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"events":[]}`)
	}))
	defer fplSrv.Close()

	cfg := baseConfig()
	cfg.FPLAPIURL = fplSrv.URL
	cfg.StatusAddr = busy.Addr().String()

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg) }()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "status API") {
			t.Errorf("run = %v, want status API error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after the status API failed to bind")
	}
}
