// @title FPL Deadline Notifier Status API
// @version 1.0.0
// @description Read-only view of the deadline scheduler: timing configuration, sent-notification record and last delivery.
// @BasePath /
// @schemes http
// @license.name MIT

//go:generate swag init -g main.go -d .,../../internal/api/handler,../../internal/scheduler,../../internal/deadline -o ../../internal/api/docs --outputTypes go

// Command notifier sends a push notification before each Fantasy Premier
// League gameweek deadline.
//
// Usage:
//
//	fpl-notifier
//	fpl-notifier --lead-hours 3 --poll-minutes 15 --timezone Europe/London
//	fpl-notifier --send-test
//	STATUS_ADDR=:8080 fpl-notifier
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/fpl-notifier/internal/api"
	"github.com/albapepper/fpl-notifier/internal/config"
	"github.com/albapepper/fpl-notifier/internal/notifications"
	"github.com/albapepper/fpl-notifier/internal/provider/fpl"
	"github.com/albapepper/fpl-notifier/internal/scheduler"
)

// fplRequestsPerMinute paces calls to the public FPL API.
const fplRequestsPerMinute = 30

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd(config.Load(), run).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// rootCmd binds flags onto cfg; runFn receives cfg once flags are parsed.
func rootCmd(cfg *config.Config, runFn func(context.Context, *config.Config) error) *cobra.Command {
	var priority int
	cmd := &cobra.Command{
		Use:          "fpl-notifier",
		Short:        "Send push notifications before FPL deadlines",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("priority") {
				cfg.Priority = &priority
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&cfg.LeadHours, "lead-hours", cfg.LeadHours, "How many hours before the deadline to notify")
	f.Float64Var(&cfg.PollMinutes, "poll-minutes", cfg.PollMinutes, "How frequently to refresh the FPL API while waiting for the next deadline")
	f.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "Timezone name (IANA) used when displaying the deadline time in the notification")
	f.StringVar(&cfg.Sound, "sound", cfg.Sound, "Optional Pushover notification sound")
	f.StringVar(&cfg.Device, "device", cfg.Device, "Optional Pushover device name")
	f.IntVar(&priority, "priority", 0, "Optional Pushover priority override (-2..2)")
	f.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	f.BoolVar(&cfg.SendTest, "send-test", false, "Send a test notification immediately and exit")
	f.StringVar(&cfg.StatusAddr, "status-addr", cfg.StatusAddr, "Serve the status API on this address (empty = disabled)")
	return cmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func run(parent context.Context, cfg *config.Config) error {
	logger := newLogger(cfg.Verbose)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := fpl.NewClient(cfg.FPLAPIURL, cfg.HTTPTimeout, fplRequestsPerMinute, logger)
	sender, err := notifications.NewPushoverSender(notifications.PushoverConfig{
		Token:    cfg.PushoverToken,
		UserKey:  cfg.PushoverUserKey,
		APIURL:   cfg.PushoverAPIURL,
		Location: cfg.Location,
		Sound:    cfg.Sound,
		Device:   cfg.Device,
		Priority: cfg.Priority,
		Timeout:  cfg.HTTPTimeout,
	}, logger)
	if err != nil {
		logger.Error("Failed to create notifier", "error", err)
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	if cfg.SendTest {
		return sendTest(ctx, cfg, source, sender, logger)
	}

	svc, err := scheduler.New(scheduler.Config{
		LeadTime:     cfg.LeadTime(),
		PollInterval: cfg.PollInterval(),
	}, source, sender, logger)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		return err
	}

	serveErr := make(chan error, 1)
	if cfg.StatusEnabled() {
		srv := &http.Server{
			Addr:         cfg.StatusAddr,
			Handler:      api.NewRouter(svc, cfg),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("Starting status API", "addr", cfg.StatusAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status API failed", "error", err)
				serveErr <- err
				cancel()
			}
		}()
		defer func() {
			// Graceful shutdown with timeout
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", "error", err)
			}
			logger.Info("Status API stopped")
		}()
	}

	if err := svc.Run(ctx); err != nil {
		return err
	}
	select {
	case err := <-serveErr:
		return fmt.Errorf("status API: %w", err)
	default:
		return nil
	}
}

// sendTest notifies about the next deadline right away, bypassing the
// scheduler and its sent record.
func sendTest(ctx context.Context, cfg *config.Config, source *fpl.Client, sender *notifications.PushoverSender, logger *slog.Logger) error {
	upcoming, err := source.Next(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to fetch deadlines", "error", err)
		return fmt.Errorf("fetch deadlines: %w", err)
	}
	if upcoming == nil {
		logger.Error("No upcoming deadlines found")
		return errors.New("no upcoming deadlines found")
	}
	if err := sender.Send(ctx, *upcoming, cfg.LeadTime()); err != nil {
		return fmt.Errorf("send test notification: %w", err)
	}
	logger.Info("Test notification sent", "event_id", upcoming.ID, "name", upcoming.Name)
	return nil
}
