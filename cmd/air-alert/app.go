package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mr1hm/go-air-alerts/internal/audit"
	"github.com/mr1hm/go-air-alerts/internal/config"
	"github.com/mr1hm/go-air-alerts/internal/cycle"
	"github.com/mr1hm/go-air-alerts/internal/ingestion"
	"github.com/mr1hm/go-air-alerts/internal/logging"
	"github.com/mr1hm/go-air-alerts/internal/notifier"
	"github.com/mr1hm/go-air-alerts/internal/status"
)

const trackerCapacity = 100

type app struct {
	cfg     *config.Config
	runner  *cycle.Runner
	tracker *status.Tracker
	audit   *audit.Logger
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := openAuditStore(ctx, cfg.Audit)
	if err != nil {
		return nil, err
	}

	var provider notifier.Provider
	if cfg.Twilio.Configured() {
		provider = notifier.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
	} else {
		slog.Warn("Twilio credentials not set, messages will be logged instead of sent")
		provider = notifier.NewDryRunProvider()
	}

	dispatcher := notifier.NewDispatcher(provider, notifier.DispatcherOptions{
		FromNumber:    cfg.Notification.FromNumber,
		CountryCode:   cfg.Dispatch.DefaultCountryCode,
		Messages:      cfg.Notification.Messages,
		Scale:         cfg.Notification.Scale(),
		Workers:       cfg.Dispatch.Workers,
		RatePerSecond: cfg.Dispatch.RatePerSecond,
	})

	a := &app{
		cfg:     cfg,
		tracker: status.NewTracker(trackerCapacity),
		audit:   audit.NewLogger(store),
	}

	deps := cycle.Deps{
		Loader:     ingestion.NewLoader(cfg.Ingestion.RetryInterval),
		Dispatcher: dispatcher,
		Audit:      a.audit,
		Tracker:    a.tracker,
	}
	if sqlite, ok := store.(*audit.SQLiteStore); ok && cfg.Ingestion.HistoryFromAudit {
		deps.History = sqlite
	}
	a.runner = cycle.NewRunner(cfg, deps)

	slog.Info("notifier ready",
		"provider", provider.Name(), "audit_backend", store.Name(),
		"from", cfg.Notification.FromNumber,
		"window_start", cfg.Notification.StartHour, "window_end", cfg.Notification.EndHour)

	return a, nil
}

func openAuditStore(ctx context.Context, cfg config.AuditConfig) (audit.Store, error) {
	switch cfg.Backend {
	case config.AuditBackendSQLite:
		s, err := audit.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite audit store: %w", err)
		}
		return s, nil
	case config.AuditBackendRedis:
		s, err := audit.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis audit store: %w", err)
		}
		return s, nil
	default:
		s, err := audit.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening file audit store: %w", err)
		}
		return s, nil
	}
}

func (a *app) Close() {
	a.tracker.Close()
	if err := a.audit.Close(); err != nil {
		slog.Error("error closing audit store", "error", err)
	}
}
