// Package cycle runs the notification pipeline: load the extracts, work out
// the current tier, pick eligible subscribers, send, and audit.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-air-alerts/internal/aggregation"
	"github.com/mr1hm/go-air-alerts/internal/audit"
	"github.com/mr1hm/go-air-alerts/internal/config"
	"github.com/mr1hm/go-air-alerts/internal/eligibility"
	"github.com/mr1hm/go-air-alerts/internal/ingestion"
	"github.com/mr1hm/go-air-alerts/internal/models"
	"github.com/mr1hm/go-air-alerts/internal/notifier"
	"github.com/mr1hm/go-air-alerts/internal/status"
)

const persistTimeout = 30 * time.Second

// HistorySource reports when each phone hash was last messaged.
type HistorySource interface {
	LastMessages(ctx context.Context) (map[string]time.Time, error)
}

type Deps struct {
	Loader     *ingestion.Loader
	Dispatcher *notifier.Dispatcher
	Audit      *audit.Logger
	History    HistorySource   // optional
	Tracker    *status.Tracker // optional
}

type Runner struct {
	cfg  *config.Config
	deps Deps
	now  func() time.Time
}

func NewRunner(cfg *config.Config, deps Deps) *Runner {
	return &Runner{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// Run executes cycles until ctx is cancelled, sleeping the configured
// interval between them. A malformed extract stops the loop and is returned;
// other cycle errors are logged and the loop continues.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("starting notification cycles", "interval", r.cfg.Cycle.Interval)

	for {
		if _, err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				slog.Info("notification cycles shutting down")
				return nil
			}
			if errors.Is(err, ingestion.ErrMalformed) {
				return err
			}
			slog.Error("cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("notification cycles shutting down")
			return nil
		case <-time.After(r.cfg.Cycle.Interval):
		}
	}
}

// RunOnce executes a single cycle. It blocks until both extracts exist.
func (r *Runner) RunOnce(ctx context.Context) (*models.CycleReport, error) {
	start := r.now()
	report := &models.CycleReport{
		ID:        uuid.NewString(),
		StartedAt: start.UTC(),
	}
	log := slog.With("cycle_id", report.ID)

	err := r.run(ctx, log, report)
	report.FinishedAt = r.now().UTC()
	cycleDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	if err != nil {
		report.Error = err.Error()
		cyclesTotal.WithLabelValues("error").Inc()
		log.Error("cycle aborted", "error", err)
	} else {
		cyclesTotal.WithLabelValues("ok").Inc()
		log.Info("cycle complete",
			"tier", report.Tier, "level", report.Level,
			"eligible", report.Eligible, "sent", report.Sent, "failed", report.Failed,
			"persisted", report.Persisted, "persist_failed", report.PersistFailed)
	}

	if r.deps.Tracker != nil {
		r.deps.Tracker.Record(*report)
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, log *slog.Logger, report *models.CycleReport) error {
	ing := r.cfg.Ingestion
	notif := r.cfg.Notification
	paths := []string{ing.PollutionPath, ing.SubscribersPath}

	tables, err := r.deps.Loader.LoadAll(ctx, paths...)
	if err != nil {
		return fmt.Errorf("loading extracts: %w", err)
	}

	readings, err := ingestion.ParseReadings(tables[0])
	if err != nil {
		return err
	}
	subs, err := ingestion.ParseSubscribers(tables[1])
	if err != nil {
		return err
	}
	report.Subscribers = len(subs)

	if ing.DeleteAfterLoad {
		deleted := ingestion.DeleteFiles(paths)
		log.Debug("extracts removed", "paths", deleted)
	}

	aggregates := aggregation.Aggregate(readings)
	report.Aggregates = len(aggregates)

	level, tier, err := aggregation.CurrentTier(aggregates, notif.Scale(), notif.BandWidth)
	if errors.Is(err, aggregation.ErrNoData) {
		log.Warn("no valid pollution readings, nothing to send", "readings", len(readings))
		return nil
	}
	if err != nil {
		return err
	}
	report.Level = level
	report.Tier = notif.Scale().Name(tier)
	currentLevel.Set(level)
	currentTier.Set(float64(tier))

	if r.deps.History != nil {
		last, err := r.deps.History.LastMessages(ctx)
		if err != nil {
			log.Warn("could not read message history, using extract only", "error", err)
		} else {
			subs = eligibility.WithHistory(subs, last)
		}
	}

	recipients := eligibility.Filter(subs, notif.StartHour, notif.EndHour, r.now())
	report.Eligible = len(recipients)

	result := r.deps.Dispatcher.Dispatch(ctx, tier, level, recipients)
	report.Sent = len(result.Records)
	report.Failed = len(result.Failures)
	report.Skipped = result.Skipped

	// Delivered messages are recorded even once shutdown has begun.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	persisted := r.deps.Audit.Persist(persistCtx, result.Records)
	report.Persisted = len(persisted.IDs)
	report.PersistFailed = len(persisted.Failed)

	return nil
}
