package prefetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes once per hour, matching the default cache TTL.
const DefaultSchedule = "@every 1h"

// Refresher re-warms the cache on a cron schedule.
type Refresher struct {
	warmer    *Warmer
	providers []string
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	started   bool
}

// NewRefresher creates a refresher that warms the given providers on the
// given cron schedule. An empty schedule falls back to DefaultSchedule;
// a nil logger falls back to slog.Default(). The schedule expression is
// validated on Start, not here.
func NewRefresher(warmer *Warmer, providers []string, schedule string, logger *slog.Logger) (*Refresher, error) {
	if warmer == nil {
		return nil, ErrWarmerRequired
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Refresher{
		warmer:    warmer,
		providers: providers,
		schedule:  schedule,
		cron:      cron.New(),
		logger:    logger,
	}, nil
}

// Start registers the refresh task and starts the scheduler.
func (r *Refresher) Start() error {
	if r.started {
		return nil
	}

	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}

	r.cron.Start()
	r.started = true
	r.logger.Info("refresher started", "schedule", r.schedule)
	return nil
}

// Stop stops the scheduler and waits for any in-flight refresh to finish.
func (r *Refresher) Stop() {
	if !r.started {
		return
	}

	<-r.cron.Stop().Done()
	r.started = false
	r.logger.Info("refresher stopped")
}

// refresh runs one warm. Scheduled runs are detached from any caller
// context, like the warmer's own async work.
func (r *Refresher) refresh() {
	r.logger.Debug("scheduled refresh starting", "providers", len(r.providers))

	stats, err := r.warmer.Warm(context.Background(), r.providers)
	if err != nil {
		r.logger.Error("scheduled refresh failed", "err", err)
		return
	}

	r.logger.Info("scheduled refresh complete",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
}
