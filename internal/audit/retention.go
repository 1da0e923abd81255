package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Retention periodically purges gate events older than a window
type Retention struct {
	store  *Store
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
	cron   *cron.Cron
}

// NewRetention schedules purges on a cron schedule such as "@hourly" or
// "0 3 * * *". The scheduler is not started.
func NewRetention(store *Store, schedule string, window time.Duration, logger zerolog.Logger) (*Retention, error) {
	if window <= 0 {
		return nil, fmt.Errorf("retention window must be positive, got %s", window)
	}

	r := &Retention{
		store:  store,
		window: window,
		now:    time.Now,
		logger: logger,
		cron:   cron.New(),
	}

	if _, err := r.cron.AddFunc(schedule, func() { r.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start runs the schedule in the background
func (r *Retention) Start() {
	r.cron.Start()
	r.logger.Info().Dur("window", r.window).Msg("Gate event retention started")
}

// Stop halts the schedule and waits for a running purge
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce purges events older than the window
func (r *Retention) RunOnce(ctx context.Context) int64 {
	cutoff := r.now().Add(-r.window)

	deleted, err := r.store.Purge(ctx, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to purge gate events")
		return 0
	}

	if deleted > 0 {
		r.logger.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Purged old gate events")
	}
	return deleted
}
