package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Refresher re-fetches weather for everything it tracks and reports how many
// entries were updated.
type Refresher interface {
	RefreshWeatherData(ctx context.Context) int
}

// Scheduler periodically refreshes the dashboard's tracked cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
}

// New creates a Scheduler. Each run is bounded by timeout.
func New(refresher Refresher, interval, timeout time.Duration, logger zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start runs a refresh immediately and then every interval. A zero interval
// disables the schedule.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info().Msg("periodic refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info().Dur("interval", s.interval).Msg("periodic refresh scheduled")
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n := s.refresher.RefreshWeatherData(ctx)
	s.logger.Info().Int("updated", n).Dur("took", time.Since(start)).Msg("refresh completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
