package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reaper periodically removes idle sessions from a store on a cron
// schedule.
type Reaper struct {
	store    *Store
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	logger   zerolog.Logger
}

// NewReaper creates a reaper. schedule is a standard 5-field cron
// expression or a descriptor such as "@every 5m".
func NewReaper(store *Store, ttl time.Duration, schedule string, logger zerolog.Logger) *Reaper {
	return &Reaper{
		store:    store,
		ttl:      ttl,
		schedule: schedule,
		logger:   logger.With().Str("component", "session-reaper").Logger(),
	}
}

// Start schedules the reap job.
func (r *Reaper) Start() error {
	c := cron.New()
	_, err := c.AddFunc(r.schedule, func() {
		r.store.ReapIdle(r.ttl)
	})
	if err != nil {
		return fmt.Errorf("invalid reap schedule %q: %w", r.schedule, err)
	}

	r.cron = c
	c.Start()

	r.logger.Info().
		Str("schedule", r.schedule).
		Dur("ttl", r.ttl).
		Msg("Session reaper started")
	return nil
}

// Stop cancels the schedule and waits for a running reap to finish.
func (r *Reaper) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info().Msg("Session reaper stopped")
}
