// Package scheduler drives the daily listing sync, independent of the HTTP
// request path.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"cari_magang/config"
	"cari_magang/models"
	"cari_magang/services"
)

// Syncer runs one sync and reports the outcome; it never panics or errors
// past its boundary.
type Syncer interface {
	Sync(ctx context.Context, trigger models.SyncTrigger, filters models.SyncFilters) models.SyncSummary
}

type Scheduler struct {
	cfg    *config.SchedulerConfig
	syncer Syncer
	cron   *cron.Cron
}

func New(cfg *config.SchedulerConfig, syncer Syncer) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cfg:    cfg,
		syncer: syncer,
		cron:   cron.New(cron.WithLocation(loc)),
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Cron, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.cfg.Cron, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] started: %q (%s)", s.cfg.Cron, s.cfg.Timezone)
	return nil
}

// Stop halts the cron loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] stopped")
}

// runSync executes one scheduled tick. A tick that fires while a run is
// still in flight is skipped, never run concurrently. Failures are logged;
// the process stays up and waits for the next tick.
func (s *Scheduler) runSync(ctx context.Context) {
	summary := s.syncer.Sync(ctx, models.TriggerScheduler, s.cfg.Defaults)

	switch {
	case errors.Is(summary.Err, services.ErrSyncInProgress):
		log.Println("[scheduler] previous sync still running, tick skipped")
	case !summary.Success:
		log.Printf("[scheduler] sync failed: %s", summary.Message)
	default:
		log.Printf("[scheduler] sync done: %d saved, %d skipped", summary.SavedCount, summary.SkippedCount)
	}
}
