package services

import (
	"context"
	"errors"
	"testing"

	"cari_magang/jobboard"
	"cari_magang/models"
)

type fakeFetcher struct {
	listings []models.RawListing
	err      error
	block    chan struct{} // when set, Fetch waits until closed
}

func (f *fakeFetcher) Fetch(ctx context.Context, filters models.SyncFilters) ([]models.RawListing, error) {
	if f.block != nil {
		<-f.block
	}
	return f.listings, f.err
}

// fakeStore mimics the transactional persister: duplicates by api_id are
// skipped, a forced failure leaves the table untouched.
type fakeStore struct {
	rows        map[string]bool
	failAtIndex int // 1-based position of the insert that fails; 0 = never
	persists    int
	runsCreated []models.SyncRun
	runsUpdated []models.SyncRun
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]bool{}}
}

func (s *fakeStore) PersistInternships(ctx context.Context, batch []models.Internship) (int, int, error) {
	s.persists++
	staged := map[string]bool{}
	saved, skipped := 0, 0
	inserts := 0
	for _, in := range batch {
		if s.rows[in.APIID] || staged[in.APIID] {
			skipped++
			continue
		}
		inserts++
		if s.failAtIndex > 0 && inserts == s.failAtIndex {
			return 0, 0, errors.New("forced insert failure")
		}
		staged[in.APIID] = true
		saved++
	}
	for id := range staged {
		s.rows[id] = true
	}
	return saved, skipped, nil
}

func (s *fakeStore) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	s.runsCreated = append(s.runsCreated, *run)
	return nil
}

func (s *fakeStore) UpdateSyncRun(ctx context.Context, run *models.SyncRun) error {
	s.runsUpdated = append(s.runsUpdated, *run)
	return nil
}

func rawListing(id, title string) models.RawListing {
	return models.RawListing{ID: id, Title: title}
}

func TestSync_SavesFreshBatch(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{
		rawListing("A1", "Intern A"),
		rawListing("A2", "Intern B"),
	}}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if !summary.Success {
		t.Fatalf("expected success, got %s", summary.Message)
	}
	if summary.SavedCount != 2 || summary.SkippedCount != 0 {
		t.Fatalf("expected 2 saved / 0 skipped, got %d / %d", summary.SavedCount, summary.SkippedCount)
	}
}

func TestSync_SecondRunSkipsEverything(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{
		rawListing("A1", "Intern A"),
		rawListing("A2", "Intern B"),
	}}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	first := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if first.SavedCount != 2 || first.SkippedCount != 0 {
		t.Fatalf("first run: expected 2/0, got %d/%d", first.SavedCount, first.SkippedCount)
	}

	second := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if !second.Success {
		t.Fatalf("second run should succeed, got %s", second.Message)
	}
	if second.SavedCount != 0 || second.SkippedCount != 2 {
		t.Fatalf("second run: expected 0/2, got %d/%d", second.SavedCount, second.SkippedCount)
	}
}

func TestSync_DuplicateWithinBatch(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{
		rawListing("A1", "Intern A"),
		rawListing("A1", "Intern A repost"),
		rawListing("A2", "Intern B"),
	}}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if summary.SavedCount != 2 || summary.SkippedCount != 1 {
		t.Fatalf("expected 2 saved / 1 skipped, got %d / %d", summary.SavedCount, summary.SkippedCount)
	}
	if summary.SavedCount+summary.SkippedCount != 3 {
		t.Fatal("saved + skipped must equal batch size")
	}
}

func TestSync_MalformedRecordsDiscardedNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{
		rawListing("A1", "Intern A"),
		{Title: "no id"},
		{ID: "A3"}, // no title
		rawListing("A4", "Intern D"),
	}}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if !summary.Success {
		t.Fatalf("malformed records must not fail the run: %s", summary.Message)
	}
	if summary.SavedCount != 2 {
		t.Fatalf("expected 2 saved, got %d", summary.SavedCount)
	}
	if !store.rows["A1"] || !store.rows["A4"] {
		t.Fatal("sibling records should have been persisted")
	}
	if len(store.runsUpdated) != 1 || store.runsUpdated[0].DiscardedCount != 2 {
		t.Fatalf("expected 2 discarded recorded, got %+v", store.runsUpdated)
	}
}

func TestSync_AllMalformed(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{{Title: "no id"}}}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if !summary.Success {
		t.Fatalf("expected success, got %s", summary.Message)
	}
	if summary.SavedCount != 0 || summary.SkippedCount != 0 {
		t.Fatalf("expected 0/0, got %d/%d", summary.SavedCount, summary.SkippedCount)
	}
	if store.persists != 0 {
		t.Fatal("empty batch should not hit the store")
	}
}

func TestSync_EmptyFetchIsSuccess(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerCron, models.SyncFilters{})
	if !summary.Success {
		t.Fatalf("empty fetch must be a successful run: %s", summary.Message)
	}
	if summary.SavedCount != 0 || summary.SkippedCount != 0 {
		t.Fatalf("expected 0/0, got %d/%d", summary.SavedCount, summary.SkippedCount)
	}
}

func TestSync_MissingCredentialsIsBenign(t *testing.T) {
	fetcher := &fakeFetcher{err: jobboard.ErrMissingCredentials}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerCron, models.SyncFilters{})
	if !summary.Success {
		t.Fatalf("missing credentials must yield a benign zero-result, got %s", summary.Message)
	}
	if summary.SavedCount != 0 || summary.SkippedCount != 0 {
		t.Fatalf("expected 0/0, got %d/%d", summary.SavedCount, summary.SkippedCount)
	}
}

func TestSync_FetchFailureBecomesSummary(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerScheduler, models.SyncFilters{})
	if summary.Success {
		t.Fatal("expected failure summary")
	}
	if summary.Err == nil {
		t.Fatal("expected cause on failure summary")
	}
	if len(store.runsUpdated) != 1 || store.runsUpdated[0].Status != models.RunStatusFailed {
		t.Fatalf("expected failed run recorded, got %+v", store.runsUpdated)
	}
}

func TestSync_PersistFailureLeavesStoreUntouched(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{
		rawListing("A1", "a"), rawListing("A2", "b"), rawListing("A3", "c"),
		rawListing("A4", "d"), rawListing("A5", "e"),
	}}
	store := newFakeStore()
	store.failAtIndex = 3
	svc := NewSyncService(fetcher, store)

	summary := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if summary.Success {
		t.Fatal("expected failure summary")
	}
	if len(store.rows) != 0 {
		t.Fatalf("no rows may be committed after a mid-batch failure, got %d", len(store.rows))
	}
}

func TestSync_ConcurrentRunRejected(t *testing.T) {
	block := make(chan struct{})
	fetcher := &fakeFetcher{block: block}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	done := make(chan models.SyncSummary, 1)
	go func() {
		done <- svc.Sync(context.Background(), models.TriggerScheduler, models.SyncFilters{})
	}()

	// Wait for the first run to take the guard.
	for !svc.running.Load() {
	}

	busy := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if !errors.Is(busy.Err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", busy.Err)
	}
	if busy.Success {
		t.Fatal("busy summary must not report success")
	}

	close(block)
	first := <-done
	if !first.Success {
		t.Fatalf("blocked run should still succeed, got %s", first.Message)
	}

	// Guard released: the next run goes through.
	fetcher.block = nil
	again := svc.Sync(context.Background(), models.TriggerManual, models.SyncFilters{})
	if !again.Success {
		t.Fatalf("expected success after guard release, got %s", again.Message)
	}
}

func TestSync_RecordsRunBookkeeping(t *testing.T) {
	fetcher := &fakeFetcher{listings: []models.RawListing{
		rawListing("A1", "Intern A"),
		{Title: "no id"},
	}}
	store := newFakeStore()
	svc := NewSyncService(fetcher, store)

	svc.Sync(context.Background(), models.TriggerCron, models.SyncFilters{})

	if len(store.runsCreated) != 1 {
		t.Fatalf("expected 1 run created, got %d", len(store.runsCreated))
	}
	if store.runsCreated[0].Trigger != models.TriggerCron {
		t.Fatalf("unexpected trigger %s", store.runsCreated[0].Trigger)
	}
	if len(store.runsUpdated) != 1 {
		t.Fatalf("expected 1 run updated, got %d", len(store.runsUpdated))
	}
	run := store.runsUpdated[0]
	if run.Status != models.RunStatusCompleted {
		t.Fatalf("unexpected status %s", run.Status)
	}
	if run.FetchedCount != 2 || run.DiscardedCount != 1 || run.SavedCount != 1 {
		t.Fatalf("unexpected counts: %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}
}
