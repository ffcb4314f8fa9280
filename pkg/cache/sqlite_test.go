package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(key, operation string, now time.Time, ttl time.Duration) models.CacheEntry {
	return models.CacheEntry{
		Key:            key,
		Operation:      operation,
		Params:         `{"playerId":"p7"}`,
		Response:       "work on first touch",
		UserID:         "coach-1",
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

func TestSQLiteFindLive(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := testEntry("playerAnalysis:abc", OpPlayerAnalysis, now, time.Hour)
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatal(err)
	}

	got, err := store.FindLive(ctx, entry.Key, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Response != entry.Response || got.Operation != entry.Operation {
		t.Errorf("unexpected entry: %+v", got)
	}

	if _, err := store.FindLive(ctx, entry.Key, now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound past expiry, got %v", err)
	}
	if _, err := store.FindLive(ctx, "playerAnalysis:missing", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for absent key, got %v", err)
	}
}

func TestSQLiteTouchIncrements(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := testEntry("playerAnalysis:abc", OpPlayerAnalysis, now, time.Hour)
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := store.Touch(ctx, entry.Key, now.Add(time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.entryByKey(ctx, entry.Key)
	if err != nil {
		t.Fatal(err)
	}
	if got.HitCount != 3 {
		t.Errorf("expected hit count 3, got %d", got.HitCount)
	}

	// Touching an absent key is a no-op.
	if err := store.Touch(ctx, "playerAnalysis:missing", now); err != nil {
		t.Errorf("touch on missing key should not error: %v", err)
	}
}

func TestSQLiteUpsertResetsHitCount(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := testEntry("playerAnalysis:abc", OpPlayerAnalysis, now, time.Hour)
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if err := store.Touch(ctx, entry.Key, now); err != nil {
		t.Fatal(err)
	}

	entry.Response = "refreshed analysis"
	entry.HitCount = 99 // must be ignored by the store
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatal(err)
	}

	got, err := store.entryByKey(ctx, entry.Key)
	if err != nil {
		t.Fatal(err)
	}
	if got.HitCount != 0 {
		t.Errorf("expected hit count reset to 0, got %d", got.HitCount)
	}
	if got.Response != "refreshed analysis" {
		t.Errorf("expected refreshed response, got %q", got.Response)
	}
}

func TestSQLiteDeleteByKey(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := testEntry("playerAnalysis:abc", OpPlayerAnalysis, now, time.Hour)
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteByKey(ctx, entry.Key); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FindLive(ctx, entry.Key, now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteDeleteByOperation(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, e := range []models.CacheEntry{
		testEntry("trainingPlan:a", OpTrainingPlan, now, time.Hour),
		testEntry("trainingPlan:b", OpTrainingPlan, now, time.Hour),
		testEntry("matchStrategy:c", OpMatchStrategy, now, time.Hour),
	} {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.DeleteByOperation(ctx, OpTrainingPlan); err != nil {
		t.Fatal(err)
	}

	if _, err := store.FindLive(ctx, "trainingPlan:a", now); !errors.Is(err, ErrNotFound) {
		t.Error("training plan entries should be gone")
	}
	if _, err := store.FindLive(ctx, "matchStrategy:c", now); err != nil {
		t.Errorf("other operations should survive: %v", err)
	}
}

func TestSQLiteDeleteExpired(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Upsert(ctx, testEntry("injuryPrediction:a", OpInjuryPrediction, now, time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, testEntry("scoutingReport:b", OpScoutingReport, now, 48*time.Hour)); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteExpired(ctx, now.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}

	if _, err := store.entryByKey(ctx, "injuryPrediction:a"); !errors.Is(err, ErrNotFound) {
		t.Error("expired entry should be deleted")
	}
	if _, err := store.entryByKey(ctx, "scoutingReport:b"); err != nil {
		t.Errorf("live entry should survive the sweep: %v", err)
	}
}

func TestSQLiteStats(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, e := range []models.CacheEntry{
		testEntry("trainingPlan:a", OpTrainingPlan, now, time.Hour),
		testEntry("trainingPlan:b", OpTrainingPlan, now, time.Hour),
		testEntry("matchStrategy:c", OpMatchStrategy, now, time.Hour),
		testEntry("injuryPrediction:d", OpInjuryPrediction, now, -time.Hour), // already expired
	} {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Touch(ctx, "trainingPlan:a", now); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 3 {
		t.Errorf("expected 3 live entries, got %d", stats.Entries)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if s := stats.ByOperation[OpTrainingPlan]; s.Entries != 2 || s.Hits != 1 {
		t.Errorf("unexpected trainingPlan stats: %+v", s)
	}
	if _, ok := stats.ByOperation[OpInjuryPrediction]; ok {
		t.Error("expired entries must not appear in stats")
	}
}
