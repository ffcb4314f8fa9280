package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// fakeStore is an in-memory Store for exercising ResponseCache without a
// database. With fail set, every operation errors.
type fakeStore struct {
	entries map[string]models.CacheEntry
	fail    bool
}

var errStoreDown = errors.New("store unavailable")

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]models.CacheEntry)}
}

func (f *fakeStore) FindLive(ctx context.Context, key string, now time.Time) (*models.CacheEntry, error) {
	if f.fail {
		return nil, errStoreDown
	}
	e, ok := f.entries[key]
	if !ok || !e.Live(now) {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (f *fakeStore) Upsert(ctx context.Context, entry models.CacheEntry) error {
	if f.fail {
		return errStoreDown
	}
	delete(f.entries, entry.Key)
	entry.HitCount = 0
	f.entries[entry.Key] = entry
	return nil
}

func (f *fakeStore) Touch(ctx context.Context, key string, now time.Time) error {
	if f.fail {
		return errStoreDown
	}
	e, ok := f.entries[key]
	if !ok {
		return nil
	}
	e.HitCount++
	e.LastAccessedAt = now
	f.entries[key] = e
	return nil
}

func (f *fakeStore) DeleteByKey(ctx context.Context, key string) error {
	if f.fail {
		return errStoreDown
	}
	delete(f.entries, key)
	return nil
}

func (f *fakeStore) DeleteByOperation(ctx context.Context, operation string) error {
	if f.fail {
		return errStoreDown
	}
	for k, e := range f.entries {
		if e.Operation == operation {
			delete(f.entries, k)
		}
	}
	return nil
}

func (f *fakeStore) DeleteExpired(ctx context.Context, now time.Time) error {
	if f.fail {
		return errStoreDown
	}
	for k, e := range f.entries {
		if !e.Live(now) {
			delete(f.entries, k)
		}
	}
	return nil
}

func (f *fakeStore) Stats(ctx context.Context, now time.Time) (models.CacheStats, error) {
	if f.fail {
		return models.CacheStats{}, errStoreDown
	}
	stats := models.CacheStats{ByOperation: make(map[string]models.OperationStats)}
	for _, e := range f.entries {
		if !e.Live(now) {
			continue
		}
		s := stats.ByOperation[e.Operation]
		s.Entries++
		s.Hits += e.HitCount
		stats.ByOperation[e.Operation] = s
		stats.Entries++
		stats.Hits += e.HitCount
	}
	return stats, nil
}

func (f *fakeStore) Close() error { return nil }

// testCache returns a ResponseCache over a fake store with a controllable
// clock.
func testCache(t *testing.T) (*ResponseCache, *fakeStore, *time.Time) {
	t.Helper()
	store := newFakeStore()
	c := New(store, nil)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, store, &now
}

func TestGetMissThenHit(t *testing.T) {
	c, _, _ := testCache(t)
	ctx := context.Background()
	params := map[string]any{"playerId": "p7"}

	if _, ok, err := c.Get(ctx, OpPlayerAnalysis, params); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, OpPlayerAnalysis, params, "solid form", "coach-1", nil); err != nil {
		t.Fatal(err)
	}

	resp, ok, err := c.Get(ctx, OpPlayerAnalysis, params)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || resp != "solid form" {
		t.Fatalf("expected hit with stored response, got ok=%v resp=%q", ok, resp)
	}
}

func TestTTLExpiry(t *testing.T) {
	c, _, now := testCache(t)
	ctx := context.Background()
	params := map[string]any{"playerId": "p7"}

	if err := c.Put(ctx, OpPlayerAnalysis, params, "solid form", "", nil); err != nil {
		t.Fatal(err)
	}

	*now = now.Add(59 * time.Minute)
	if _, ok, _ := c.Get(ctx, OpPlayerAnalysis, params); !ok {
		t.Fatal("expected hit within the 1h playerAnalysis TTL")
	}

	*now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, OpPlayerAnalysis, params); ok {
		t.Fatal("expected miss after the playerAnalysis TTL elapsed")
	}
}

func TestDefaultTTLFallback(t *testing.T) {
	c, _, now := testCache(t)
	ctx := context.Background()
	params := map[string]any{"q": "anything"}

	if err := c.Put(ctx, "unknownOperation", params, "answer", "", nil); err != nil {
		t.Fatal(err)
	}

	*now = now.Add(29 * time.Minute)
	if _, ok, _ := c.Get(ctx, "unknownOperation", params); !ok {
		t.Fatal("expected hit within the default 30m TTL")
	}

	*now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "unknownOperation", params); ok {
		t.Fatal("expected miss after the default TTL elapsed")
	}
}

func TestOverwriteResetsHitCount(t *testing.T) {
	c, store, _ := testCache(t)
	ctx := context.Background()
	params := map[string]any{"playerId": "p7"}

	if err := c.Put(ctx, OpPlayerAnalysis, params, "first", "", nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, ok, _ := c.Get(ctx, OpPlayerAnalysis, params); !ok {
			t.Fatal("expected hit")
		}
	}

	key, err := DeriveKey(OpPlayerAnalysis, params)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.entries[key].HitCount; got != 3 {
		t.Fatalf("expected hitCount 3 before overwrite, got %d", got)
	}

	if err := c.Put(ctx, OpPlayerAnalysis, params, "second", "", nil); err != nil {
		t.Fatal(err)
	}
	if got := store.entries[key].HitCount; got != 0 {
		t.Fatalf("expected hitCount reset to 0 after overwrite, got %d", got)
	}

	resp, ok, _ := c.Get(ctx, OpPlayerAnalysis, params)
	if !ok || resp != "second" {
		t.Fatalf("expected overwritten response, got ok=%v resp=%q", ok, resp)
	}
}

func TestInvalidateByKey(t *testing.T) {
	c, _, _ := testCache(t)
	ctx := context.Background()
	params := map[string]any{"playerId": "p7"}

	if err := c.Put(ctx, OpPlayerAnalysis, params, "solid form", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate(ctx, OpPlayerAnalysis, params); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, OpPlayerAnalysis, params); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestInvalidateCategory(t *testing.T) {
	c, _, _ := testCache(t)
	ctx := context.Background()
	p1 := map[string]any{"ageGroup": "U12"}
	p2 := map[string]any{"ageGroup": "U14"}
	p3 := map[string]any{"importance": "cup"}

	if err := c.Put(ctx, OpTrainingPlan, p1, "plan one", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, OpTrainingPlan, p2, "plan two", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, OpMatchStrategy, p3, "press high", "", nil); err != nil {
		t.Fatal(err)
	}

	if err := c.InvalidateCategory(ctx, OpTrainingPlan); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(ctx, OpTrainingPlan, p1); ok {
		t.Error("expected miss for first training plan")
	}
	if _, ok, _ := c.Get(ctx, OpTrainingPlan, p2); ok {
		t.Error("expected miss for second training plan")
	}
	resp, ok, _ := c.Get(ctx, OpMatchStrategy, p3)
	if !ok || resp != "press high" {
		t.Errorf("match strategy should survive, got ok=%v resp=%q", ok, resp)
	}
}

func TestSweepExpired(t *testing.T) {
	c, store, now := testCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, OpInjuryPrediction, map[string]any{"playerId": "p1"}, "low", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, OpScoutingReport, map[string]any{"playerId": "p2"}, "promising", "", nil); err != nil {
		t.Fatal(err)
	}

	// Past the 2h injuryPrediction TTL, within the 48h scoutingReport TTL.
	*now = now.Add(3 * time.Hour)
	if err := c.SweepExpired(ctx); err != nil {
		t.Fatal(err)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", len(store.entries))
	}
}

func TestStoreFailureDegradesGracefully(t *testing.T) {
	c, store, _ := testCache(t)
	ctx := context.Background()
	params := map[string]any{"playerId": "p7"}
	store.fail = true

	resp, ok, err := c.Get(ctx, OpPlayerAnalysis, params)
	if err != nil {
		t.Fatalf("store failure must not surface from Get: %v", err)
	}
	if ok || resp != "" {
		t.Fatalf("expected miss on store failure, got ok=%v resp=%q", ok, resp)
	}

	if err := c.Put(ctx, OpPlayerAnalysis, params, "solid form", "", nil); err != nil {
		t.Fatalf("store failure must not surface from Put: %v", err)
	}
}

func TestSerializationFailurePropagates(t *testing.T) {
	c, _, _ := testCache(t)
	ctx := context.Background()
	bad := map[string]any{"ch": make(chan int)}

	if _, _, err := c.Get(ctx, OpPlayerAnalysis, bad); err == nil {
		t.Error("Get should propagate serialization failures")
	}
	if err := c.Put(ctx, OpPlayerAnalysis, bad, "x", "", nil); err == nil {
		t.Error("Put should propagate serialization failures")
	}
}

func TestStats(t *testing.T) {
	c, _, _ := testCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, OpTrainingPlan, map[string]any{"ageGroup": "U12"}, "plan", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, OpTrainingPlan, map[string]any{"ageGroup": "U12"}); !ok {
		t.Fatal("expected hit")
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 || stats.Hits != 1 {
		t.Errorf("expected 1 entry and 1 hit, got %+v", stats)
	}
	if s := stats.ByOperation[OpTrainingPlan]; s.Entries != 1 || s.Hits != 1 {
		t.Errorf("unexpected per-operation stats: %+v", s)
	}
}
