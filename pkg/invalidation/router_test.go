package invalidation

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/fieldside-ai/fieldside/pkg/cache"
)

// recordingInvalidator captures which categories were cleared.
type recordingInvalidator struct {
	cleared []string
	fail    bool
}

func (r *recordingInvalidator) InvalidateCategory(ctx context.Context, operation string) error {
	if r.fail {
		return errors.New("store unavailable")
	}
	r.cleared = append(r.cleared, operation)
	return nil
}

func TestOnEventCategories(t *testing.T) {
	cases := []struct {
		event Event
		want  []string
	}{
		{EventPlayerProfileChanged, []string{cache.OpPlayerAnalysis}},
		{EventPerformanceRecorded, []string{cache.OpInjuryPrediction, cache.OpPlayerAnalysis}},
		{EventTrainingRecorded, []string{cache.OpTrainingPlan}},
		{EventMatchRecorded, []string{cache.OpMatchStrategy, cache.OpOpponentAnalysis}},
		{EventInjuryRecorded, []string{cache.OpInjuryPrediction, cache.OpPlayerAnalysis}},
		{EventNutritionChanged, []string{cache.OpNutritionPlan}},
		{EventParentDataChanged, []string{cache.OpParentReport}},
		{EventVideoAnalyzed, []string{cache.OpVideoAnalysis}},
	}

	for _, tc := range cases {
		t.Run(string(tc.event), func(t *testing.T) {
			rec := &recordingInvalidator{}
			router := New(rec)
			if err := router.OnEvent(context.Background(), tc.event); err != nil {
				t.Fatal(err)
			}
			sort.Strings(rec.cleared)
			if len(rec.cleared) != len(tc.want) {
				t.Fatalf("cleared %v, want %v", rec.cleared, tc.want)
			}
			for i := range tc.want {
				if rec.cleared[i] != tc.want[i] {
					t.Errorf("cleared %v, want %v", rec.cleared, tc.want)
					break
				}
			}
		})
	}
}

func TestOnEventUnknown(t *testing.T) {
	rec := &recordingInvalidator{}
	router := New(rec)

	if err := router.OnEvent(context.Background(), Event("somethingElse")); err == nil {
		t.Fatal("expected error for unknown event")
	}
	if len(rec.cleared) != 0 {
		t.Errorf("unknown event must invalidate nothing, cleared %v", rec.cleared)
	}
}

func TestEventMethods(t *testing.T) {
	rec := &recordingInvalidator{}
	router := New(rec)
	ctx := context.Background()

	if err := router.PerformanceRecorded(ctx); err != nil {
		t.Fatal(err)
	}
	if len(rec.cleared) != 2 {
		t.Errorf("expected 2 categories cleared, got %v", rec.cleared)
	}

	rec.cleared = nil
	if err := router.NutritionChanged(ctx); err != nil {
		t.Fatal(err)
	}
	if len(rec.cleared) != 1 || rec.cleared[0] != cache.OpNutritionPlan {
		t.Errorf("expected nutritionPlan cleared, got %v", rec.cleared)
	}
}

func TestPlayerDataChanged(t *testing.T) {
	ctx := context.Background()

	rec := &recordingInvalidator{}
	router := New(rec)
	if err := router.PlayerDataChanged(ctx, "p7", false); err != nil {
		t.Fatal(err)
	}
	if len(rec.cleared) != 1 || rec.cleared[0] != cache.OpPlayerAnalysis {
		t.Errorf("non-comprehensive should clear only playerAnalysis, got %v", rec.cleared)
	}

	rec = &recordingInvalidator{}
	router = New(rec)
	if err := router.PlayerDataChanged(ctx, "p7", true); err != nil {
		t.Fatal(err)
	}
	if len(rec.cleared) != len(playerCategories) {
		t.Errorf("comprehensive should clear %d categories, got %v", len(playerCategories), rec.cleared)
	}
}

func TestInvalidatorFailurePropagates(t *testing.T) {
	router := New(&recordingInvalidator{fail: true})
	if err := router.TrainingRecorded(context.Background()); err == nil {
		t.Fatal("expected store failure to propagate")
	}
}
