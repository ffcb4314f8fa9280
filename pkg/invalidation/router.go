// Package invalidation maps domain events to cache category invalidation.
// Callers that mutate player, match, training, injury, nutrition or video
// data call the matching method after a successful write; the router clears
// every cached result in the affected categories. Precision is deliberately
// coarse: the cache key is an opaque hash, so invalidation is by operation
// category, not by entity.
package invalidation

import (
	"context"
	"fmt"

	"github.com/fieldside-ai/fieldside/pkg/cache"
)

// CategoryInvalidator is the slice of the response cache the router needs.
type CategoryInvalidator interface {
	InvalidateCategory(ctx context.Context, operation string) error
}

// Event identifies a domain change that stales cached responses.
type Event string

const (
	EventPlayerProfileChanged Event = "playerProfileChanged"
	EventPerformanceRecorded  Event = "performanceRecorded"
	EventTrainingRecorded     Event = "trainingRecorded"
	EventMatchRecorded        Event = "matchRecorded"
	EventInjuryRecorded       Event = "injuryRecorded"
	EventNutritionChanged     Event = "nutritionChanged"
	EventParentDataChanged    Event = "parentDataChanged"
	EventVideoAnalyzed        Event = "videoAnalyzed"
)

// eventCategories maps each event to the operation categories it stales.
var eventCategories = map[Event][]string{
	EventPlayerProfileChanged: {cache.OpPlayerAnalysis},
	EventPerformanceRecorded:  {cache.OpPlayerAnalysis, cache.OpInjuryPrediction},
	EventTrainingRecorded:     {cache.OpTrainingPlan},
	EventMatchRecorded:        {cache.OpMatchStrategy, cache.OpOpponentAnalysis},
	EventInjuryRecorded:       {cache.OpInjuryPrediction, cache.OpPlayerAnalysis},
	EventNutritionChanged:     {cache.OpNutritionPlan},
	EventParentDataChanged:    {cache.OpParentReport},
	EventVideoAnalyzed:        {cache.OpVideoAnalysis},
}

// playerCategories is every category the comprehensive mode clears for a
// player-level change, such as a full player record delete.
var playerCategories = []string{
	cache.OpPlayerAnalysis,
	cache.OpInjuryPrediction,
	cache.OpTrainingPlan,
	cache.OpMatchStrategy,
	cache.OpOpponentAnalysis,
	cache.OpNutritionPlan,
	cache.OpParentReport,
	cache.OpVideoAnalysis,
}

// Router fans domain events out to category invalidations. Every handler
// is idempotent: deleting zero matching entries is not an error, so calling
// a handler twice has the same effect as once.
type Router struct {
	cache CategoryInvalidator
}

// New creates a Router over the given cache.
func New(c CategoryInvalidator) *Router {
	return &Router{cache: c}
}

// OnEvent invalidates every category the event stales. Unknown events
// invalidate nothing and return an error.
func (r *Router) OnEvent(ctx context.Context, event Event) error {
	categories, ok := eventCategories[event]
	if !ok {
		return fmt.Errorf("invalidation: unknown event %q", event)
	}
	return r.invalidateAll(ctx, categories)
}

// PlayerProfileChanged clears player-level analysis.
func (r *Router) PlayerProfileChanged(ctx context.Context) error {
	return r.OnEvent(ctx, EventPlayerProfileChanged)
}

// PerformanceRecorded clears skill inference and injury risk.
func (r *Router) PerformanceRecorded(ctx context.Context) error {
	return r.OnEvent(ctx, EventPerformanceRecorded)
}

// TrainingRecorded clears training plans, which depend on recent history.
func (r *Router) TrainingRecorded(ctx context.Context) error {
	return r.OnEvent(ctx, EventTrainingRecorded)
}

// MatchRecorded clears future strategy and opponent modeling.
func (r *Router) MatchRecorded(ctx context.Context) error {
	return r.OnEvent(ctx, EventMatchRecorded)
}

// InjuryRecorded clears injury risk and general analysis.
func (r *Router) InjuryRecorded(ctx context.Context) error {
	return r.OnEvent(ctx, EventInjuryRecorded)
}

// NutritionChanged clears nutrition plans.
func (r *Router) NutritionChanged(ctx context.Context) error {
	return r.OnEvent(ctx, EventNutritionChanged)
}

// ParentDataChanged clears parent-facing reports.
func (r *Router) ParentDataChanged(ctx context.Context) error {
	return r.OnEvent(ctx, EventParentDataChanged)
}

// VideoAnalyzed clears video analysis results.
func (r *Router) VideoAnalyzed(ctx context.Context) error {
	return r.OnEvent(ctx, EventVideoAnalyzed)
}

// PlayerDataChanged invalidates for a single player-scoped event. With
// comprehensive set it clears every player-related category, for callers
// that do not want to enumerate events one by one. The playerID does not
// narrow the deletion; entries are cleared category-wide.
func (r *Router) PlayerDataChanged(ctx context.Context, playerID string, comprehensive bool) error {
	if !comprehensive {
		return r.OnEvent(ctx, EventPlayerProfileChanged)
	}
	return r.invalidateAll(ctx, playerCategories)
}

func (r *Router) invalidateAll(ctx context.Context, categories []string) error {
	for _, op := range categories {
		if err := r.cache.InvalidateCategory(ctx, op); err != nil {
			return fmt.Errorf("invalidate %s: %w", op, err)
		}
	}
	return nil
}
