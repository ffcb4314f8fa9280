// Package advisor implements the AI coaching operations the cache sits in
// front of. Each operation builds a prompt from structured academy data,
// consults the response cache, invokes the LLM on a miss, and stores the
// result under the operation's TTL.
package advisor

import (
	"context"
	"fmt"

	"github.com/fieldside-ai/fieldside/pkg/cache"
	"github.com/fieldside-ai/fieldside/pkg/llm"
	"github.com/fieldside-ai/fieldside/pkg/models"
)

// Advisor wires the LLM invoker to the response cache.
type Advisor struct {
	llm   llm.Invoker
	cache *cache.ResponseCache
}

// New creates an Advisor.
func New(invoker llm.Invoker, c *cache.ResponseCache) *Advisor {
	return &Advisor{llm: invoker, cache: c}
}

// PlayerAnalysisRequest asks for a development analysis of one player.
type PlayerAnalysisRequest struct {
	Player models.PlayerProfile
	Recent []models.PerformanceRecord
	UserID string
}

// TrainingPlanRequest asks for a training plan for a player archetype.
type TrainingPlanRequest struct {
	Position   string
	AgeGroup   string
	Strengths  string
	Weaknesses string
}

// DrillRecommendationsRequest asks for drills for a focus area.
type DrillRecommendationsRequest struct {
	FocusArea  string
	AgeGroup   string
	SkillLevel string
}

// MatchStrategyRequest asks for a strategy for an upcoming match scenario.
type MatchStrategyRequest struct {
	Importance string
	Weather    string
	Opponent   string
}

// InjuryPredictionRequest asks for an injury risk assessment.
type InjuryPredictionRequest struct {
	Player models.PlayerProfile
	Recent []models.PerformanceRecord
}

// ParentReportRequest asks for a parent-facing progress summary.
type ParentReportRequest struct {
	Player models.PlayerProfile
	Recent []models.PerformanceRecord
}

// PlayerAnalysis returns a development analysis for the player.
func (a *Advisor) PlayerAnalysis(ctx context.Context, req PlayerAnalysisRequest) (string, error) {
	params := map[string]any{"playerId": req.Player.ID}
	system, user := playerAnalysisPrompt(req.Player, req.Recent)
	return a.cached(ctx, cache.OpPlayerAnalysis, params, system, user, req.UserID, performanceContext(req.Recent))
}

// TrainingPlan returns a plan for the archetype and age group.
func (a *Advisor) TrainingPlan(ctx context.Context, req TrainingPlanRequest) (string, error) {
	params := map[string]any{
		"position":   req.Position,
		"ageGroup":   req.AgeGroup,
		"strengths":  req.Strengths,
		"weaknesses": req.Weaknesses,
	}
	system, user := trainingPlanPrompt(req)
	return a.cached(ctx, cache.OpTrainingPlan, params, system, user, "", nil)
}

// DrillRecommendations returns drills for the focus area, age group and skill level.
func (a *Advisor) DrillRecommendations(ctx context.Context, req DrillRecommendationsRequest) (string, error) {
	params := map[string]any{
		"focusArea":  req.FocusArea,
		"ageGroup":   req.AgeGroup,
		"skillLevel": req.SkillLevel,
	}
	system, user := drillRecommendationsPrompt(req)
	return a.cached(ctx, cache.OpDrillRecommendations, params, system, user, "", nil)
}

// MatchStrategy returns a strategy for the match scenario.
func (a *Advisor) MatchStrategy(ctx context.Context, req MatchStrategyRequest) (string, error) {
	params := map[string]any{
		"importance": req.Importance,
		"weather":    req.Weather,
		"opponent":   req.Opponent,
	}
	system, user := matchStrategyPrompt(req)
	return a.cached(ctx, cache.OpMatchStrategy, params, system, user, "", nil)
}

// InjuryPrediction returns an injury risk assessment for the player.
func (a *Advisor) InjuryPrediction(ctx context.Context, req InjuryPredictionRequest) (string, error) {
	params := map[string]any{"playerId": req.Player.ID}
	system, user := injuryPredictionPrompt(req.Player, req.Recent)
	return a.cached(ctx, cache.OpInjuryPrediction, params, system, user, "", performanceContext(req.Recent))
}

// ParentReport returns a parent-facing progress summary for the player.
func (a *Advisor) ParentReport(ctx context.Context, req ParentReportRequest) (string, error) {
	params := map[string]any{"playerId": req.Player.ID}
	system, user := parentReportPrompt(req.Player, req.Recent)
	return a.cached(ctx, cache.OpParentReport, params, system, user, "", nil)
}

// cached is the shared miss-then-populate path: cache lookup, LLM
// invocation on miss, best-effort store of the fresh result. LLM failures
// propagate to the caller and nothing is stored for that attempt.
func (a *Advisor) cached(ctx context.Context, operation string, params map[string]any, system, user, userID string, contextData map[string]any) (string, error) {
	if resp, ok, err := a.cache.Get(ctx, operation, params); err != nil {
		return "", err
	} else if ok {
		return resp, nil
	}

	text, err := a.llm.Invoke(ctx, []models.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}

	if err := a.cache.Put(ctx, operation, params, text, userID, contextData); err != nil {
		return "", err
	}
	return text, nil
}

// performanceContext summarizes the records that fed a response, stored
// alongside it for debugging.
func performanceContext(recent []models.PerformanceRecord) map[string]any {
	if len(recent) == 0 {
		return nil
	}
	var speed, stamina, passing, shooting int
	for _, r := range recent {
		speed += r.Speed
		stamina += r.Stamina
		passing += r.Passing
		shooting += r.Shooting
	}
	n := len(recent)
	return map[string]any{
		"records":     n,
		"avgSpeed":    speed / n,
		"avgStamina":  stamina / n,
		"avgPassing":  passing / n,
		"avgShooting": shooting / n,
	}
}
