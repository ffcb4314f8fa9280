package cache

import "time"

// Operation names whose results are cached. Each is a logical function of
// the coaching advisor; the invalidation router clears entries by these
// category names.
const (
	OpPlayerAnalysis       = "playerAnalysis"
	OpTrainingPlan         = "trainingPlan"
	OpMatchStrategy        = "matchStrategy"
	OpOpponentAnalysis     = "opponentAnalysis"
	OpParentReport         = "parentReport"
	OpInjuryPrediction     = "injuryPrediction"
	OpNutritionPlan        = "nutritionPlan"
	OpMentalAssessment     = "mentalAssessment"
	OpScoutingReport       = "scoutingReport"
	OpVideoAnalysis        = "videoAnalysis"
	OpSessionPlan          = "sessionPlan"
	OpDrillRecommendations = "drillRecommendations"
)

// DefaultTTL applies to any operation without an explicit entry.
const DefaultTTL = 30 * time.Minute

// TTL per operation, chosen by how quickly the underlying facts go stale:
// injury risk is volatile, opponent scouting reports are durable.
var defaultTTLs = map[string]time.Duration{
	OpPlayerAnalysis:   time.Hour,
	OpTrainingPlan:     24 * time.Hour,
	OpMatchStrategy:    6 * time.Hour,
	OpOpponentAnalysis: 48 * time.Hour,
	OpParentReport:     12 * time.Hour,
	OpInjuryPrediction: 2 * time.Hour,
	OpNutritionPlan:    24 * time.Hour,
	OpMentalAssessment: 6 * time.Hour,
	OpScoutingReport:   48 * time.Hour,
	OpVideoAnalysis:    12 * time.Hour,
	OpSessionPlan:      24 * time.Hour,
}

// TTLPolicy maps an operation name to a time-to-live duration.
type TTLPolicy struct {
	ttls     map[string]time.Duration
	fallback time.Duration
}

// NewTTLPolicy returns a policy with the built-in per-operation table and
// the default fallback.
func NewTTLPolicy() *TTLPolicy {
	ttls := make(map[string]time.Duration, len(defaultTTLs))
	for op, ttl := range defaultTTLs {
		ttls[op] = ttl
	}
	return &TTLPolicy{ttls: ttls, fallback: DefaultTTL}
}

// Override replaces the TTL for a single operation. Non-positive durations
// are ignored.
func (p *TTLPolicy) Override(operation string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	p.ttls[operation] = ttl
}

// TTLFor returns the TTL for an operation, or the default fallback for
// unrecognized operation names.
func (p *TTLPolicy) TTLFor(operation string) time.Duration {
	if ttl, ok := p.ttls[operation]; ok {
		return ttl
	}
	return p.fallback
}
