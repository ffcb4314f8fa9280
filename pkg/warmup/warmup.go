// Package warmup pre-populates the response cache ahead of traffic by
// invoking the normal cached advisor operations for a fixed matrix of
// common requests. It is meant to run off-peak from a scheduler, never
// synchronously from user requests. Items run sequentially as a deliberate
// throttle on the LLM backend; one item's failure never aborts the batch.
package warmup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fieldside-ai/fieldside/pkg/advisor"
	"github.com/fieldside-ai/fieldside/pkg/models"
	"github.com/fieldside-ai/fieldside/pkg/roster"
)

// Ops is the slice of the advisor the orchestrator warms.
type Ops interface {
	PlayerAnalysis(ctx context.Context, req advisor.PlayerAnalysisRequest) (string, error)
	TrainingPlan(ctx context.Context, req advisor.TrainingPlanRequest) (string, error)
	DrillRecommendations(ctx context.Context, req advisor.DrillRecommendationsRequest) (string, error)
	MatchStrategy(ctx context.Context, req advisor.MatchStrategyRequest) (string, error)
}

// archetype is a canned player profile used to warm training plans for
// players that do not exist yet.
type archetype struct {
	position   string
	strengths  string
	weaknesses string
}

var archetypes = []archetype{
	{"forward", "finishing, pace", "defensive work rate"},
	{"midfielder", "passing range, vision", "aerial duels"},
	{"defender", "tackling, positioning", "distribution under pressure"},
	{"goalkeeper", "shot stopping, reflexes", "playing out from the back"},
}

var ageGroups = []string{"U10", "U12", "U14", "U16", "U18"}

var focusAreas = []string{"passing", "shooting", "dribbling", "defending", "positioning", "fitness"}

var skillLevels = []string{"beginner", "intermediate", "advanced"}

// matchScenarios pairs match importance with weather conditions.
var matchScenarios = []advisor.MatchStrategyRequest{
	{Importance: "league", Weather: "clear"},
	{Importance: "league", Weather: "rain"},
	{Importance: "cup", Weather: "clear"},
	{Importance: "cup", Weather: "wind"},
	{Importance: "friendly", Weather: "heat"},
	{Importance: "tournament", Weather: "cold"},
}

const (
	defaultMaxPlayers = 20
	recentRecordLimit = 5
)

// Orchestrator runs the full warmup sequence.
type Orchestrator struct {
	ops        Ops
	roster     roster.Store
	history    *History
	maxPlayers int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxPlayers caps how many active players get a warmed analysis.
func WithMaxPlayers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxPlayers = n
		}
	}
}

// WithHistory records each run's report.
func WithHistory(h *History) Option {
	return func(o *Orchestrator) { o.history = h }
}

// New creates an Orchestrator over the advisor operations and roster.
func New(ops Ops, r roster.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ops:        ops,
		roster:     r,
		maxPlayers: defaultMaxPlayers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunFull runs the four sub-warmups sequentially and aggregates their
// reports. Failed items are counted and recorded, never retried; entries
// already cached by earlier items stay valid regardless of later failures.
// The returned error is non-nil only when the context is cancelled.
func (o *Orchestrator) RunFull(ctx context.Context) (*models.WarmupReport, error) {
	report := &models.WarmupReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log.Printf("warmup %s: starting", report.RunID)

	err := o.warmPlayerAnalyses(ctx, &report.PlayerAnalyses)
	if err == nil {
		err = o.warmTrainingPlans(ctx, &report.TrainingPlans)
	}
	if err == nil {
		err = o.warmDrillRecommendations(ctx, &report.DrillRecommendations)
	}
	if err == nil {
		err = o.warmMatchStrategies(ctx, &report.MatchStrategies)
	}

	report.Duration = time.Since(report.StartedAt)
	log.Printf("warmup %s: %d succeeded, %d failed in %s",
		report.RunID, report.TotalSuccess(), report.TotalFailed(), report.Duration.Round(time.Millisecond))

	if o.history != nil {
		if herr := o.history.Record(ctx, report); herr != nil {
			log.Printf("warmup %s: record history: %v", report.RunID, herr)
		}
	}
	return report, err
}

// warmPlayerAnalyses warms an analysis for up to maxPlayers active players,
// feeding each their recent performance records.
func (o *Orchestrator) warmPlayerAnalyses(ctx context.Context, batch *models.BatchReport) error {
	players, err := o.roster.ListActivePlayers(ctx, o.maxPlayers)
	if err != nil {
		batch.Record(fmt.Errorf("list players: %w", err))
		return nil
	}
	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return err
		}
		recent, err := o.roster.RecentPerformance(ctx, p.ID, recentRecordLimit)
		if err != nil {
			batch.Record(fmt.Errorf("player %s: %w", p.ID, err))
			continue
		}
		_, err = o.ops.PlayerAnalysis(ctx, advisor.PlayerAnalysisRequest{Player: p, Recent: recent})
		if err != nil {
			err = fmt.Errorf("player %s: %w", p.ID, err)
		}
		batch.Record(err)
	}
	return nil
}

// warmTrainingPlans warms the archetype x age-group matrix.
func (o *Orchestrator) warmTrainingPlans(ctx context.Context, batch *models.BatchReport) error {
	for _, a := range archetypes {
		for _, age := range ageGroups {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := o.ops.TrainingPlan(ctx, advisor.TrainingPlanRequest{
				Position:   a.position,
				AgeGroup:   age,
				Strengths:  a.strengths,
				Weaknesses: a.weaknesses,
			})
			if err != nil {
				err = fmt.Errorf("%s %s: %w", a.position, age, err)
			}
			batch.Record(err)
		}
	}
	return nil
}

// warmDrillRecommendations warms the focus x age-group x skill matrix.
func (o *Orchestrator) warmDrillRecommendations(ctx context.Context, batch *models.BatchReport) error {
	for _, focus := range focusAreas {
		for _, age := range ageGroups {
			for _, level := range skillLevels {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, err := o.ops.DrillRecommendations(ctx, advisor.DrillRecommendationsRequest{
					FocusArea:  focus,
					AgeGroup:   age,
					SkillLevel: level,
				})
				if err != nil {
					err = fmt.Errorf("%s %s %s: %w", focus, age, level, err)
				}
				batch.Record(err)
			}
		}
	}
	return nil
}

// warmMatchStrategies warms the fixed scenario list.
func (o *Orchestrator) warmMatchStrategies(ctx context.Context, batch *models.BatchReport) error {
	for _, scenario := range matchScenarios {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := o.ops.MatchStrategy(ctx, scenario)
		if err != nil {
			err = fmt.Errorf("%s/%s: %w", scenario.Importance, scenario.Weather, err)
		}
		batch.Record(err)
	}
	return nil
}
