package models

import "time"

// BatchReport summarizes one warmup batch.
type BatchReport struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Record counts one warmup item. A nil err counts as a success; otherwise
// the error message is kept alongside the failure count.
func (b *BatchReport) Record(err error) {
	if err == nil {
		b.Success++
		return
	}
	b.Failed++
	b.Errors = append(b.Errors, err.Error())
}

// WarmupReport aggregates the four warmup batches of a single run.
type WarmupReport struct {
	RunID                string        `json:"run_id"`
	StartedAt            time.Time     `json:"started_at"`
	Duration             time.Duration `json:"duration"`
	PlayerAnalyses       BatchReport   `json:"player_analyses"`
	TrainingPlans        BatchReport   `json:"training_plans"`
	DrillRecommendations BatchReport   `json:"drill_recommendations"`
	MatchStrategies      BatchReport   `json:"match_strategies"`
}

// TotalSuccess returns the number of successfully warmed items across all batches.
func (r *WarmupReport) TotalSuccess() int {
	return r.PlayerAnalyses.Success + r.TrainingPlans.Success +
		r.DrillRecommendations.Success + r.MatchStrategies.Success
}

// TotalFailed returns the number of failed items across all batches.
func (r *WarmupReport) TotalFailed() int {
	return r.PlayerAnalyses.Failed + r.TrainingPlans.Failed +
		r.DrillRecommendations.Failed + r.MatchStrategies.Failed
}

// WarmupRun is the aggregate view of a past run, as listed from history.
type WarmupRun struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   int           `json:"success"`
	Failed    int           `json:"failed"`
}
