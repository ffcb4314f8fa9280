package advisor

import (
	"fmt"
	"strings"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

const coachSystemPrompt = "You are an experienced youth football academy coach. " +
	"Give specific, actionable advice appropriate for the player's age group. " +
	"Keep answers concise and structured."

const medicalSystemPrompt = "You are a sports science advisor for a youth football academy. " +
	"Assess injury risk conservatively and recommend load management where warranted. " +
	"You are not a substitute for medical staff; say so when risk is elevated."

const parentSystemPrompt = "You are writing to the parents of a youth football academy player. " +
	"Be encouraging and plain-spoken; avoid tactical jargon."

func playerAnalysisPrompt(p models.PlayerProfile, recent []models.PerformanceRecord) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the development of %s, a %s in the %s age group.\n", p.Name, p.Position, p.AgeGroup)
	if p.Strengths != "" {
		fmt.Fprintf(&b, "Known strengths: %s.\n", p.Strengths)
	}
	if p.Weaknesses != "" {
		fmt.Fprintf(&b, "Known weaknesses: %s.\n", p.Weaknesses)
	}
	writeRecent(&b, recent)
	b.WriteString("Summarize current form, the top development priority, and one concrete next step.")
	return coachSystemPrompt, b.String()
}

func trainingPlanPrompt(req TrainingPlanRequest) (system, user string) {
	user = fmt.Sprintf(
		"Create a one-week training plan for a %s in the %s age group. Strengths: %s. Weaknesses: %s. "+
			"Lay out each day with its main focus and one key drill.",
		req.Position, req.AgeGroup, req.Strengths, req.Weaknesses)
	return coachSystemPrompt, user
}

func drillRecommendationsPrompt(req DrillRecommendationsRequest) (system, user string) {
	user = fmt.Sprintf(
		"Recommend three %s drills for %s players at %s level. "+
			"For each drill give setup, duration, and the coaching point to watch.",
		req.FocusArea, req.AgeGroup, req.SkillLevel)
	return coachSystemPrompt, user
}

func matchStrategyPrompt(req MatchStrategyRequest) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Propose a match strategy for a %s match in %s conditions.\n", req.Importance, req.Weather)
	if req.Opponent != "" {
		fmt.Fprintf(&b, "Opponent: %s.\n", req.Opponent)
	}
	b.WriteString("Cover formation, pressing approach, and one adjustment to make if trailing at halftime.")
	return coachSystemPrompt, b.String()
}

func injuryPredictionPrompt(p models.PlayerProfile, recent []models.PerformanceRecord) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess injury risk for %s (%s, %s age group).\n", p.Name, p.Position, p.AgeGroup)
	writeRecent(&b, recent)
	b.WriteString("Rate overall risk as low, moderate, or high and justify the rating.")
	return medicalSystemPrompt, b.String()
}

func parentReportPrompt(p models.PlayerProfile, recent []models.PerformanceRecord) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short progress update about %s (%s age group) for their parents.\n", p.Name, p.AgeGroup)
	writeRecent(&b, recent)
	b.WriteString("Highlight one improvement, one thing to keep working on, and end on a positive note.")
	return parentSystemPrompt, b.String()
}

func writeRecent(b *strings.Builder, recent []models.PerformanceRecord) {
	if len(recent) == 0 {
		b.WriteString("No recent performance records are available.\n")
		return
	}
	b.WriteString("Recent performance (newest first, scores 0-100):\n")
	for _, r := range recent {
		fmt.Fprintf(b, "- %s: speed %d, stamina %d, passing %d, shooting %d",
			r.RecordedAt.Format("2006-01-02"), r.Speed, r.Stamina, r.Passing, r.Shooting)
		if r.Notes != "" {
			fmt.Fprintf(b, " (%s)", r.Notes)
		}
		b.WriteString("\n")
	}
}
