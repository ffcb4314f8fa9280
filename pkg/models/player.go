package models

import "time"

// PlayerProfile describes a registered academy player.
type PlayerProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	AgeGroup   string    `json:"age_group"`
	Strengths  string    `json:"strengths,omitempty"`
	Weaknesses string    `json:"weaknesses,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// PerformanceRecord is one training or match performance measurement.
type PerformanceRecord struct {
	ID         int64     `json:"id"`
	PlayerID   string    `json:"player_id"`
	Speed      int       `json:"speed"`
	Stamina    int       `json:"stamina"`
	Passing    int       `json:"passing"`
	Shooting   int       `json:"shooting"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
