package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is a served prediction kept for the history endpoint.
type PredictionRecord struct {
	ID              uuid.UUID `db:"id" json:"id"`
	BattingTeam     string    `db:"batting_team" json:"batting_team"`
	BowlingTeam     string    `db:"bowling_team" json:"bowling_team"`
	City            string    `db:"city" json:"city"`
	Target          float64   `db:"target" json:"target"`
	Score           float64   `db:"score" json:"score"`
	Overs           float64   `db:"overs" json:"overs"`
	Wickets         float64   `db:"wickets" json:"wickets"`
	WinProbability  float64   `db:"win_probability" json:"win_probability"`
	LossProbability float64   `db:"loss_probability" json:"loss_probability"`
	ModelVersion    string    `db:"model_version" json:"model_version"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
