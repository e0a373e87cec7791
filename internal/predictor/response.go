package predictor

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/win-predictor/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Response is the outcome of a successful prediction.
type Response struct {
	BattingTeam     string  `json:"batting_team"`
	BowlingTeam     string  `json:"bowling_team"`
	WinProbability  float64 `json:"win_probability"`
	LossProbability float64 `json:"loss_probability"`
	RunsLeft        float64 `json:"runs_left"`
	BallsLeft       float64 `json:"balls_left"`
	CurrentRunRate  float64 `json:"current_run_rate"`
	RequiredRunRate float64 `json:"required_run_rate"`
	ModelVersion    string  `json:"model_version,omitempty"`
}

// newResponse expresses pWin as a percentage rounded half-up to two places.
// The loss percentage is its complement so the pair always sums to 100.
func newResponse(fv models.FeatureVector, pWin float64, version string) *Response {
	win := decimal.NewFromFloat(pWin).Mul(hundred).Round(2)
	loss := hundred.Sub(win)

	return &Response{
		BattingTeam:     fv.BattingTeam,
		BowlingTeam:     fv.BowlingTeam,
		WinProbability:  win.InexactFloat64(),
		LossProbability: loss.InexactFloat64(),
		RunsLeft:        fv.RunsLeft,
		BallsLeft:       fv.BallsLeft,
		CurrentRunRate:  round2(fv.CurrentRunRate),
		RequiredRunRate: round2(fv.RequiredRunRate),
		ModelVersion:    version,
	}
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
