package models

// MatchSnapshot is the observable state of a chase at one instant.
// Overs uses cricket notation: 12.3 is twelve overs and three balls.
type MatchSnapshot struct {
	BattingTeam string  `json:"batting_team"`
	BowlingTeam string  `json:"bowling_team"`
	City        string  `json:"city"`
	Target      float64 `json:"target"`
	Score       float64 `json:"score"`
	Overs       float64 `json:"overs"`
	Wickets     float64 `json:"wickets"`
}

// FeatureVector is the fixed-shape model input derived from a MatchSnapshot.
// Field order matches the encoder column order.
type FeatureVector struct {
	BattingTeam      string  `json:"batting_team"`
	BowlingTeam      string  `json:"bowling_team"`
	City             string  `json:"city"`
	RunsLeft         float64 `json:"runs_left"`
	BallsLeft        float64 `json:"balls_left"`
	WicketsRemaining float64 `json:"wickets_remaining"`
	Target           float64 `json:"target"`
	CurrentRunRate   float64 `json:"crr"`
	RequiredRunRate  float64 `json:"rrr"`
}

// Categorical returns the categorical columns in encoder order.
func (f FeatureVector) Categorical() []string {
	return []string{f.BattingTeam, f.BowlingTeam, f.City}
}

// Numeric returns the numeric columns in encoder order.
func (f FeatureVector) Numeric() []float64 {
	return []float64{
		f.RunsLeft,
		f.BallsLeft,
		f.WicketsRemaining,
		f.Target,
		f.CurrentRunRate,
		f.RequiredRunRate,
	}
}

// TrainingExample pairs a FeatureVector with its outcome label.
type TrainingExample struct {
	Features FeatureVector `json:"features"`
	// Label is 1 when the chasing team won.
	Label int `json:"label"`
}
