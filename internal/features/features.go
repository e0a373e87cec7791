// Package features derives the classifier input from a chase snapshot.
//
// Derive is the only place match state becomes a FeatureVector. The dataset
// builder and the inference service both call it, so a model always sees the
// same feature semantics at training and at serving time.
package features

import (
	"math"

	"github.com/yourusername/win-predictor/internal/models"
)

const (
	// BallsPerOver is the number of legal deliveries in an over.
	BallsPerOver = 6
	// InningsOvers is the length of a chasing innings.
	InningsOvers = 20
	// InningsBalls is the number of legal balls in a full innings.
	InningsBalls = InningsOvers * BallsPerOver
	// MaxWickets is the number of dismissals that ends an innings.
	MaxWickets = 10
)

// Column names in encoder order.
var (
	CategoricalColumns = []string{"batting_team", "bowling_team", "city"}
	NumericColumns     = []string{"runs_left", "balls_left", "wickets_remaining", "target", "crr", "rrr"}
	Columns            = append(append([]string{}, CategoricalColumns...), NumericColumns...)
)

// Derive computes the FeatureVector for a snapshot. It never fails: run
// rates fall back to 0 whenever their divisor is not positive or the result
// would be negative, and any non-finite number is replaced by 0.
func Derive(s models.MatchSnapshot) models.FeatureVector {
	target := finite(s.Target)
	score := finite(s.Score)
	wickets := finite(s.Wickets)

	ballsBowled := BallsBowled(s.Overs)
	ballsLeft := InningsBalls - ballsBowled
	runsLeft := target - score

	var crr float64
	if ballsBowled > 0 {
		crr = score * BallsPerOver / ballsBowled
	}

	var rrr float64
	if ballsLeft > 0 {
		rrr = runsLeft * BallsPerOver / ballsLeft
	}

	return models.FeatureVector{
		BattingTeam:      s.BattingTeam,
		BowlingTeam:      s.BowlingTeam,
		City:             s.City,
		RunsLeft:         finite(runsLeft),
		BallsLeft:        finite(ballsLeft),
		WicketsRemaining: finite(MaxWickets - wickets),
		Target:           target,
		CurrentRunRate:   nonNegative(crr),
		RequiredRunRate:  nonNegative(rrr),
	}
}

// BallsBowled converts overs notation to a legal-ball count. The fractional
// digit counts balls in the current over, so 12.3 is 75 balls.
func BallsBowled(overs float64) float64 {
	if math.IsNaN(overs) || math.IsInf(overs, 0) || overs <= 0 {
		return 0
	}
	whole := math.Floor(overs)
	balls := math.Round((overs - whole) * 10)
	return whole*BallsPerOver + balls
}

// OversNotation is the inverse of BallsBowled for non-negative ball counts.
func OversNotation(balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(balls/BallsPerOver) + float64(balls%BallsPerOver)/10
}

// Valid reports whether fv satisfies the training-time data-quality filter.
func Valid(fv models.FeatureVector) bool {
	switch {
	case fv.BallsLeft <= 0 || fv.BallsLeft > InningsBalls:
		return false
	case fv.RunsLeft < 0:
		return false
	case fv.WicketsRemaining < 0 || fv.WicketsRemaining > MaxWickets:
		return false
	case fv.CurrentRunRate < 0 || fv.RequiredRunRate < 0:
		return false
	}
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
