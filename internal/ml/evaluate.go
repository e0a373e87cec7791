package ml

import (
	"fmt"
	"math"

	"github.com/yourusername/win-predictor/internal/models"
)

const probabilityEpsilon = 1e-15

// Evaluation holds held-out quality measures of a Scorer.
type Evaluation struct {
	Samples  int     `json:"samples"`
	Accuracy float64 `json:"accuracy"`
	LogLoss  float64 `json:"log_loss"`
	Brier    float64 `json:"brier"`
}

// Map flattens the evaluation for logging and artifact metadata.
func (e Evaluation) Map(prefix string) map[string]float64 {
	return map[string]float64{
		prefix + "accuracy": e.Accuracy,
		prefix + "log_loss": e.LogLoss,
		prefix + "brier":    e.Brier,
	}
}

// Evaluate scores every example with s and aggregates the results.
func Evaluate(s Scorer, examples []models.TrainingExample) (Evaluation, error) {
	ev := Evaluation{Samples: len(examples)}
	if len(examples) == 0 {
		return ev, nil
	}

	var correct int
	var logLoss, brier float64
	for i, ex := range examples {
		_, pWin, err := s.PredictProba(ex.Features)
		if err != nil {
			return ev, fmt.Errorf("failed to score example %d: %w", i, err)
		}

		y := float64(ex.Label)
		predicted := 0
		if pWin >= 0.5 {
			predicted = 1
		}
		if predicted == ex.Label {
			correct++
		}

		p := math.Min(math.Max(pWin, probabilityEpsilon), 1-probabilityEpsilon)
		logLoss -= y*math.Log(p) + (1-y)*math.Log(1-p)
		brier += (pWin - y) * (pWin - y)
	}

	n := float64(len(examples))
	ev.Accuracy = float64(correct) / n
	ev.LogLoss = logLoss / n
	ev.Brier = brier / n
	return ev, nil
}
