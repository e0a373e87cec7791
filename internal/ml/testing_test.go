package ml

import (
	"math/rand"

	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/models"
)

var (
	testTeams  = []string{"Mumbai Indians", "Chennai Super Kings", "Delhi Capitals", "Rajasthan Royals"}
	testCities = []string{"Mumbai", "Chennai", "Delhi", "Jaipur"}
)

// syntheticExamples builds chase snapshots labeled won when the required
// rate is below nine an over.
func syntheticExamples(n int, seed int64) []models.TrainingExample {
	rng := rand.New(rand.NewSource(seed))
	examples := make([]models.TrainingExample, 0, n)
	for len(examples) < n {
		batting := testTeams[rng.Intn(len(testTeams))]
		bowling := testTeams[rng.Intn(len(testTeams))]
		if batting == bowling {
			continue
		}
		target := float64(140 + rng.Intn(80))
		balls := 1 + rng.Intn(119)
		wickets := float64(rng.Intn(10))
		score := float64(rng.Intn(int(target)))

		fv := features.Derive(models.MatchSnapshot{
			BattingTeam: batting,
			BowlingTeam: bowling,
			City:        testCities[rng.Intn(len(testCities))],
			Target:      target,
			Score:       score,
			Overs:       features.OversNotation(balls),
			Wickets:     wickets,
		})
		label := 0
		if fv.RequiredRunRate < 9 {
			label = 1
		}
		examples = append(examples, models.TrainingExample{Features: fv, Label: label})
	}
	return examples
}

func unzip(examples []models.TrainingExample) ([]models.FeatureVector, []int) {
	fvs := make([]models.FeatureVector, len(examples))
	labels := make([]int, len(examples))
	for i, ex := range examples {
		fvs[i] = ex.Features
		labels[i] = ex.Label
	}
	return fvs, labels
}

func fittedPipeline() *Pipeline {
	fvs, labels := unzip(syntheticExamples(600, 7))
	p := NewLogisticPipeline(Hyperparameters{LearningRate: 0.3, Iterations: 300, L2: 0.001})
	if err := p.Fit(fvs, labels); err != nil {
		panic(err)
	}
	return p
}
