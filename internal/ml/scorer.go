package ml

import "github.com/yourusername/win-predictor/internal/models"

// Scorer is a probabilistic binary classifier over FeatureVectors.
// Fit is one-shot; PredictProba never changes the fitted state.
type Scorer interface {
	Fit(features []models.FeatureVector, labels []int) error
	PredictProba(fv models.FeatureVector) (pLoss, pWin float64, err error)
}

// Encoder maps a FeatureVector to a numeric row.
type Encoder interface {
	Fit(features []models.FeatureVector) error
	Transform(fv models.FeatureVector) []float64
	Width() int
}

// Classifier is a binary classifier over numeric rows.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(x []float64) (pLoss, pWin float64)
}
