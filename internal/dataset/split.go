package dataset

import (
	"math"

	"github.com/yourusername/win-predictor/internal/models"
)

// Split partitions already shuffled examples into train and validation sets.
// The validation share is rounded to the nearest example; at least one
// example is always kept for training.
func Split(examples []models.TrainingExample, validationFraction float64) (train, validation []models.TrainingExample) {
	if len(examples) == 0 {
		return nil, nil
	}
	if validationFraction <= 0 || validationFraction >= 1 {
		return examples, nil
	}

	nVal := int(math.Round(float64(len(examples)) * validationFraction))
	if nVal >= len(examples) {
		nVal = len(examples) - 1
	}
	cut := len(examples) - nVal
	return examples[:cut], examples[cut:]
}

// FeaturesAndLabels unzips examples into parallel slices for Scorer.Fit.
func FeaturesAndLabels(examples []models.TrainingExample) ([]models.FeatureVector, []int) {
	fvs := make([]models.FeatureVector, len(examples))
	labels := make([]int, len(examples))
	for i, ex := range examples {
		fvs[i] = ex.Features
		labels[i] = ex.Label
	}
	return fvs, labels
}
