package ml

import (
	"fmt"

	"github.com/yourusername/win-predictor/internal/models"
)

// Pipeline chains an Encoder and a Classifier into a Scorer. Both are
// fitted together exactly once and are read-only afterwards, so a fitted
// Pipeline is safe for concurrent PredictProba calls.
type Pipeline struct {
	encoder    Encoder
	classifier Classifier
	fitted     bool
}

// NewPipeline returns an unfitted pipeline over the given components.
func NewPipeline(encoder Encoder, classifier Classifier) *Pipeline {
	return &Pipeline{encoder: encoder, classifier: classifier}
}

// NewLogisticPipeline returns the default one-hot plus logistic regression pipeline.
func NewLogisticPipeline(params Hyperparameters) *Pipeline {
	return NewPipeline(NewOneHotEncoder(), NewLogisticRegression(params))
}

// Fit fits the encoder on features and the classifier on the encoded rows.
// A pipeline whose Fit failed must be discarded.
func (p *Pipeline) Fit(fvs []models.FeatureVector, labels []int) error {
	if p.fitted {
		return ErrAlreadyFitted
	}
	if len(fvs) != len(labels) {
		return fmt.Errorf("%w: %d feature vectors, %d labels", ErrShapeMismatch, len(fvs), len(labels))
	}

	if err := p.encoder.Fit(fvs); err != nil {
		return fmt.Errorf("failed to fit encoder: %w", err)
	}

	X := make([][]float64, len(fvs))
	for i, fv := range fvs {
		X[i] = p.encoder.Transform(fv)
	}
	if err := p.classifier.Fit(X, labels); err != nil {
		return fmt.Errorf("failed to fit classifier: %w", err)
	}

	p.fitted = true
	return nil
}

// PredictProba scores fv without touching fitted state.
func (p *Pipeline) PredictProba(fv models.FeatureVector) (float64, float64, error) {
	if !p.fitted {
		return 0, 0, ErrNotFitted
	}
	pLoss, pWin := p.classifier.PredictProba(p.encoder.Transform(fv))
	return pLoss, pWin, nil
}

// Fitted reports whether Fit has completed.
func (p *Pipeline) Fitted() bool {
	return p.fitted
}

// Vocabulary returns the known values of a categorical column, if the
// encoder exposes them.
func (p *Pipeline) Vocabulary(column string) []string {
	if v, ok := p.encoder.(interface{ Vocabulary(string) []string }); ok {
		return v.Vocabulary(column)
	}
	return nil
}
