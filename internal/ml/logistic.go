package ml

import (
	"fmt"
	"math"
)

// Hyperparameters control LogisticRegression training.
type Hyperparameters struct {
	LearningRate float64 `json:"learning_rate"`
	Iterations   int     `json:"iterations"`
	L2           float64 `json:"l2"`
}

// DefaultHyperparameters returns settings that converge on the IPL dataset.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		LearningRate: 0.1,
		Iterations:   500,
		L2:           0.001,
	}
}

// LogisticRegression is an L2-regularised logistic model trained by batch
// gradient descent on standardised inputs.
type LogisticRegression struct {
	Params  Hyperparameters `json:"hyperparameters"`
	Weights []float64       `json:"weights"`
	Bias    float64         `json:"bias"`
	Means   []float64       `json:"means"`
	Scales  []float64       `json:"scales"`
}

// NewLogisticRegression returns an unfitted model.
func NewLogisticRegression(params Hyperparameters) *LogisticRegression {
	return &LogisticRegression{Params: params}
}

// Fitted reports whether weights are present.
func (lr *LogisticRegression) Fitted() bool {
	return len(lr.Weights) > 0
}

// Fit learns weights for X and binary labels y.
func (lr *LogisticRegression) Fit(X [][]float64, y []int) error {
	if lr.Fitted() {
		return ErrAlreadyFitted
	}
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, len(X), len(y))
	}
	if lr.Params.Iterations <= 0 || lr.Params.LearningRate <= 0 {
		return fmt.Errorf("invalid hyperparameters: %+v", lr.Params)
	}

	width := len(X[0])
	var positives int
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), width)
		}
		switch y[i] {
		case 1:
			positives++
		case 0:
		default:
			return fmt.Errorf("%w: got %d at row %d", ErrInvalidLabel, y[i], i)
		}
	}
	if positives == 0 || positives == len(y) {
		return ErrSingleClass
	}

	means, scales := standardisation(X)
	Z := make([][]float64, len(X))
	for i, row := range X {
		Z[i] = scale(row, means, scales)
	}

	n := float64(len(Z))
	w := make([]float64, width)
	grad := make([]float64, width)
	var b float64
	for iter := 0; iter < lr.Params.Iterations; iter++ {
		for k := range grad {
			grad[k] = 0
		}
		var gradB float64
		for i, z := range Z {
			err := sigmoid(b+dot(w, z)) - float64(y[i])
			for k := range grad {
				grad[k] += err * z[k]
			}
			gradB += err
		}
		for k := range w {
			w[k] -= lr.Params.LearningRate * (grad[k]/n + lr.Params.L2*w[k])
		}
		b -= lr.Params.LearningRate * gradB / n
	}

	lr.Weights = w
	lr.Bias = b
	lr.Means = means
	lr.Scales = scales
	return nil
}

// PredictProba returns (P(loss), P(win)) for x. Rows with the wrong width
// are scored on the columns they share with the model.
func (lr *LogisticRegression) PredictProba(x []float64) (float64, float64) {
	var z float64
	for k := range lr.Weights {
		if k >= len(x) {
			break
		}
		z += lr.Weights[k] * (x[k] - lr.Means[k]) / lr.Scales[k]
	}
	pWin := sigmoid(lr.Bias + z)
	return 1 - pWin, pWin
}

// standardisation returns per-column mean and standard deviation; constant
// columns get a scale of 1.
func standardisation(X [][]float64) (means, scales []float64) {
	width := len(X[0])
	n := float64(len(X))
	means = make([]float64, width)
	scales = make([]float64, width)

	for _, row := range X {
		for k, v := range row {
			means[k] += v
		}
	}
	for k := range means {
		means[k] /= n
	}
	for _, row := range X {
		for k, v := range row {
			d := v - means[k]
			scales[k] += d * d
		}
	}
	for k := range scales {
		scales[k] = math.Sqrt(scales[k] / n)
		if scales[k] == 0 || math.IsNaN(scales[k]) {
			scales[k] = 1
		}
	}
	return means, scales
}

func scale(row, means, scales []float64) []float64 {
	out := make([]float64, len(row))
	for k, v := range row {
		out[k] = (v - means[k]) / scales[k]
	}
	return out
}

func sigmoid(z float64) float64 {
	if math.IsNaN(z) {
		return 0.5
	}
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
