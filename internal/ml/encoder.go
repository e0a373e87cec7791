package ml

import (
	"fmt"
	"sort"

	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/models"
)

// OneHotEncoder expands each categorical column into one indicator per
// known value and passes numeric columns through unchanged. A value not
// seen during Fit encodes as an all-zero block.
type OneHotEncoder struct {
	Categories [][]string `json:"categories"`

	index []map[string]int
}

// NewOneHotEncoder returns an unfitted encoder.
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit learns the sorted vocabulary of every categorical column.
func (e *OneHotEncoder) Fit(fvs []models.FeatureVector) error {
	if e.Fitted() {
		return ErrAlreadyFitted
	}
	if len(fvs) == 0 {
		return fmt.Errorf("%w: no rows to fit", ErrShapeMismatch)
	}

	seen := make([]map[string]struct{}, len(features.CategoricalColumns))
	for i := range seen {
		seen[i] = make(map[string]struct{})
	}
	for _, fv := range fvs {
		for i, v := range fv.Categorical() {
			seen[i][v] = struct{}{}
		}
	}

	categories := make([][]string, len(seen))
	for i, set := range seen {
		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		sort.Strings(values)
		categories[i] = values
	}

	e.Categories = categories
	e.buildIndex()
	return nil
}

// Fitted reports whether the vocabulary is known.
func (e *OneHotEncoder) Fitted() bool {
	return len(e.Categories) == len(features.CategoricalColumns)
}

func (e *OneHotEncoder) buildIndex() {
	e.index = make([]map[string]int, len(e.Categories))
	for i, values := range e.Categories {
		e.index[i] = make(map[string]int, len(values))
		for j, v := range values {
			e.index[i][v] = j
		}
	}
}

// Transform encodes fv. It only reads encoder state.
func (e *OneHotEncoder) Transform(fv models.FeatureVector) []float64 {
	row := make([]float64, 0, e.Width())
	for i, v := range fv.Categorical() {
		if i >= len(e.index) {
			break
		}
		block := make([]float64, len(e.Categories[i]))
		if j, ok := e.index[i][v]; ok {
			block[j] = 1
		}
		row = append(row, block...)
	}
	return append(row, fv.Numeric()...)
}

// Width is the length of an encoded row.
func (e *OneHotEncoder) Width() int {
	w := len(features.NumericColumns)
	for _, values := range e.Categories {
		w += len(values)
	}
	return w
}

// Vocabulary returns the known values of a categorical column.
func (e *OneHotEncoder) Vocabulary(column string) []string {
	for i, name := range features.CategoricalColumns {
		if name == column && i < len(e.Categories) {
			return append([]string(nil), e.Categories[i]...)
		}
	}
	return nil
}

// Known reports whether value was seen for column during Fit.
func (e *OneHotEncoder) Known(column, value string) bool {
	for i, name := range features.CategoricalColumns {
		if name == column && i < len(e.index) {
			_, ok := e.index[i][value]
			return ok
		}
	}
	return false
}
