package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/models"
)

// ExportCSV writes the labeled feature table with a header row.
func ExportCSV(w io.Writer, examples []models.TrainingExample) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, features.Columns...), "result")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, ex := range examples {
		row := append([]string{}, ex.Features.Categorical()...)
		for _, v := range ex.Features.Numeric() {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, strconv.Itoa(ex.Label))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
