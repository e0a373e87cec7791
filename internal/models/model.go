package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Model is a registry row describing one fitted artifact. At most one row
// per name is active; the API reports its version.
type Model struct {
	ID               uuid.UUID       `db:"id" json:"id" validate:"required"`
	Name             string          `db:"name" json:"name" validate:"required"`
	Version          string          `db:"version" json:"version" validate:"required"`
	ModelType        string          `db:"model_type" json:"model_type" validate:"required"`
	Path             string          `db:"path" json:"path" validate:"required"`
	Metrics          json.RawMessage `db:"metrics" json:"metrics"`
	Hyperparameters  json.RawMessage `db:"hyperparameters" json:"hyperparameters"`
	TrainingExamples int             `db:"training_examples" json:"training_examples"`
	TrainedAt        time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active           bool            `db:"active" json:"active"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// Metric looks up one evaluation figure, e.g. "validation_accuracy".
func (m *Model) Metric(name string) (float64, bool) {
	if len(m.Metrics) == 0 {
		return 0, false
	}
	var figures map[string]float64
	if err := json.Unmarshal(m.Metrics, &figures); err != nil {
		return 0, false
	}
	v, ok := figures[name]
	return v, ok
}
