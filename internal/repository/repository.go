package repository

import (
	"fmt"

	"github.com/yourusername/win-predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Model      ModelRepository
	Prediction PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Model:      NewPostgresModelRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
	}, nil
}
