package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/win-predictor/internal/models"
)

// ModelRepository defines the interface for the trained model registry
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetActive(ctx context.Context, name string) (*models.Model, error)
	GetByVersion(ctx context.Context, name, version string) (*models.Model, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}

// PredictionRepository defines the interface for served prediction history
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.PredictionRecord) error
	GetRecent(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
