package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/win-predictor/internal/database"
	"github.com/yourusername/win-predictor/internal/models"
)

const modelColumns = `id, name, version, model_type, path, hyperparameters, metrics, training_examples, trained_at, active, created_at, updated_at`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create inserts a new model registry entry
func (m *PostgresModelRepository) Create(ctx context.Context, model *models.Model) error {
	query := `
		INSERT INTO models (id, name, version, model_type, path, hyperparameters, metrics, training_examples, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		model.ID, model.Name, model.Version, model.ModelType, model.Path, model.Hyperparameters, model.Metrics, model.TrainingExamples, model.TrainedAt, model.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("model %s version %s: %w", model.Name, model.Version, models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

// GetByID retrieves a model by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE id = $1`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return model, nil
}

// GetActive retrieves the active version of a model
func (m *PostgresModelRepository) GetActive(ctx context.Context, name string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 AND active = true`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get active model: %w", err)
	}
	return model, nil
}

// GetByVersion retrieves a specific model version
func (m *PostgresModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 AND version = $2`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, name, version))
	if err != nil {
		return nil, fmt.Errorf("failed to get model by version: %w", err)
	}
	return model, nil
}

// SetActive sets a model as active and deactivates other versions
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE models SET active = false, updated_at = NOW() WHERE name = $1 AND id != $2", model.Name, id); err != nil {
			return fmt.Errorf("failed to deactivate other versions: %w", err)
		}
		if _, err := tx.Exec(ctx, "UPDATE models SET active = true, updated_at = NOW() WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}
		return nil
	})
}

func scanModel(row pgx.Row) (*models.Model, error) {
	model := &models.Model{}
	err := row.Scan(
		&model.ID, &model.Name, &model.Version, &model.ModelType, &model.Path, &model.Hyperparameters,
		&model.Metrics, &model.TrainingExamples, &model.TrainedAt, &model.Active, &model.CreatedAt, &model.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model, nil
}
