package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/win-predictor/internal/database"
	"github.com/yourusername/win-predictor/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction history repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a served prediction
func (p *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.PredictionRecord) error {
	query := `
		INSERT INTO predictions (id, batting_team, bowling_team, city, target, score, overs, wickets,
			win_probability, loss_probability, model_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.BattingTeam, prediction.BowlingTeam, prediction.City,
		prediction.Target, prediction.Score, prediction.Overs, prediction.Wickets,
		prediction.WinProbability, prediction.LossProbability, prediction.ModelVersion, prediction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// GetRecent returns the newest predictions first
func (p *PostgresPredictionRepository) GetRecent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	query := `
		SELECT id, batting_team, bowling_team, city, target, score, overs, wickets,
			win_probability, loss_probability, model_version, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := p.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]*models.PredictionRecord, 0, limit)
	for rows.Next() {
		pr := &models.PredictionRecord{}
		err := rows.Scan(
			&pr.ID, &pr.BattingTeam, &pr.BowlingTeam, &pr.City, &pr.Target, &pr.Score, &pr.Overs, &pr.Wickets,
			&pr.WinProbability, &pr.LossProbability, &pr.ModelVersion, &pr.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, pr)
	}

	return predictions, rows.Err()
}

// DeleteOlderThan removes predictions created before cutoff
func (p *PostgresPredictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.db.GetPool().Exec(ctx, "DELETE FROM predictions WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune predictions: %w", err)
	}
	return tag.RowsAffected(), nil
}
