package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/win-predictor/internal/dataset"
	"github.com/yourusername/win-predictor/internal/datasource"
	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/logger"
	"github.com/yourusername/win-predictor/internal/metrics"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/models"
	"github.com/yourusername/win-predictor/internal/repository"
)

// ModelType is recorded in artifact metadata and the model registry.
const ModelType = "logistic_regression"

// ErrRegistryUnavailable is returned when registration is requested without a database.
var ErrRegistryUnavailable = errors.New("model registry requires a database")

// TrainingOptions configures one training run
type TrainingOptions struct {
	ModelName          string
	ModelVersion       string
	OutputPath         string
	ExportPath         string
	ValidationFraction float64
	Hyperparameters    ml.Hyperparameters
	Register           bool
}

// TrainingResult summarises a completed training run
type TrainingResult struct {
	Report            *dataset.Report
	InvalidMatches    int
	InvalidDeliveries int
	TrainSize         int
	ValidationSize    int
	TrainEval         ml.Evaluation
	ValidationEval    ml.Evaluation
	Metadata          ml.Metadata
	RegisteredModel   *models.Model
	Duration          time.Duration
}

// TrainingService runs the offline pipeline: load records, build the
// dataset, fit the scorer, evaluate and persist the artifact.
type TrainingService struct {
	source    datasource.Source
	builder   *dataset.Builder
	validator *DataValidator
	modelRepo repository.ModelRepository
	logger    *logrus.Logger
	mlLogger  *logger.MLLogger
	audit     *logger.AuditLogger
	now       func() time.Time
}

// NewTrainingService creates a new training service. modelRepo may be nil
// when no database is configured.
func NewTrainingService(
	source datasource.Source,
	builder *dataset.Builder,
	modelRepo repository.ModelRepository,
	log *logrus.Logger,
) *TrainingService {
	return &TrainingService{
		source:    source,
		builder:   builder,
		validator: NewDataValidator(log),
		modelRepo: modelRepo,
		logger:    log,
		mlLogger:  logger.NewMLLogger(log),
		audit:     logger.NewAuditLogger(log),
		now:       time.Now,
	}
}

// Train executes a full training run
func (s *TrainingService) Train(ctx context.Context, opts TrainingOptions) (result *TrainingResult, err error) {
	start := s.now()
	defer func() {
		metrics.RecordTraining(err, time.Since(start).Seconds())
	}()

	if opts.Register && s.modelRepo == nil {
		return nil, ErrRegistryUnavailable
	}

	s.logger.WithFields(logrus.Fields{
		"source": s.source.Name(),
		"output": opts.OutputPath,
	}).Info("Starting model training")

	matches, matchStats, err := s.source.LoadMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	deliveries, deliveryStats, err := s.source.LoadDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"match_rows":         matchStats.Rows,
		"match_rows_skipped": matchStats.Skipped,
		"delivery_rows":      deliveryStats.Rows,
		"delivery_skipped":   deliveryStats.Skipped,
	}).Info("Historical records loaded")

	result = &TrainingResult{}
	matches, result.InvalidMatches = s.validator.FilterMatches(matches)
	deliveries, result.InvalidDeliveries = s.validator.FilterDeliveries(deliveries)

	examples, report, err := s.builder.Build(ctx, matches, deliveries)
	result.Report = report
	if err != nil {
		return result, fmt.Errorf("failed to build dataset: %w", err)
	}

	train, validation := dataset.Split(examples, opts.ValidationFraction)
	result.TrainSize = len(train)
	result.ValidationSize = len(validation)
	metrics.UpdateDatasetSize(len(train), len(validation))
	s.mlLogger.LogDatasetBuilt(report.Examples, report.Dropped, len(train), len(validation), report.WinRate())

	pipeline := ml.NewLogisticPipeline(opts.Hyperparameters)
	fvs, labels := dataset.FeaturesAndLabels(train)
	if err := pipeline.Fit(fvs, labels); err != nil {
		return result, fmt.Errorf("failed to fit model: %w", err)
	}

	if result.TrainEval, err = ml.Evaluate(pipeline, train); err != nil {
		return result, err
	}
	if result.ValidationEval, err = ml.Evaluate(pipeline, validation); err != nil {
		return result, err
	}
	if len(validation) > 0 {
		metrics.UpdateValidationAccuracy(result.ValidationEval.Accuracy)
	}

	evalMetrics := result.TrainEval.Map("train_")
	for k, v := range result.ValidationEval.Map("validation_") {
		evalMetrics[k] = v
	}

	version := opts.ModelVersion
	if version == "" {
		version = start.UTC().Format("20060102T150405Z")
	}
	result.Metadata = ml.Metadata{
		Name:             opts.ModelName,
		Version:          version,
		ModelType:        ModelType,
		TrainedAt:        s.now().UTC(),
		FeatureColumns:   features.Columns,
		Hyperparameters:  opts.Hyperparameters,
		Metrics:          evalMetrics,
		TrainingExamples: len(train),
	}

	if err := ml.SaveArtifact(opts.OutputPath, &ml.Artifact{Metadata: result.Metadata, Pipeline: pipeline}); err != nil {
		return result, fmt.Errorf("failed to save model: %w", err)
	}

	if opts.ExportPath != "" {
		if err := exportFeatures(opts.ExportPath, examples); err != nil {
			return result, err
		}
		s.logger.WithField("path", opts.ExportPath).Info("Feature table exported")
	}

	if opts.Register {
		if result.RegisteredModel, err = s.register(ctx, opts.OutputPath, result.Metadata); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	s.mlLogger.LogModelTraining(opts.ModelName, result.Duration.Seconds(), evalMetrics, map[string]interface{}{
		"learning_rate": opts.Hyperparameters.LearningRate,
		"iterations":    opts.Hyperparameters.Iterations,
		"l2":            opts.Hyperparameters.L2,
	})

	return result, nil
}

func (s *TrainingService) register(ctx context.Context, path string, meta ml.Metadata) (*models.Model, error) {
	metricsJSON, err := json.Marshal(meta.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model metrics: %w", err)
	}
	paramsJSON, err := json.Marshal(meta.Hyperparameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hyperparameters: %w", err)
	}

	model := &models.Model{
		ID:               uuid.New(),
		Name:             meta.Name,
		Version:          meta.Version,
		ModelType:        meta.ModelType,
		Path:             path,
		Metrics:          metricsJSON,
		Hyperparameters:  paramsJSON,
		TrainingExamples: meta.TrainingExamples,
		TrainedAt:        meta.TrainedAt,
	}

	if err := s.modelRepo.Create(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to register model: %w", err)
	}
	if err := s.modelRepo.SetActive(ctx, model.ID); err != nil {
		return nil, fmt.Errorf("failed to activate model: %w", err)
	}
	model.Active = true

	s.audit.LogModelRegistered(model.ID.String(), model.Name, model.Version, model.Path, model.Active)
	return model, nil
}

func exportFeatures(path string, examples []models.TrainingExample) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create feature export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close feature export: %w", cerr)
		}
	}()

	if err := dataset.ExportCSV(f, examples); err != nil {
		return fmt.Errorf("failed to export features: %w", err)
	}
	return nil
}
