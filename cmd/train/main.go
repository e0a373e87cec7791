// Package main provides the offline training entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/win-predictor/internal/config"
	"github.com/yourusername/win-predictor/internal/database"
	"github.com/yourusername/win-predictor/internal/dataset"
	"github.com/yourusername/win-predictor/internal/datasource"
	"github.com/yourusername/win-predictor/internal/logger"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/repository"
	"github.com/yourusername/win-predictor/internal/service"
)

var (
	configFile     string
	matchesPath    string
	deliveriesPath string
	outputPath     string
	exportPath     string
	modelVersion   string
	register       bool

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&matchesPath, "matches", "", "Matches CSV (overrides training.matches_path)")
	rootCmd.Flags().StringVar(&deliveriesPath, "deliveries", "", "Deliveries CSV (overrides training.deliveries_path)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Model artifact path (overrides model.path)")
	rootCmd.Flags().StringVar(&exportPath, "export-features", "", "Write the derived feature table as CSV")
	rootCmd.Flags().StringVar(&modelVersion, "version", "", "Model version (defaults to model.version or a timestamp)")
	rootCmd.Flags().BoolVar(&register, "register", false, "Register the model in the database and mark it active")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the chase win probability model",
	Long:  `Builds the training dataset from historical IPL ball-by-ball data, fits the model and writes the artifact.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Prepare(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		applyFlags()
		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return train(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func applyFlags() {
	if matchesPath != "" {
		cfg.Training.MatchesPath = matchesPath
		cfg.Training.Source = string(datasource.FileSourceType)
	}
	if deliveriesPath != "" {
		cfg.Training.DeliveriesPath = deliveriesPath
		cfg.Training.Source = string(datasource.FileSourceType)
	}
	if outputPath != "" {
		cfg.Model.Path = outputPath
	}
	if exportPath != "" {
		cfg.Training.ExportPath = exportPath
	}
	if modelVersion != "" {
		cfg.Model.Version = modelVersion
	}
}

func train(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := datasource.NewSource(cfg.Training, appLog)
	if err != nil {
		return err
	}

	var modelRepo repository.ModelRepository
	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		modelRepo = repository.NewPostgresModelRepository(db)
	}

	builder := dataset.NewBuilder(dataset.Options{
		OverIndexBase: cfg.Training.OverIndexBase,
		Seed:          cfg.Training.Seed,
		Workers:       cfg.Training.Workers,
	}, appLog)

	svc := service.NewTrainingService(source, builder, modelRepo, appLog)
	result, err := svc.Train(ctx, service.TrainingOptions{
		ModelName:          cfg.Model.Name,
		ModelVersion:       cfg.Model.Version,
		OutputPath:         cfg.Model.Path,
		ExportPath:         cfg.Training.ExportPath,
		ValidationFraction: cfg.Training.ValidationFraction,
		Hyperparameters: ml.Hyperparameters{
			LearningRate: cfg.Training.LearningRate,
			Iterations:   cfg.Training.Iterations,
			L2:           cfg.Training.L2,
		},
		Register: register,
	})
	if result != nil && result.Report != nil {
		fmt.Println(result.Report.String())
	}
	if err != nil {
		return err
	}

	fmt.Printf("Invalid records skipped: %d matches, %d deliveries\n", result.InvalidMatches, result.InvalidDeliveries)
	fmt.Printf("Train: %d examples, accuracy %.4f, log loss %.4f\n",
		result.TrainSize, result.TrainEval.Accuracy, result.TrainEval.LogLoss)
	fmt.Printf("Validation: %d examples, accuracy %.4f, log loss %.4f, brier %.4f\n",
		result.ValidationSize, result.ValidationEval.Accuracy, result.ValidationEval.LogLoss, result.ValidationEval.Brier)
	fmt.Printf("Model %s written to %s in %s\n", result.Metadata.Version, cfg.Model.Path, result.Duration.Round(1e6))
	if result.RegisteredModel != nil {
		fmt.Printf("Registered as %s (active)\n", result.RegisteredModel.ID)
	}
	return nil
}
