package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/win-predictor/internal/config"
	"github.com/yourusername/win-predictor/internal/database"
	"github.com/yourusername/win-predictor/internal/logger"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/models"
	"github.com/yourusername/win-predictor/internal/predictor"
	"github.com/yourusername/win-predictor/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "model-status",
	Short: "Show the fitted model and registry status",
	Long:  `Displays the model artifact metadata, a sample prediction and the active registry entry.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Prepare(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger("warn", cfg.App.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return displayStatus(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func displayStatus(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  Win Predictor Model Status                    ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("Tool version: %s (%s, built %s)\n\n", Version, GitCommit, BuildDate)

	fmt.Printf("Artifact: %s\n", cfg.Model.Path)
	artifact, err := ml.LoadArtifact(cfg.Model.Path)
	if err != nil {
		fmt.Println("  ❌ UNAVAILABLE")
		fmt.Printf("  Error: %v\n", err)
	} else {
		displayArtifact(ctx, artifact)
	}

	fmt.Println("\nRegistry:")
	if !cfg.Database.Enabled {
		fmt.Println("  database disabled")
		return nil
	}
	return displayRegistry(ctx)
}

func displayArtifact(ctx context.Context, artifact *ml.Artifact) {
	meta := artifact.Metadata
	fmt.Println("  ✓ LOADED")
	fmt.Printf("  Name: %s\n", meta.Name)
	fmt.Printf("  Version: %s\n", meta.Version)
	fmt.Printf("  Type: %s\n", meta.ModelType)
	fmt.Printf("  Trained: %s\n", meta.TrainedAt.Format(time.RFC3339))
	fmt.Printf("  Training examples: %d\n", meta.TrainingExamples)
	fmt.Printf("  Hyperparameters: lr=%g iterations=%d l2=%g\n",
		meta.Hyperparameters.LearningRate, meta.Hyperparameters.Iterations, meta.Hyperparameters.L2)

	if len(meta.Metrics) > 0 {
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("  Metrics:")
		for _, name := range names {
			fmt.Printf("    %s: %.4f\n", name, meta.Metrics[name])
		}
	}

	svc := predictor.NewFromArtifact(artifact, predictor.Options{ModelVersion: cfg.Model.Version}, appLog)
	fmt.Printf("  Known cities: %d\n", len(svc.Cities()))

	resp, err := svc.Predict(ctx, map[string]any{
		predictor.FieldBattingTeam: "Mumbai Indians",
		predictor.FieldBowlingTeam: "Chennai Super Kings",
		predictor.FieldCity:        "Mumbai",
		predictor.FieldTarget:      180,
		predictor.FieldScore:       95,
		predictor.FieldOvers:       12,
		predictor.FieldWickets:     3,
	})
	if err != nil {
		fmt.Printf("  Sample prediction failed: %v\n", err)
		return
	}
	fmt.Printf("  Sample: %s need %.0f off %.0f balls (crr %.2f, rrr %.2f) -> win %.0f%%, loss %.0f%%\n",
		resp.BattingTeam, resp.RunsLeft, resp.BallsLeft, resp.CurrentRunRate, resp.RequiredRunRate,
		resp.WinProbability, resp.LossProbability)
}

func displayRegistry(ctx context.Context) error {
	db, err := database.Initialize(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	active, err := repos.Model.GetActive(ctx, cfg.Model.Name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		fmt.Printf("  no active model named %q\n", cfg.Model.Name)
	case err != nil:
		return fmt.Errorf("failed to query active model: %w", err)
	default:
		fmt.Printf("  Active: %s %s (%s)\n", active.Name, active.Version, active.ID)
		fmt.Printf("  Path: %s\n", active.Path)
		fmt.Printf("  Training examples: %d\n", active.TrainingExamples)
		if acc, ok := active.Metric("validation_accuracy"); ok {
			fmt.Printf("  Validation accuracy: %.4f\n", acc)
		}
	}

	recent, err := repos.Prediction.GetRecent(ctx, 5)
	if err != nil {
		return fmt.Errorf("failed to query prediction history: %w", err)
	}
	fmt.Printf("  Recent predictions: %d\n", len(recent))
	for _, p := range recent {
		fmt.Printf("    %s %s v %s: %.0f%%\n", p.CreatedAt.Format(time.RFC3339), p.BattingTeam, p.BowlingTeam, p.WinProbability)
	}
	return nil
}
