// Package main provides the entry point for the win probability API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/win-predictor/internal/config"
	"github.com/yourusername/win-predictor/internal/database"
	"github.com/yourusername/win-predictor/internal/logger"
	"github.com/yourusername/win-predictor/internal/metrics"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/predictor"
	"github.com/yourusername/win-predictor/internal/repository"
	"github.com/yourusername/win-predictor/internal/scheduler"
	"github.com/yourusername/win-predictor/internal/server"
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
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "predictor-api",
	Short: "IPL chase win probability API",
	Long:  `Serves live win probabilities for the side batting second in an IPL T20 match.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Prepare(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
		"build_date":  BuildDate,
	}).Info("Win predictor API starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	opts := predictor.Options{
		ModelPath:    cfg.Model.Path,
		ModelVersion: cfg.Model.Version,
		HistoryLimit: cfg.History.Limit,
	}
	if cfg.Cache.Enabled {
		opts.Cache = ml.NewPredictionCache(cfg.Cache.CacheTTL(), cfg.Cache.MaxSize)
	}

	var (
		db    *database.DB
		sched *scheduler.Scheduler
	)
	if cfg.Database.Enabled {
		var err error
		db, err = database.Initialize(ctx, cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
		opts.History = repos.Prediction

		sched = scheduler.NewScheduler(appLog)
		if err := sched.ScheduleHistoryRetention(cfg.History.CleanupSchedule, cfg.History.RetentionDays, repos.Prediction); err != nil {
			return fmt.Errorf("failed to schedule history retention: %w", err)
		}
		if cfg.History.RetentionDays > 0 {
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer func() {
				if err := sched.Stop(); err != nil {
					appLog.WithError(err).Warn("Scheduler did not stop cleanly")
				}
			}()
		}
	} else {
		appLog.Info("Database disabled; prediction history is off")
	}

	svc := predictor.New(opts, appLog)

	srvCfg := server.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Address:        cfg.Server.Address(),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         appLog,
	}
	if cfg.Metrics.Enabled {
		srvCfg.MetricsPath = cfg.Metrics.Path
	}
	if db != nil {
		srvCfg.DB = db
	}

	srv := server.New(srvCfg, svc)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	health := svc.Health()
	appLog.WithFields(logrus.Fields{
		"address":       srvCfg.Address,
		"state":         health.State,
		"model_version": health.ModelVersion,
	}).Info("Win predictor API running")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	if err := srv.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during server shutdown")
	}

	appLog.Info("Win predictor API shut down successfully")
	return nil
}
