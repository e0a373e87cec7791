package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for model training and inference.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogPrediction logs a completed prediction.
func (ml *MLLogger) LogPrediction(modelVersion, battingTeam, bowlingTeam string, winProbability float64, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model_version":   modelVersion,
		"batting_team":    battingTeam,
		"bowling_team":    bowlingTeam,
		"win_probability": winProbability,
		"cache_hit":       cacheHit,
		"latency_ms":      latencyMs,
	}).Debug("Prediction completed")
}

// LogPredictionError logs a rejected or failed prediction.
func (ml *MLLogger) LogPredictionError(reason string, err error) {
	ml.WithError(err).WithField("error_reason", reason).Warn("Prediction failed")
}

// LogModelLoaded logs the outcome of loading the model artifact at startup.
func (ml *MLLogger) LogModelLoaded(path, version string, err error) {
	if err != nil {
		ml.WithError(err).WithField("path", path).Warn("Model artifact unavailable, serving in degraded mode")
		return
	}
	ml.WithFields(logrus.Fields{
		"path":          path,
		"model_version": version,
	}).Info("Model artifact loaded")
}

// LogDatasetBuilt logs the dataset build summary.
func (ml *MLLogger) LogDatasetBuilt(examples, dropped, train, validation int, winRate float64) {
	ml.WithFields(logrus.Fields{
		"examples":   examples,
		"dropped":    dropped,
		"train":      train,
		"validation": validation,
		"win_rate":   winRate,
	}).Info("Training dataset prepared")
}

// LogModelTraining logs model training events.
func (ml *MLLogger) LogModelTraining(modelName string, trainingDuration float64, metrics map[string]float64, hyperparameters map[string]interface{}) {
	ml.WithFields(logrus.Fields{
		"model_name":        modelName,
		"training_duration": trainingDuration,
		"metrics":           metrics,
		"hyperparameters":   hyperparameters,
	}).Info("Model training completed")
}
