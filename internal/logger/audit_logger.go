package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger records changes to persisted state.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogModelRegistered logs a model artifact registered in the database.
func (al *AuditLogger) LogModelRegistered(modelID, name, version, path string, active bool) {
	al.WithFields(logrus.Fields{
		"model_id": modelID,
		"name":     name,
		"version":  version,
		"path":     path,
		"active":   active,
	}).Info("Model registered")
}

// LogHistoryPruned logs a prediction history retention run.
func (al *AuditLogger) LogHistoryPruned(retentionDays int, deleted int64) {
	al.WithFields(logrus.Fields{
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("Prediction history pruned")
}
