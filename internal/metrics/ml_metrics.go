package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Model metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "predictions_total",
		Help:      "Total number of win-probability predictions",
	}, []string{"status", "cache_hit"})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "prediction_latency_seconds",
		Help:      "Latency of a single prediction in seconds",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	})
	PredictionCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "prediction_cache_hit_ratio",
		Help:      "Prediction cache hit ratio",
	})
	ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "model_loaded",
		Help:      "1 when a fitted model is loaded, 0 otherwise",
	})
)

// Training metrics
var (
	TrainingJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "training_jobs_total",
		Help:      "Total number of model training runs",
	}, []string{"status"})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	DatasetExamples = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "dataset_examples",
		Help:      "Examples in the most recent training dataset by partition",
	}, []string{"partition"})
	ValidationAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "validation_accuracy",
		Help:      "Validation accuracy of the most recently trained model",
	})
)

// RecordPrediction records a prediction outcome and its latency.
func RecordPrediction(status string, cacheHit bool, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(status, boolLabel(cacheHit)).Inc()
	if status == "success" {
		PredictionLatency.Observe(durationSeconds)
	}
}

// UpdateCacheHitRatio sets the prediction cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	PredictionCacheHitRatio.Set(ratio)
}

// SetModelLoaded updates the model loaded gauge.
func SetModelLoaded(loaded bool) {
	if loaded {
		ModelLoaded.Set(1)
		return
	}
	ModelLoaded.Set(0)
}

// RecordTraining records a finished training run.
func RecordTraining(err error, durationSeconds float64) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	TrainingJobsTotal.WithLabelValues(status).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// UpdateDatasetSize records the size of each dataset partition.
func UpdateDatasetSize(train, validation int) {
	DatasetExamples.WithLabelValues("train").Set(float64(train))
	DatasetExamples.WithLabelValues("validation").Set(float64(validation))
}

// UpdateValidationAccuracy records the latest validation accuracy.
func UpdateValidationAccuracy(accuracy float64) {
	ValidationAccuracy.Set(accuracy)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
