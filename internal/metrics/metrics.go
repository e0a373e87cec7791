// Package metrics provides the Prometheus metrics registry for the win predictor.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "win_predictor"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"endpoint", "method"})
)

// Persistence metrics
var (
	HistoryWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "history_writes_total",
		Help:      "Total number of prediction history writes",
	}, []string{"status"})
	HistoryPrunedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "history_pruned_total",
		Help:      "Total number of prediction history rows removed by retention",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestDuration)

		registry.MustRegister(HistoryWritesTotal)
		registry.MustRegister(HistoryPrunedTotal)

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionLatency)
		registry.MustRegister(PredictionCacheHitRatio)
		registry.MustRegister(ModelLoaded)
		registry.MustRegister(TrainingJobsTotal)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(DatasetExamples)
		registry.MustRegister(ValidationAccuracy)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(endpoint, method string, status int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint, method).Observe(durationSeconds)
}

// RecordHistoryWrite records the outcome of persisting a prediction.
func RecordHistoryWrite(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	HistoryWritesTotal.WithLabelValues(status).Inc()
}

// RecordHistoryPruned records rows removed by the retention job.
func RecordHistoryPruned(rows int64) {
	HistoryPrunedTotal.Add(float64(rows))
}
