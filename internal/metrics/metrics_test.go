package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric type")
	return 0
}

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	InitRegistry()
	before := value(t, HTTPRequestsTotal.WithLabelValues("/predict", "POST", "200"))

	RecordHTTPRequest("/predict", "POST", 200, 0.002)

	after := value(t, HTTPRequestsTotal.WithLabelValues("/predict", "POST", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		status   string
		cacheHit bool
	}{
		{"success miss", "success", false},
		{"success hit", "success", true},
		{"invalid input", "invalid_input", false},
		{"model unavailable", "model_unavailable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := PredictionsTotal.WithLabelValues(tt.status, boolLabel(tt.cacheHit))
			before := value(t, counter)
			RecordPrediction(tt.status, tt.cacheHit, 0.0001)
			assert.Equal(t, before+1, value(t, counter))
		})
	}
}

func TestGauges(t *testing.T) {
	InitRegistry()

	SetModelLoaded(true)
	assert.Equal(t, 1.0, value(t, ModelLoaded))
	SetModelLoaded(false)
	assert.Equal(t, 0.0, value(t, ModelLoaded))

	UpdateCacheHitRatio(0.75)
	assert.Equal(t, 0.75, value(t, PredictionCacheHitRatio))

	UpdateDatasetSize(800, 200)
	assert.Equal(t, 800.0, value(t, DatasetExamples.WithLabelValues("train")))
	assert.Equal(t, 200.0, value(t, DatasetExamples.WithLabelValues("validation")))

	UpdateValidationAccuracy(0.8)
	assert.Equal(t, 0.8, value(t, ValidationAccuracy))
}

func TestRecordTrainingAndHistory(t *testing.T) {
	InitRegistry()

	failures := TrainingJobsTotal.WithLabelValues("failure")
	before := value(t, failures)
	RecordTraining(errors.New("empty dataset"), 1.5)
	assert.Equal(t, before+1, value(t, failures))

	writes := HistoryWritesTotal.WithLabelValues("success")
	before = value(t, writes)
	RecordHistoryWrite(nil)
	assert.Equal(t, before+1, value(t, writes))

	before = value(t, HistoryPrunedTotal)
	RecordHistoryPruned(5)
	assert.Equal(t, before+5, value(t, HistoryPrunedTotal))
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordHTTPRequest("/health", "GET", 200, 0.001)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "win_predictor_http_requests_total")
	assert.Contains(t, string(body), "win_predictor_model_loaded")
}
