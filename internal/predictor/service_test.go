package predictor

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/models"
)

type fakeHistory struct {
	mu      sync.Mutex
	records []*models.PredictionRecord
	err     error
	limit   int
}

func (f *fakeHistory) Create(_ context.Context, p *models.PredictionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, p)
	return nil
}

func (f *fakeHistory) GetRecent(_ context.Context, limit int) ([]*models.PredictionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func (f *fakeHistory) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// writeTestArtifact fits a small model on a grid of chase states labeled won
// when the required rate is under nine and saves it under a temp dir.
func writeTestArtifact(t *testing.T) string {
	t.Helper()

	teams := [][2]string{{"Mumbai Indians", "Chennai Super Kings"}, {"Chennai Super Kings", "Mumbai Indians"}}
	cities := []string{"Chennai", "Mumbai"}

	var fvs []models.FeatureVector
	var labels []int
	i := 0
	for _, target := range []float64{150, 180, 210} {
		for score := 0.0; score < target; score += 15 {
			for balls := 6; balls < 120; balls += 12 {
				pair := teams[i%2]
				fv := features.Derive(models.MatchSnapshot{
					BattingTeam: pair[0],
					BowlingTeam: pair[1],
					City:        cities[i%2],
					Target:      target,
					Score:       score,
					Overs:       features.OversNotation(balls),
					Wickets:     float64(i % 10),
				})
				label := 0
				if fv.RequiredRunRate < 9 {
					label = 1
				}
				fvs = append(fvs, fv)
				labels = append(labels, label)
				i++
			}
		}
	}

	p := ml.NewLogisticPipeline(ml.Hyperparameters{LearningRate: 0.3, Iterations: 200, L2: 0.001})
	require.NoError(t, p.Fit(fvs, labels))

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, ml.SaveArtifact(path, &ml.Artifact{
		Metadata: ml.Metadata{Name: "ipl-win-predictor", Version: "test-v1", ModelType: "logistic_regression"},
		Pipeline: p,
	}))
	return path
}

func exampleRequest() map[string]any {
	return map[string]any{
		"batting_team": "Mumbai Indians",
		"bowling_team": "Chennai Super Kings",
		"city":         "Mumbai",
		"target":       180.0,
		"score":        95.0,
		"overs":        12.0,
		"wickets":      3.0,
	}
}

func TestService_ExampleScenario(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())
	require.Equal(t, StateReady, svc.State())

	resp, err := svc.Predict(context.Background(), exampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Mumbai Indians", resp.BattingTeam)
	assert.Equal(t, "Chennai Super Kings", resp.BowlingTeam)
	assert.Equal(t, 85.0, resp.RunsLeft)
	assert.Equal(t, 48.0, resp.BallsLeft)
	assert.Equal(t, 7.92, resp.CurrentRunRate)
	assert.Equal(t, 10.63, resp.RequiredRunRate)
	assert.Equal(t, "test-v1", resp.ModelVersion)
	assert.InDelta(t, 100.0, resp.WinProbability+resp.LossProbability, 1e-9)
	assert.GreaterOrEqual(t, resp.WinProbability, 0.0)
	assert.LessOrEqual(t, resp.WinProbability, 100.0)

	h := svc.Health()
	assert.Equal(t, Health{Status: "ok", ModelLoaded: true, State: StateReady, ModelVersion: "test-v1"}, h)
}

func TestService_ZeroOvers(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())

	req := exampleRequest()
	req["overs"] = 0.0
	req["score"] = 40.0

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.CurrentRunRate)
	assert.Equal(t, 120.0, resp.BallsLeft)
}

func TestService_InvalidInput(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())

	tests := []struct {
		name  string
		patch func(map[string]any)
		field string
	}{
		{"missing target", func(r map[string]any) { delete(r, "target") }, FieldTarget},
		{"null score", func(r map[string]any) { r["score"] = nil }, FieldScore},
		{"non-numeric overs", func(r map[string]any) { r["overs"] = "twelve" }, FieldOvers},
		{"boolean wickets", func(r map[string]any) { r["wickets"] = true }, FieldWickets},
		{"NaN target", func(r map[string]any) { r["target"] = "NaN" }, FieldTarget},
		{"empty city", func(r map[string]any) { r["city"] = "  " }, FieldCity},
		{"numeric team", func(r map[string]any) { r["batting_team"] = 7.0 }, FieldBattingTeam},
		{"same teams", func(r map[string]any) { r["bowling_team"] = "Mumbai Indians" }, FieldBowlingTeam},
		{"renamed same team", func(r map[string]any) {
			r["batting_team"] = "Delhi Daredevils"
			r["bowling_team"] = "Delhi Capitals"
		}, FieldBowlingTeam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := exampleRequest()
			tt.patch(req)

			_, err := svc.Predict(context.Background(), req)
			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestService_NumericStrings(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())

	req := exampleRequest()
	req["target"] = "180"
	req["score"] = " 95 "
	req["overs"] = "12.0"
	req["wickets"] = 3

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 85.0, resp.RunsLeft)
}

func TestService_ModelUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	svc := New(Options{ModelPath: path}, testLogger())

	h := svc.Health()
	assert.Equal(t, "ok", h.Status)
	assert.False(t, h.ModelLoaded)
	assert.Equal(t, StateModelUnavailable, h.State)

	_, err := svc.Predict(context.Background(), exampleRequest())
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorContains(t, err, path)

	assert.Empty(t, svc.Cities())
}

func TestService_UnseenCity(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())

	req := exampleRequest()
	req["city"] = "Ahmedabad"
	req["batting_team"] = "Gujarat Titans"

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, resp.WinProbability+resp.LossProbability, 1e-9)
	assert.NotContains(t, svc.Cities(), "Ahmedabad")
}

func TestService_Cache(t *testing.T) {
	cache := ml.NewPredictionCache(time.Minute, 100)
	svc := New(Options{ModelPath: writeTestArtifact(t), Cache: cache}, testLogger())

	first, err := svc.Predict(context.Background(), exampleRequest())
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), exampleRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestService_History(t *testing.T) {
	history := &fakeHistory{}
	svc := New(Options{ModelPath: writeTestArtifact(t), History: history, HistoryLimit: 5}, testLogger())

	resp, err := svc.Predict(context.Background(), exampleRequest())
	require.NoError(t, err)

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.Equal(t, "Mumbai Indians", rec.BattingTeam)
	assert.Equal(t, 12.0, rec.Overs)
	assert.Equal(t, resp.WinProbability, rec.WinProbability)
	assert.Equal(t, "test-v1", rec.ModelVersion)

	records, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 5, history.limit)

	_, err = svc.History(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 5, history.limit)
}

func TestService_HistoryFailureDoesNotFailPrediction(t *testing.T) {
	history := &fakeHistory{err: errors.New("connection refused")}
	svc := New(Options{ModelPath: writeTestArtifact(t), History: history}, testLogger())

	_, err := svc.Predict(context.Background(), exampleRequest())
	assert.NoError(t, err)
}

func TestService_HistoryDisabled(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())

	_, err := svc.History(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestService_TeamsAndCities(t *testing.T) {
	svc := New(Options{ModelPath: writeTestArtifact(t)}, testLogger())

	teams := svc.Teams()
	assert.Len(t, teams, 8)
	assert.IsIncreasing(t, teams)
	assert.Equal(t, []string{"Chennai", "Mumbai"}, svc.Cities())
}

func TestNewResponse_Rounding(t *testing.T) {
	tests := []struct {
		pWin float64
		win  float64
		loss float64
	}{
		{0.123456, 12.35, 87.65},
		{0.5, 50, 50},
		{0.00005, 0.01, 99.99},
		{1, 100, 0},
		{0, 0, 100},
	}

	for _, tt := range tests {
		resp := newResponse(models.FeatureVector{}, tt.pWin, "v")
		assert.Equal(t, tt.win, resp.WinProbability, "pWin %v", tt.pWin)
		assert.Equal(t, tt.loss, resp.LossProbability, "pWin %v", tt.pWin)
	}
}
