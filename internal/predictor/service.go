// Package predictor serves win probabilities for a chase snapshot from a
// model artifact loaded once at startup.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/win-predictor/internal/dataset"
	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/logger"
	"github.com/yourusername/win-predictor/internal/metrics"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/models"
	"github.com/yourusername/win-predictor/internal/repository"
)

// State is the service state, fixed at construction.
type State string

const (
	StateModelUnavailable State = "model_unavailable"
	StateReady            State = "ready"
)

const defaultHistoryLimit = 10

// Health is the result of a health query.
type Health struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	State        State  `json:"state"`
	ModelVersion string `json:"model_version,omitempty"`
}

// Options configures a Service. Cache and History are optional.
type Options struct {
	ModelPath    string
	ModelVersion string
	Cache        *ml.PredictionCache
	History      repository.PredictionRepository
	HistoryLimit int
}

// Service answers predictions from a frozen Scorer. The scorer and metadata
// are written only during construction.
type Service struct {
	state     State
	scorer    ml.Scorer
	vocab     interface{ Vocabulary(string) []string }
	version   string
	modelPath string
	loadErr   error

	cache        *ml.PredictionCache
	history      repository.PredictionRepository
	historyLimit int

	logger   *logrus.Logger
	mlLogger *logger.MLLogger
}

// New loads the artifact at opts.ModelPath. A missing or malformed artifact
// leaves the service in StateModelUnavailable rather than failing.
func New(opts Options, log *logrus.Logger) *Service {
	artifact, err := ml.LoadArtifact(opts.ModelPath)
	if err != nil {
		s := newService(opts, log)
		s.loadErr = err
		s.mlLogger.LogModelLoaded(opts.ModelPath, "", err)
		metrics.SetModelLoaded(false)
		return s
	}
	return NewFromArtifact(artifact, opts, log)
}

// NewFromArtifact builds a ready service around an already loaded artifact.
func NewFromArtifact(artifact *ml.Artifact, opts Options, log *logrus.Logger) *Service {
	s := newService(opts, log)
	s.state = StateReady
	s.scorer = artifact.Pipeline
	s.vocab = artifact.Pipeline
	if artifact.Metadata.Version != "" {
		s.version = artifact.Metadata.Version
	}

	s.mlLogger.LogModelLoaded(opts.ModelPath, s.version, nil)
	metrics.SetModelLoaded(true)
	return s
}

func newService(opts Options, log *logrus.Logger) *Service {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Service{
		state:        StateModelUnavailable,
		version:      opts.ModelVersion,
		modelPath:    opts.ModelPath,
		cache:        opts.Cache,
		history:      opts.History,
		historyLimit: limit,
		logger:       log,
		mlLogger:     logger.NewMLLogger(log),
	}
}

// State returns the service state.
func (s *Service) State() State {
	return s.state
}

// Health always succeeds.
func (s *Service) Health() Health {
	h := Health{
		Status:      "ok",
		ModelLoaded: s.state == StateReady,
		State:       s.state,
	}
	if h.ModelLoaded {
		h.ModelVersion = s.version
	}
	return h
}

// Predict validates raw request fields, derives the feature vector and
// scores it. Errors are ErrModelUnavailable or *InvalidInputError.
func (s *Service) Predict(ctx context.Context, raw map[string]any) (*Response, error) {
	start := time.Now()

	if s.state != StateReady {
		err := fmt.Errorf("%w: no model artifact loaded from %s: %v", ErrModelUnavailable, s.modelPath, s.loadErr)
		s.fail("model_unavailable", err, start)
		return nil, err
	}

	snap, err := parseSnapshot(raw)
	if err != nil {
		s.fail("invalid_input", err, start)
		return nil, err
	}

	fv := features.Derive(snap)
	probs, cacheHit, err := s.score(fv)
	if err != nil {
		s.fail("scoring_failed", err, start)
		return nil, err
	}

	resp := newResponse(fv, probs.Win, s.version)
	s.record(ctx, snap, resp)

	elapsed := time.Since(start)
	metrics.RecordPrediction("success", cacheHit, elapsed.Seconds())
	s.mlLogger.LogPrediction(s.version, resp.BattingTeam, resp.BowlingTeam, resp.WinProbability, cacheHit, float64(elapsed.Microseconds())/1000)

	return resp, nil
}

func (s *Service) score(fv models.FeatureVector) (ml.Probabilities, bool, error) {
	key := ml.CacheKey{ModelVersion: s.version, Features: fv}
	if s.cache != nil {
		if p, ok := s.cache.Get(key); ok {
			return p, true, nil
		}
	}

	pLoss, pWin, err := s.scorer.PredictProba(fv)
	if err != nil {
		return ml.Probabilities{}, false, fmt.Errorf("failed to score snapshot: %w", err)
	}

	p := ml.Probabilities{Loss: pLoss, Win: pWin}
	if s.cache != nil {
		s.cache.Set(key, p)
	}
	return p, false, nil
}

// record persists a served prediction. Failures are logged only.
func (s *Service) record(ctx context.Context, snap models.MatchSnapshot, resp *Response) {
	if s.history == nil {
		return
	}

	err := s.history.Create(ctx, &models.PredictionRecord{
		ID:              uuid.New(),
		BattingTeam:     snap.BattingTeam,
		BowlingTeam:     snap.BowlingTeam,
		City:            snap.City,
		Target:          snap.Target,
		Score:           snap.Score,
		Overs:           snap.Overs,
		Wickets:         snap.Wickets,
		WinProbability:  resp.WinProbability,
		LossProbability: resp.LossProbability,
		ModelVersion:    s.version,
		CreatedAt:       time.Now().UTC(),
	})
	metrics.RecordHistoryWrite(err)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to persist prediction history")
	}
}

func (s *Service) fail(reason string, err error, start time.Time) {
	status := "error"
	var invalid *InvalidInputError
	switch {
	case errors.As(err, &invalid):
		status = "invalid"
	case errors.Is(err, ErrModelUnavailable):
		status = "unavailable"
	}
	metrics.RecordPrediction(status, false, time.Since(start).Seconds())
	s.mlLogger.LogPredictionError(reason, err)
}

// History returns up to limit recent predictions, newest first. A limit
// outside (0, configured limit] falls back to the configured limit.
func (s *Service) History(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	records, err := s.history.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction history: %w", err)
	}
	return records, nil
}

// Teams returns the known teams in alphabetical order.
func (s *Service) Teams() []string {
	return dataset.SortedTeams()
}

// Cities returns the cities the loaded model was trained on.
func (s *Service) Cities() []string {
	if s.vocab == nil {
		return []string{}
	}
	cities := s.vocab.Vocabulary(FieldCity)
	if cities == nil {
		return []string{}
	}
	return cities
}
