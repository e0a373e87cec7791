package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/yourusername/win-predictor/internal/features"
)

const (
	kindOneHot   = "one_hot"
	kindLogistic = "logistic_regression"
)

// Metadata describes a saved model.
type Metadata struct {
	Name             string             `json:"name"`
	Version          string             `json:"version"`
	ModelType        string             `json:"model_type"`
	TrainedAt        time.Time          `json:"trained_at"`
	FeatureColumns   []string           `json:"feature_columns"`
	Hyperparameters  Hyperparameters    `json:"hyperparameters"`
	Metrics          map[string]float64 `json:"metrics,omitempty"`
	TrainingExamples int                `json:"training_examples"`
}

// Artifact is a fitted pipeline plus its metadata.
type Artifact struct {
	Metadata Metadata
	Pipeline *Pipeline
}

type component struct {
	Kind  string          `json:"kind"`
	State json.RawMessage `json:"state"`
}

type artifactFile struct {
	Metadata   Metadata  `json:"metadata"`
	Encoder    component `json:"encoder"`
	Classifier component `json:"classifier"`
}

// SaveArtifact writes the artifact as JSON, replacing path atomically.
func SaveArtifact(path string, a *Artifact) error {
	if a == nil || a.Pipeline == nil || !a.Pipeline.Fitted() {
		return ErrNotFitted
	}

	enc, err := encodeComponent(a.Pipeline.encoder)
	if err != nil {
		return err
	}
	clf, err := encodeComponent(a.Pipeline.classifier)
	if err != nil {
		return err
	}

	meta := a.Metadata
	if len(meta.FeatureColumns) == 0 {
		meta.FeatureColumns = features.Columns
	}
	data, err := json.MarshalIndent(artifactFile{Metadata: meta, Encoder: enc, Classifier: clf}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates an artifact written by SaveArtifact.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrModelMalformed, path, err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelMalformed, path, err)
	}
	if !slices.Equal(file.Metadata.FeatureColumns, features.Columns) {
		return nil, fmt.Errorf("%w: feature columns %v do not match %v", ErrModelMalformed, file.Metadata.FeatureColumns, features.Columns)
	}

	enc, err := decodeEncoder(file.Encoder)
	if err != nil {
		return nil, err
	}
	clf, err := decodeClassifier(file.Classifier, enc.Width())
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Metadata: file.Metadata,
		Pipeline: &Pipeline{encoder: enc, classifier: clf, fitted: true},
	}, nil
}

func encodeComponent(v interface{}) (component, error) {
	var kind string
	switch v.(type) {
	case *OneHotEncoder:
		kind = kindOneHot
	case *LogisticRegression:
		kind = kindLogistic
	default:
		return component{}, fmt.Errorf("cannot persist component of type %T", v)
	}
	state, err := json.Marshal(v)
	if err != nil {
		return component{}, fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	return component{Kind: kind, State: state}, nil
}

func decodeEncoder(c component) (*OneHotEncoder, error) {
	if c.Kind != kindOneHot {
		return nil, fmt.Errorf("%w: unknown encoder kind %q", ErrModelMalformed, c.Kind)
	}
	enc := &OneHotEncoder{}
	if err := json.Unmarshal(c.State, enc); err != nil {
		return nil, fmt.Errorf("%w: encoder: %v", ErrModelMalformed, err)
	}
	if !enc.Fitted() {
		return nil, fmt.Errorf("%w: encoder has %d categorical columns, want %d", ErrModelMalformed, len(enc.Categories), len(features.CategoricalColumns))
	}
	enc.buildIndex()
	return enc, nil
}

func decodeClassifier(c component, width int) (*LogisticRegression, error) {
	if c.Kind != kindLogistic {
		return nil, fmt.Errorf("%w: unknown classifier kind %q", ErrModelMalformed, c.Kind)
	}
	clf := &LogisticRegression{}
	if err := json.Unmarshal(c.State, clf); err != nil {
		return nil, fmt.Errorf("%w: classifier: %v", ErrModelMalformed, err)
	}
	if len(clf.Weights) != width || len(clf.Means) != width || len(clf.Scales) != width {
		return nil, fmt.Errorf("%w: classifier width %d does not match encoder width %d", ErrModelMalformed, len(clf.Weights), width)
	}
	for _, s := range clf.Scales {
		if s == 0 {
			return nil, fmt.Errorf("%w: zero feature scale", ErrModelMalformed)
		}
	}
	return clf, nil
}
