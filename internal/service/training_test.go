package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/win-predictor/internal/dataset"
	"github.com/yourusername/win-predictor/internal/datasource"
	"github.com/yourusername/win-predictor/internal/ml"
	"github.com/yourusername/win-predictor/internal/models"
)

type fakeSource struct {
	matches    []models.MatchRecord
	deliveries []models.DeliveryRecord
	err        error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) LoadMatches(context.Context) ([]models.MatchRecord, datasource.ParseStats, error) {
	return f.matches, datasource.ParseStats{Rows: len(f.matches)}, f.err
}

func (f *fakeSource) LoadDeliveries(context.Context) ([]models.DeliveryRecord, datasource.ParseStats, error) {
	return f.deliveries, datasource.ParseStats{Rows: len(f.deliveries)}, nil
}

type fakeModelRepo struct {
	created []*models.Model
	active  uuid.UUID
}

func (f *fakeModelRepo) Create(_ context.Context, m *models.Model) error {
	f.created = append(f.created, m)
	return nil
}

func (f *fakeModelRepo) GetByID(context.Context, uuid.UUID) (*models.Model, error) {
	return nil, models.ErrNotFound
}

func (f *fakeModelRepo) GetActive(context.Context, string) (*models.Model, error) {
	return nil, models.ErrNotFound
}

func (f *fakeModelRepo) GetByVersion(context.Context, string, string) (*models.Model, error) {
	return nil, models.ErrNotFound
}

func (f *fakeModelRepo) SetActive(_ context.Context, id uuid.UUID) error {
	f.active = id
	return nil
}

// trainingFixture builds eight matches whose first innings scores 24 off
// twelve balls and whose chase scores a run a ball. Even matches are won by
// the chasing side.
func trainingFixture() *fakeSource {
	pairs := [][2]string{
		{"Mumbai Indians", "Chennai Super Kings"},
		{"Delhi Capitals", "Rajasthan Royals"},
		{"Kolkata Knight Riders", "Sunrisers Hyderabad"},
		{"Kings XI Punjab", "Royal Challengers Bangalore"},
	}
	cities := []string{"Mumbai", "Delhi", "Kolkata", "Mohali"}

	src := &fakeSource{}
	for i := 0; i < 8; i++ {
		pair := pairs[i%len(pairs)]
		id := strconv.Itoa(i + 1)
		winner := pair[0]
		if i%2 == 0 {
			winner = pair[1]
		}
		src.matches = append(src.matches, models.MatchRecord{
			ID: id, City: cities[i%len(cities)], Team1: pair[0], Team2: pair[1], Winner: winner, Result: "normal",
		})

		for inning, batting := range []string{pair[0], pair[1]} {
			bowling := pair[1]
			runs := 2
			if inning == 1 {
				bowling = pair[0]
				runs = 1
			}
			for k := 0; k < 12; k++ {
				d := models.DeliveryRecord{
					MatchID: id, Inning: inning + 1, Over: 1 + k/6, Ball: k%6 + 1,
					BattingTeam: batting, BowlingTeam: bowling, TotalRuns: runs,
				}
				if inning == 1 && k%4 == 3 {
					d.PlayerDismissed = "batter"
				}
				src.deliveries = append(src.deliveries, d)
			}
		}
	}
	return src
}

func newTestTrainingService(src datasource.Source, repo *fakeModelRepo) *TrainingService {
	log := logrus.New()
	log.SetOutput(io.Discard)

	opts := dataset.DefaultOptions()
	opts.Workers = 2
	builder := dataset.NewBuilder(opts, log)
	if repo == nil {
		return NewTrainingService(src, builder, nil, log)
	}
	return NewTrainingService(src, builder, repo, log)
}

func testTrainingOptions(t *testing.T) TrainingOptions {
	dir := t.TempDir()
	return TrainingOptions{
		ModelName:          "ipl-win-predictor",
		ModelVersion:       "v-test",
		OutputPath:         filepath.Join(dir, "models", "model.json"),
		ExportPath:         filepath.Join(dir, "export", "features.csv"),
		ValidationFraction: 0.25,
		Hyperparameters:    ml.Hyperparameters{LearningRate: 0.1, Iterations: 50, L2: 0.001},
	}
}

func TestTrain(t *testing.T) {
	svc := newTestTrainingService(trainingFixture(), nil)
	opts := testTrainingOptions(t)

	result, err := svc.Train(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 96, result.Report.Examples)
	assert.Equal(t, 48, result.Report.Wins)
	assert.Equal(t, 72, result.TrainSize)
	assert.Equal(t, 24, result.ValidationSize)
	assert.Equal(t, 24, result.ValidationEval.Samples)
	assert.Contains(t, result.Metadata.Metrics, "validation_accuracy")
	assert.Contains(t, result.Metadata.Metrics, "train_log_loss")
	assert.Nil(t, result.RegisteredModel)

	artifact, err := ml.LoadArtifact(opts.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "v-test", artifact.Metadata.Version)
	assert.Equal(t, ModelType, artifact.Metadata.ModelType)
	assert.Equal(t, 72, artifact.Metadata.TrainingExamples)

	f, err := os.Open(opts.ExportPath)
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	for sc := bufio.NewScanner(f); sc.Scan(); {
		lines++
	}
	assert.Equal(t, 97, lines)
}

func TestTrain_Register(t *testing.T) {
	repo := &fakeModelRepo{}
	svc := newTestTrainingService(trainingFixture(), repo)
	opts := testTrainingOptions(t)
	opts.Register = true

	result, err := svc.Train(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	model := repo.created[0]
	assert.Equal(t, model.ID, repo.active)
	assert.True(t, result.RegisteredModel.Active)
	assert.Equal(t, opts.OutputPath, model.Path)
	assert.Equal(t, 72, model.TrainingExamples)
	_, ok := model.Metric("validation_accuracy")
	assert.True(t, ok)
}

func TestTrain_RegisterWithoutDatabase(t *testing.T) {
	svc := newTestTrainingService(trainingFixture(), nil)
	opts := testTrainingOptions(t)
	opts.Register = true

	_, err := svc.Train(context.Background(), opts)
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
}

func TestTrain_SourceError(t *testing.T) {
	src := &fakeSource{err: datasource.NewSourceError("fake", datasource.ErrCodeNotFound, "missing", datasource.ErrNotFound)}
	svc := newTestTrainingService(src, nil)

	_, err := svc.Train(context.Background(), testTrainingOptions(t))
	assert.ErrorIs(t, err, datasource.ErrNotFound)
}

func TestTrain_EmptyDataset(t *testing.T) {
	src := trainingFixture()
	src.deliveries = nil
	svc := newTestTrainingService(src, nil)
	opts := testTrainingOptions(t)

	result, err := svc.Train(context.Background(), opts)
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset), "got %v", err)
	require.NotNil(t, result)
	assert.Equal(t, 8, result.Report.Matches)

	_, statErr := os.Stat(opts.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}
