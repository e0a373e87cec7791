// Package dataset reconstructs labeled chase snapshots from historical
// ball-by-ball records.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/win-predictor/internal/features"
	"github.com/yourusername/win-predictor/internal/models"
)

// ErrEmptyDataset is returned when no example survives the build.
var ErrEmptyDataset = errors.New("dataset build produced no training examples")

// Options controls a dataset build.
type Options struct {
	// OverIndexBase is the number of the first over in delivery records.
	// The public IPL ball-by-ball data numbers overs from 1.
	OverIndexBase int
	// Seed drives the shuffle so builds are reproducible.
	Seed int64
	// Workers bounds the number of matches reconstructed concurrently.
	Workers int
}

// DefaultOptions returns the options used for the public IPL dataset.
func DefaultOptions() Options {
	return Options{
		OverIndexBase: 1,
		Seed:          42,
		Workers:       runtime.NumCPU(),
	}
}

// Builder turns match and delivery records into training examples.
type Builder struct {
	opts   Options
	logger *logrus.Logger
}

// NewBuilder creates a new dataset builder
func NewBuilder(opts Options, logger *logrus.Logger) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Builder{opts: opts, logger: logger}
}

type matchResult struct {
	examples []models.TrainingExample
	dropped  int
}

// Build reconstructs one example per second-innings delivery of every
// qualifying match, drops rows outside the validity filter and shuffles
// the survivors. The report is returned even when the build fails.
func (b *Builder) Build(ctx context.Context, matches []models.MatchRecord, deliveries []models.DeliveryRecord) ([]models.TrainingExample, *Report, error) {
	report := &Report{Matches: len(matches)}

	byMatch := make(map[string][]models.DeliveryRecord)
	for _, d := range deliveries {
		if d.MatchID == "" || d.Inning < 1 {
			report.SkippedDeliveries++
			continue
		}
		d.BattingTeam = CanonicalTeam(d.BattingTeam)
		d.BowlingTeam = CanonicalTeam(d.BowlingTeam)
		byMatch[d.MatchID] = append(byMatch[d.MatchID], d)
		report.Deliveries++
	}

	qualifying := make([]models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		m.Team1 = CanonicalTeam(m.Team1)
		m.Team2 = CanonicalTeam(m.Team2)
		m.Winner = CanonicalTeam(m.Winner)

		switch {
		case m.ID == "" || m.Team1 == "" || m.Team2 == "":
			report.SkippedMatches++
		case !IsKnownTeam(m.Team1) || !IsKnownTeam(m.Team2):
			report.NonQualifyingMatches++
		case !m.HasWinner():
			report.NoResultMatches++
		default:
			qualifying = append(qualifying, m)
		}
	}
	report.QualifyingMatches = len(qualifying)

	results := make([]matchResult, len(qualifying))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i := range qualifying {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.reconstructMatch(qualifying[i], byMatch[qualifying[i].ID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, fmt.Errorf("dataset build cancelled: %w", err)
	}

	var examples []models.TrainingExample
	for _, r := range results {
		examples = append(examples, r.examples...)
		report.Dropped += r.dropped
	}

	rng := rand.New(rand.NewSource(b.opts.Seed))
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})

	for _, ex := range examples {
		if ex.Label == 1 {
			report.Wins++
		} else {
			report.Losses++
		}
	}
	report.Examples = len(examples)

	b.logger.WithFields(logrus.Fields{
		"matches":    report.Matches,
		"qualifying": report.QualifyingMatches,
		"examples":   report.Examples,
		"dropped":    report.Dropped,
		"win_rate":   report.WinRate(),
	}).Info("Dataset build completed")

	if len(examples) == 0 {
		return nil, report, ErrEmptyDataset
	}
	return examples, report, nil
}

// reconstructMatch walks one match's second innings in recorded order.
// Running totals make this inherently sequential.
func (b *Builder) reconstructMatch(match models.MatchRecord, deliveries []models.DeliveryRecord) matchResult {
	var res matchResult

	var target float64
	for _, d := range deliveries {
		if d.Inning == 1 {
			target += float64(d.TotalRuns)
		}
	}
	if target <= 0 {
		return res
	}

	var score, wickets float64
	for _, d := range deliveries {
		if d.Inning != 2 {
			continue
		}
		score += float64(d.TotalRuns)
		if d.IsWicket() {
			wickets++
		}

		ballsBowled := (d.Over-b.opts.OverIndexBase)*features.BallsPerOver + d.Ball
		if ballsBowled < 0 {
			res.dropped++
			continue
		}
		snapshot := models.MatchSnapshot{
			BattingTeam: d.BattingTeam,
			BowlingTeam: d.BowlingTeam,
			City:        match.City,
			Target:      target,
			Score:       score,
			Overs:       features.OversNotation(ballsBowled),
			Wickets:     wickets,
		}

		fv := features.Derive(snapshot)
		if !features.Valid(fv) {
			res.dropped++
			continue
		}

		label := 0
		if d.BattingTeam == match.Winner {
			label = 1
		}
		res.examples = append(res.examples, models.TrainingExample{Features: fv, Label: label})
	}

	return res
}
