package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yourusername/win-predictor/internal/models"
)

// FileSource reads the matches and deliveries tables from local CSV files.
type FileSource struct {
	matchesPath    string
	deliveriesPath string
}

// NewFileSource creates a new local CSV source
func NewFileSource(matchesPath, deliveriesPath string) *FileSource {
	return &FileSource{matchesPath: matchesPath, deliveriesPath: deliveriesPath}
}

// Name returns the data source name
func (s *FileSource) Name() string {
	return "file"
}

// LoadMatches parses the matches file
func (s *FileSource) LoadMatches(ctx context.Context) ([]models.MatchRecord, ParseStats, error) {
	var (
		matches []models.MatchRecord
		stats   ParseStats
	)
	err := s.withFile(ctx, s.matchesPath, func(r io.Reader) error {
		var err error
		matches, stats, err = ParseMatches(r)
		return err
	})
	return matches, stats, err
}

// LoadDeliveries parses the deliveries file
func (s *FileSource) LoadDeliveries(ctx context.Context) ([]models.DeliveryRecord, ParseStats, error) {
	var (
		deliveries []models.DeliveryRecord
		stats      ParseStats
	)
	err := s.withFile(ctx, s.deliveriesPath, func(r io.Reader) error {
		var err error
		deliveries, stats, err = ParseDeliveries(r)
		return err
	})
	return deliveries, stats, err
}

func (s *FileSource) withFile(ctx context.Context, path string, fn func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewSourceError(s.Name(), ErrCodeNotFound, fmt.Sprintf("file %s not found", path), ErrNotFound)
		}
		return NewSourceError(s.Name(), ErrCodeInvalidData, fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return NewSourceError(s.Name(), ErrCodeInvalidData, fmt.Sprintf("failed to parse %s", path), err)
	}
	return nil
}
