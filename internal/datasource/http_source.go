package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/yourusername/win-predictor/internal/models"
)

// HTTPSource downloads the matches and deliveries tables as CSV.
type HTTPSource struct {
	client        *RateLimitedHTTPClient
	matchesURL    string
	deliveriesURL string
}

// NewHTTPSource creates a new remote CSV source
func NewHTTPSource(client *RateLimitedHTTPClient, matchesURL, deliveriesURL string) *HTTPSource {
	return &HTTPSource{client: client, matchesURL: matchesURL, deliveriesURL: deliveriesURL}
}

// Name returns the data source name
func (s *HTTPSource) Name() string {
	return "http"
}

// LoadMatches downloads and parses the matches table
func (s *HTTPSource) LoadMatches(ctx context.Context) ([]models.MatchRecord, ParseStats, error) {
	var (
		matches []models.MatchRecord
		stats   ParseStats
	)
	err := s.fetch(ctx, s.matchesURL, func(r io.Reader) error {
		var err error
		matches, stats, err = ParseMatches(r)
		return err
	})
	return matches, stats, err
}

// LoadDeliveries downloads and parses the deliveries table
func (s *HTTPSource) LoadDeliveries(ctx context.Context) ([]models.DeliveryRecord, ParseStats, error) {
	var (
		deliveries []models.DeliveryRecord
		stats      ParseStats
	)
	err := s.fetch(ctx, s.deliveriesURL, func(r io.Reader) error {
		var err error
		deliveries, stats, err = ParseDeliveries(r)
		return err
	})
	return deliveries, stats, err
}

func (s *HTTPSource) fetch(ctx context.Context, url string, fn func(io.Reader) error) error {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return NewSourceError(s.Name(), ErrCodeNetworkError, fmt.Sprintf("failed to fetch %s", url), fmt.Errorf("%w: %w", ErrNetworkError, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewSourceError(s.Name(), ErrCodeNotFound, url, ErrNotFound)
	case resp.StatusCode >= 500:
		return NewSourceError(s.Name(), ErrCodeServerError, fmt.Sprintf("%s returned %d", url, resp.StatusCode), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return NewSourceError(s.Name(), ErrCodeInvalidData, fmt.Sprintf("%s returned %d", url, resp.StatusCode), ErrInvalidData)
	}

	if err := fn(resp.Body); err != nil {
		return NewSourceError(s.Name(), ErrCodeInvalidData, fmt.Sprintf("failed to parse %s", url), err)
	}
	return nil
}
