package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/win-predictor/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// FileSourceType reads local CSV files
	FileSourceType SourceType = "file"
	// HTTPSourceType downloads CSV files
	HTTPSourceType SourceType = "http"
)

// NewSource creates the Source described by the training configuration
func NewSource(cfg config.TrainingConfig, logger *logrus.Logger) (Source, error) {
	switch SourceType(cfg.Source) {
	case FileSourceType, "":
		if cfg.MatchesPath == "" || cfg.DeliveriesPath == "" {
			return nil, fmt.Errorf("file source requires matches_path and deliveries_path")
		}
		return NewFileSource(cfg.MatchesPath, cfg.DeliveriesPath), nil

	case HTTPSourceType:
		if cfg.MatchesURL == "" || cfg.DeliveriesURL == "" {
			return nil, fmt.Errorf("http source requires matches_url and deliveries_url")
		}
		httpCfg := DefaultHTTPClientConfig()
		if cfg.HTTPTimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
		}
		if cfg.HTTPMaxRetries > 0 {
			httpCfg.MaxRetries = cfg.HTTPMaxRetries
		}
		if cfg.HTTPRateLimit > 0 {
			httpCfg.RateLimit = cfg.HTTPRateLimit
		}
		client := NewRateLimitedHTTPClient(httpCfg, logger)
		return NewHTTPSource(client, cfg.MatchesURL, cfg.DeliveriesURL), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", cfg.Source)
	}
}
