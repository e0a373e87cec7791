// Package datasource loads historical match and delivery records.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/win-predictor/internal/models"
)

// Source defines the interface for loading historical ball-by-ball data
type Source interface {
	// LoadMatches retrieves match-level records
	LoadMatches(ctx context.Context) ([]models.MatchRecord, ParseStats, error)

	// LoadDeliveries retrieves delivery-level records in recorded order
	LoadDeliveries(ctx context.Context) ([]models.DeliveryRecord, ParseStats, error)

	// Name returns the name of the data source
	Name() string
}

// ParseStats counts rows read from a table and rows skipped as malformed.
type ParseStats struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// SourceError represents errors from data source operations
type SourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeInvalidData  = "invalid_data"
	ErrCodeNetworkError = "network_error"
	ErrCodeServerError  = "server_error"
)

var (
	ErrNotFound     = errors.New("data not found")
	ErrInvalidData  = errors.New("invalid data format")
	ErrNetworkError = errors.New("network error")
	ErrServerError  = errors.New("server error")
)

// NewSourceError creates a new data source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
