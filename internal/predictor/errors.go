package predictor

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned by Predict when no model artifact is loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrHistoryDisabled is returned by History when no history store is configured.
	ErrHistoryDisabled = errors.New("prediction history disabled")
)

// InvalidInputError names the request field that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
