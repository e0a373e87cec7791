// Package ml fits and serves the chase win-probability model.
package ml

import "errors"

var (
	// ErrNotFitted indicates a prediction was requested before Fit
	ErrNotFitted = errors.New("model is not fitted")

	// ErrAlreadyFitted indicates Fit was called on a frozen model
	ErrAlreadyFitted = errors.New("model is already fitted")

	// ErrShapeMismatch indicates features and labels do not line up
	ErrShapeMismatch = errors.New("feature and label shapes do not match")

	// ErrInvalidLabel indicates a label other than 0 or 1
	ErrInvalidLabel = errors.New("labels must be 0 or 1")

	// ErrSingleClass indicates the training labels contain only one outcome
	ErrSingleClass = errors.New("training labels contain a single class")

	// ErrModelNotFound indicates the model artifact does not exist
	ErrModelNotFound = errors.New("model artifact not found")

	// ErrModelMalformed indicates the model artifact could not be decoded
	ErrModelMalformed = errors.New("model artifact is malformed")
)
