package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the investigation pipeline. Callers match with
// errors.Is; the http adapter maps these onto status codes.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrValidation     = errors.New("validation failed")
	ErrAlreadyRunning = errors.New("investigation already processing")
	ErrPipeline       = errors.New("pipeline failure")
)

func NewNotFoundError(resource string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, resource, id)
}

func NewValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

func NewPipelineError(investigationID int64, err error) error {
	return fmt.Errorf("%w: investigation %d: %v", ErrPipeline, investigationID, err)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
