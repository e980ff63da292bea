package common

import (
	"errors"
	"fmt"
)

var (
	ErrorInvalidConfiguration = errors.New("invalid configuration")
	ErrorInsufficientData     = errors.New("insufficient data")
	ErrorDomain               = errors.New("domain error")
	ErrorNumericDegeneracy    = errors.New("numeric degeneracy")
)

const noReplicate = -1

// StageError tags an error with the estimator stage it was raised in.
type StageError struct {
	Stage     string
	Replicate int
	Err       error
}

func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Replicate: noReplicate, Err: err}
}

func NewReplicateError(replicate int, err error) *StageError {
	return &StageError{Stage: "bootstrap", Replicate: replicate, Err: err}
}

func (e *StageError) Error() string {
	if e.Replicate != noReplicate {
		return fmt.Sprintf("%s replicate %d: %v", e.Stage, e.Replicate, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Errorf wraps kind with a formatted message so that errors.Is(err, kind) holds.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
