package postprocess

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline operations.
var (
	// ErrStage indicates a stage hit a missing structural precondition.
	ErrStage = errors.New("postprocessing stage failed")

	// ErrStageOrder indicates a stage list violates its capability contract.
	ErrStageOrder = errors.New("invalid stage order")
)

// StageError wraps a failure with the name of the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStage) hold for every StageError.
func (e *StageError) Is(target error) bool { return target == ErrStage }

// missing builds the error a stage returns for a required element it could not find.
func missing(what string) error {
	return fmt.Errorf("required element not found: %s", what)
}
