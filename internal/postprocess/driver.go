package postprocess

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-tex2html/internal/document"
)

// Driver runs an ordered list of stages against one document.
type Driver struct {
	stages []Stage
	logger *zap.Logger
}

// NewDriver validates the stage list and returns a Driver for it.
// Every capability a stage requires must be provided by an earlier stage,
// stage names must be unique, and a stage providing CapContainer must be last.
func NewDriver(logger *zap.Logger, stages ...Stage) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateOrder(stages); err != nil {
		return nil, err
	}
	return &Driver{stages: stages, logger: logger}, nil
}

func validateOrder(stages []Stage) error {
	provided := make(map[Capability]string)
	seen := make(map[string]bool)

	for i, s := range stages {
		name := s.Name()
		if seen[name] {
			return fmt.Errorf("%w: duplicate stage %q", ErrStageOrder, name)
		}
		seen[name] = true

		for _, req := range s.Requires() {
			if _, ok := provided[req]; !ok {
				return fmt.Errorf("%w: stage %q requires %q, which no earlier stage provides", ErrStageOrder, name, req)
			}
		}
		for _, p := range s.Provides() {
			if p == CapContainer && i != len(stages)-1 {
				return fmt.Errorf("%w: container stage %q must be last", ErrStageOrder, name)
			}
			provided[p] = name
		}
	}
	return nil
}

// Stages returns the stage names in execution order.
func (d *Driver) Stages() []string {
	names := make([]string, len(d.stages))
	for i, s := range d.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes every stage in order. The first failure stops the run and is
// returned as a *StageError; later stages do not execute.
func (d *Driver) Run(doc *document.Document, st *State) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if st == nil {
		return errors.New("nil state")
	}

	for _, s := range d.stages {
		start := time.Now()
		if err := s.Run(doc, st); err != nil {
			d.logger.Error("stage failed", zap.String("stage", s.Name()), zap.Error(err))
			return &StageError{Stage: s.Name(), Err: err}
		}
		if !doc.Attached() {
			return &StageError{Stage: s.Name(), Err: errors.New("article root was removed")}
		}
		d.logger.Debug("stage done",
			zap.String("stage", s.Name()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return nil
}
