package latexml

import (
	"errors"
	"fmt"
)

// Sentinel errors for converter runs.
var (
	// ErrExternalTool indicates latexmlc could not be started or exited non-zero.
	ErrExternalTool = errors.New("latexml conversion failed")

	// ErrCleanup indicates an auxiliary file could not be removed.
	ErrCleanup = errors.New("removing converter artifacts failed")
)

// ToolError describes a failed converter run.
type ToolError struct {
	// ExitCode is the process exit status, or -1 when the process could not
	// be started or was killed.
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("latexmlc: %v", e.Err)
	}
	return fmt.Sprintf("latexmlc exited with code %d", e.ExitCode)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExternalTool) hold for every ToolError.
func (e *ToolError) Is(target error) bool { return target == ErrExternalTool }
