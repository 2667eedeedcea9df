package mathrender

import (
	"errors"
	"fmt"
)

// ErrMathRender indicates a fragment could not be typeset.
var ErrMathRender = errors.New("math rendering failed")

// ErrRendererUnavailable indicates the renderer backend could not start.
var ErrRendererUnavailable = errors.New("math renderer unavailable")

// MathRenderError reports the fragment that failed.
type MathRenderError struct {
	Index int
	TeX   string
	Err   error
}

func (e *MathRenderError) Error() string {
	return fmt.Sprintf("rendering math fragment %d (%q): %v", e.Index, e.TeX, e.Err)
}

func (e *MathRenderError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMathRender) hold for every MathRenderError.
func (e *MathRenderError) Is(target error) bool { return target == ErrMathRender }
