package tex2html

import (
	"errors"

	"github.com/alnah/go-tex2html/internal/assets"
	"github.com/alnah/go-tex2html/internal/document"
	"github.com/alnah/go-tex2html/internal/latexml"
	"github.com/alnah/go-tex2html/internal/mathrender"
	"github.com/alnah/go-tex2html/internal/postprocess"
	"github.com/alnah/go-tex2html/internal/storage"
)

// Sentinel errors for render jobs.
var (
	// ErrInvalidJob indicates a job without input or output.
	ErrInvalidJob = errors.New("invalid render job")

	// ErrInputResolution indicates the input could not be staged to a single .tex file.
	ErrInputResolution = storage.ErrInputResolution

	// ErrOutput indicates the output directory could not be prepared.
	ErrOutput = errors.New("preparing output directory failed")

	// ErrExternalTool indicates latexmlc could not start or exited non-zero.
	ErrExternalTool = latexml.ErrExternalTool

	// ErrCleanup indicates a converter artifact could not be removed.
	ErrCleanup = latexml.ErrCleanup

	// ErrPostprocessing wraps every loader, stage and math failure.
	ErrPostprocessing = errors.New("postprocessing failed")

	// ErrMalformedDocument indicates the converter output has no usable article root.
	ErrMalformedDocument = document.ErrMalformedDocument

	// ErrStage indicates a stage hit a missing structural precondition.
	ErrStage = postprocess.ErrStage

	// ErrMathRender indicates a math fragment could not be typeset.
	ErrMathRender = mathrender.ErrMathRender

	// ErrRendererUnavailable indicates the math backend could not start.
	ErrRendererUnavailable = mathrender.ErrRendererUnavailable

	// ErrStyleNotFound indicates the configured stylesheet does not exist.
	ErrStyleNotFound = assets.ErrStyleNotFound

	// ErrInvalidAssetPath indicates the custom style directory is unusable.
	ErrInvalidAssetPath = assets.ErrInvalidBasePath

	// ErrUpload indicates the output directory could not be uploaded.
	ErrUpload = storage.ErrUpload
)

// Typed errors carrying failure details.
type (
	// ToolError carries the latexmlc exit code.
	ToolError = latexml.ToolError

	// StageError carries the name of the failed stage.
	StageError = postprocess.StageError

	// MathRenderError carries the index and source of the failed fragment.
	MathRenderError = mathrender.MathRenderError
)
