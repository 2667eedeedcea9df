package main

import (
	"errors"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/config"
	"github.com/alnah/go-tex2html/internal/logging"
	"github.com/alnah/go-tex2html/internal/storage"
)

// Exit codes for the tex2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0 // Successful conversion
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags, config, or job
	ExitInput       = 3 // Input staging or output directory errors
	ExitTool        = 4 // latexmlc failed or its artifacts could not be removed
	ExitPostprocess = 5 // Document, stage or math failures
	ExitUpload      = 6 // Output upload failed
)

// errUsage marks command-line misuse.
var errUsage = errors.New("usage error")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess

	case errors.Is(err, tex2html.ErrUpload):
		return ExitUpload

	case errors.Is(err, tex2html.ErrPostprocessing):
		return ExitPostprocess

	case errors.Is(err, tex2html.ErrExternalTool),
		errors.Is(err, tex2html.ErrCleanup):
		return ExitTool

	case errors.Is(err, tex2html.ErrInputResolution),
		errors.Is(err, tex2html.ErrOutput),
		errors.Is(err, storage.ErrInvalidLocation):
		return ExitInput

	case errors.Is(err, errUsage),
		errors.Is(err, tex2html.ErrInvalidJob),
		errors.Is(err, tex2html.ErrStyleNotFound),
		errors.Is(err, tex2html.ErrInvalidAssetPath),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrEmptyConfigName),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrFieldTooLong),
		errors.Is(err, config.ErrInvalidValue),
		errors.Is(err, logging.ErrInvalidFormat):
		return ExitUsage
	}

	return ExitGeneral
}
