package latexml

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultBinary is the converter executable looked up in PATH.
const DefaultBinary = "latexmlc"

// OutputName is the file name of the converted document.
const OutputName = "index.html"

// DefaultPreloads are the binding files loaded for every conversion.
var DefaultPreloads = []string{
	"/app/latexml/engrafo.ltxml",
	"/usr/src/latexml/lib/LaTeXML/Package/hyperref.sty.ltxml",
}

// Runner converts .tex files with latexmlc.
type Runner struct {
	binary   string
	preloads []string
	runner   CommandRunner
	logger   *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithBinary sets the converter executable. Empty keeps DefaultBinary.
func WithBinary(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.binary = path
		}
	}
}

// WithPreloads replaces the binding files passed with --preload.
func WithPreloads(paths []string) Option {
	return func(r *Runner) {
		r.preloads = append([]string(nil), paths...)
	}
}

// WithCommandRunner sets how the converter is executed.
func WithCommandRunner(cr CommandRunner) Option {
	return func(r *Runner) {
		r.runner = cr
	}
}

// WithLogger sets the logger converter output is streamed to.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner with default binary and preloads.
func New(opts ...Option) *Runner {
	r := &Runner{
		binary:   DefaultBinary,
		preloads: DefaultPreloads,
		runner:   ExecRunner{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the converter executable.
func (r *Runner) Binary() string { return r.binary }

// Args builds the latexmlc argument list for one conversion.
func (r *Runner) Args(texPath, outputDir string) []string {
	args := []string{
		"--dest", filepath.Join(outputDir, OutputName),
		"--format", "html5",
		"--mathtex",
		"--svg",
		"--verbose",
	}
	for _, p := range r.preloads {
		args = append(args, "--preload", p)
	}
	return append(args, texPath)
}

// Convert runs latexmlc on texPath with the working directory set to the
// file's directory and writes OutputName into outputDir. It returns the
// path of the produced document. Standard output is logged at info level,
// standard error at warn level, as it arrives.
func (r *Runner) Convert(ctx context.Context, texPath, outputDir string) (string, error) {
	absTex, err := filepath.Abs(texPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", texPath, err)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", outputDir, err)
	}
	texPath, outputDir = absTex, absOut

	log := r.logger.With(zap.String("tool", filepath.Base(r.binary)))
	log.Info("rendering latex", zap.String("input", texPath), zap.String("output", outputDir))
	start := time.Now()

	err = r.runner.Run(ctx, filepath.Dir(texPath), r.binary, r.Args(texPath, outputDir),
		func(line string) { log.Info(line) },
		func(line string) { log.Warn(line) },
	)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ToolError{ExitCode: exitErr.ExitCode(), Err: err}
		}
		return "", &ToolError{ExitCode: -1, Err: err}
	}

	log.Info("latex rendered", zap.Duration("elapsed", time.Since(start)))
	return filepath.Join(outputDir, OutputName), nil
}
