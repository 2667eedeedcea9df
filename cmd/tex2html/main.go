package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/assets"
	"github.com/alnah/go-tex2html/internal/config"
	"github.com/alnah/go-tex2html/internal/hints"
	"github.com/alnah/go-tex2html/internal/latexml"
	"github.com/alnah/go-tex2html/internal/logging"
	"github.com/alnah/go-tex2html/internal/mathrender"
	"github.com/alnah/go-tex2html/internal/postprocess"
	"github.com/alnah/go-tex2html/internal/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runMain(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain runs the CLI and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) > 0 {
		switch args[0] {
		case "doctor":
			return runDoctorCmd(args[1:], env)
		case "completion":
			return runCompletion(args[1:], env)
		}
	}

	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "tex2html %s\n", Version)
		return ExitSuccess
	}

	if err := run(ctx, flags, positional, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, positional))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run loads the configuration, builds the converter and executes the job.
func run(ctx context.Context, flags *cliFlags, args []string, env *Environment) error {
	if flags.noPostprocess && flags.postprocessOnly {
		return fmt.Errorf("%w: --no-postprocess and --postprocess-only are exclusive", errUsage)
	}
	want := 2
	if flags.postprocessOnly {
		want = 1
	}
	if len(args) != want {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: expected %d arguments, got %d", errUsage, want, len(args))
	}

	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}

	logger, err := logging.BuildLogger(env.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))

	conv, err := buildConverter(cfg, flags, logger, env)
	if err != nil {
		return err
	}
	defer func() {
		if err := conv.Close(); err != nil {
			logger.Warn("closing math renderer", zap.Error(err))
		}
	}()

	if flags.postprocessOnly {
		if err := conv.ProcessHTML(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, args[0])
		return nil
	}

	enabled := cfg.PostprocessEnabled()
	job := tex2html.Job{Input: args[0], Output: args[1], PostProcessing: &enabled}

	path, err := conv.Render(ctx, job)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, path)
	return nil
}

// loadConfig resolves configuration with priority flags > environment >
// file > defaults.
func loadConfig(flags *cliFlags, env *Environment) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(env.Getenv)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags copies explicitly set flags over cfg.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.changed("latexml-bin") {
		cfg.LaTeXML.Binary = flags.latexmlBin
	}
	if flags.changed("preload") {
		cfg.LaTeXML.Preloads = flags.preloads
	}
	if flags.changed("no-postprocess") {
		enabled := !flags.noPostprocess
		cfg.Postprocess.Enabled = &enabled
	}
	if flags.changed("style") {
		cfg.Postprocess.Style = flags.style
	}
	if flags.changed("code-theme") {
		cfg.Postprocess.CodeTheme = flags.codeTheme
	}
	if flags.changed("container-class") {
		cfg.Postprocess.ContainerClass = flags.containerClass
	}
	if flags.changed("toc") {
		cfg.Postprocess.TableOfContents = flags.tableOfContents
	}
	if flags.changed("math-renderer") {
		cfg.Math.Renderer = strings.ToLower(flags.mathRenderer)
	}
	if flags.changed("math-workers") {
		cfg.Math.Workers = flags.mathWorkers
	}
	if flags.changed("mathjax-url") {
		cfg.Math.MathJaxURL = flags.mathjaxURL
	}
	if flags.changed("s3-region") {
		cfg.S3.Region = flags.s3Region
	}
	if flags.changed("s3-endpoint") {
		cfg.S3.Endpoint = flags.s3Endpoint
	}
	if flags.changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if flags.changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
}

// buildConverter wires the library from the resolved configuration.
func buildConverter(cfg *config.Config, flags *cliFlags, logger *zap.Logger, env *Environment) (*tex2html.Converter, error) {
	tool := env.Tool
	if tool == nil {
		opts := []latexml.Option{
			latexml.WithBinary(cfg.LaTeXML.Binary),
			latexml.WithLogger(logger.Named("latexml")),
		}
		if cfg.LaTeXML.Preloads != nil {
			opts = append(opts, latexml.WithPreloads(cfg.LaTeXML.Preloads))
		}
		tool = latexml.New(opts...)
	}

	renderer := env.Renderer
	if renderer == nil {
		if cfg.Math.Renderer == config.RendererMathJax {
			renderer = mathrender.NewMathJaxRenderer(cfg.Math.MathJaxURL, cfg.Math.Timeout)
		} else {
			renderer = mathrender.MathMLRenderer{}
		}
	}

	stager := storage.New(
		storage.WithRegion(cfg.S3.Region),
		storage.WithEndpoint(cfg.S3.Endpoint),
		storage.WithLogger(logger.Named("storage")),
	)

	return tex2html.NewConverter(
		tex2html.WithLogger(logger),
		tex2html.WithExternalTool(tool),
		tex2html.WithStager(stager),
		tex2html.WithMathRenderer(renderer),
		tex2html.WithMathWorkers(cfg.Math.Workers),
		tex2html.WithStyle(cfg.Postprocess.Style),
		tex2html.WithAssetPath(flags.assetPath),
		tex2html.WithPostprocessOptions(postprocess.Options{
			CodeTheme:       cfg.Postprocess.CodeTheme,
			ContainerClass:  cfg.Postprocess.ContainerClass,
			TableOfContents: cfg.Postprocess.TableOfContents,
		}),
	)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, args []string) string {
	switch {
	case errors.Is(err, tex2html.ErrExternalTool) &&
		(errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)):
		return hints.ForLaTeXMLNotFound()
	case errors.Is(err, tex2html.ErrExternalTool):
		return hints.ForToolFailure()
	case errors.Is(err, tex2html.ErrRendererUnavailable):
		return hints.ForBrowserConnect()
	case errors.Is(err, tex2html.ErrUpload):
		return hints.ForS3Credentials()
	case errors.Is(err, tex2html.ErrInputResolution):
		input := ""
		if len(args) > 0 {
			input = args[0]
		}
		if storage.IsRemote(input) && strings.Contains(err.Error(), "listing") {
			return hints.ForS3Credentials()
		}
		return hints.ForInputResolution(input)
	case errors.Is(err, tex2html.ErrOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, tex2html.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	}
	return ""
}

// triedPaths extracts the searched paths from a config-not-found message.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
