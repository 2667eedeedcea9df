package tex2html

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-tex2html/internal/assets"
	"github.com/alnah/go-tex2html/internal/document"
	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/latexml"
	"github.com/alnah/go-tex2html/internal/mathrender"
	"github.com/alnah/go-tex2html/internal/postprocess"
	"github.com/alnah/go-tex2html/internal/storage"
)

// outputPerm is the mode of the rewritten index.html.
const outputPerm = 0o644

// Job describes one conversion.
type Job struct {
	// Input is a .tex file, a directory holding one, or an s3:// prefix.
	Input string
	// Output is a local directory or an s3:// prefix.
	Output string
	// PostProcessing runs the article pipeline when nil or true.
	PostProcessing *bool
}

func (j Job) postprocessing() bool {
	return j.PostProcessing == nil || *j.PostProcessing
}

// ExternalTool renders a .tex file into outputDir and returns the HTML path.
type ExternalTool interface {
	Convert(ctx context.Context, texPath, outputDir string) (string, error)
}

// Stager moves inputs and outputs between their locations and the local
// filesystem.
type Stager interface {
	ResolveInput(ctx context.Context, input string) (texPath string, cleanup func(), err error)
	PrepareOutputDirectory(output string) (dir string, cleanup func(), err error)
	Upload(ctx context.Context, dir, dest string) error
}

// Compile-time interface implementation checks.
var (
	_ ExternalTool        = (*latexml.Runner)(nil)
	_ Stager              = (*storage.Stager)(nil)
	_ mathrender.Renderer = mathrender.MathMLRenderer{}
	_ mathrender.Renderer = (*mathrender.MathJaxRenderer)(nil)
)

// Converter renders jobs. Create with NewConverter, call Close when done.
// A Converter may render several jobs sequentially or concurrently; each
// job gets its own document and stage state.
type Converter struct {
	logger    *zap.Logger
	tool      ExternalTool
	stager    Stager
	renderer  mathrender.Renderer
	workers   int
	ppOpts    postprocess.Options
	style     string
	assetPath string
	onStatus  StatusFunc

	driver     *postprocess.Driver
	typesetter *mathrender.Typesetter
	cleanup    func(dir string) error
}

// NewConverter creates a Converter. It fails when the stylesheet cannot be
// resolved or the stage list is inconsistent.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		logger:  zap.NewNop(),
		cleanup: latexml.Cleanup,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.tool == nil {
		c.tool = latexml.New(latexml.WithLogger(c.logger))
	}
	if c.stager == nil {
		c.stager = storage.New(storage.WithLogger(c.logger))
	}
	if c.renderer == nil {
		c.renderer = mathrender.MathMLRenderer{}
	}

	if c.ppOpts.Stylesheet == "" {
		resolver, err := assets.NewResolver(c.assetPath)
		if err != nil {
			return nil, fmt.Errorf("loading style directory: %w", err)
		}
		name, css, err := resolver.Resolve(c.style)
		if err != nil {
			return nil, fmt.Errorf("loading style %q: %w", c.style, err)
		}
		c.ppOpts.Stylesheet, c.ppOpts.StylesheetName = css, name
	}

	driver, err := postprocess.Default(c.logger.Named("postprocess"), c.ppOpts)
	if err != nil {
		return nil, err
	}
	c.driver = driver
	c.typesetter = mathrender.NewTypesetter(c.renderer,
		mathrender.WithWorkers(c.workers),
		mathrender.WithLogger(c.logger.Named("math")),
	)
	c.logger.Debug("converter ready",
		zap.String("style", c.ppOpts.StylesheetName),
		zap.Int("math_workers", c.typesetter.Workers()),
	)

	return c, nil
}

// Render runs job to completion and returns the final HTML location: a local
// path, or the s3:// URI of index.html for remote outputs. No location is
// returned with an error. ctx only terminates the external tool and remote
// transfers.
func (c *Converter) Render(ctx context.Context, job Job) (path string, err error) {
	log := c.logger.With(zap.String("input", job.Input), zap.String("output", job.Output))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		if err != nil {
			path = ""
			c.transition(log, job, StatusFailed, err)
			return
		}
		log.Info("render finished", zap.String("html", path), zap.Duration("elapsed", time.Since(start)))
	}()

	c.transition(log, job, StatusPending, nil)
	if job.Input == "" || job.Output == "" {
		return "", fmt.Errorf("%w: input and output are required", ErrInvalidJob)
	}

	texPath, releaseInput, err := c.stager.ResolveInput(ctx, job.Input)
	if err != nil {
		return "", err
	}
	defer releaseInput()

	outDir, releaseOutput, err := c.stager.PrepareOutputDirectory(job.Output)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutput, err)
	}
	defer releaseOutput()
	c.transition(log, job, StatusInputStaged, nil)

	htmlPath, err := c.tool.Convert(ctx, texPath, outDir)
	if err != nil {
		return "", err
	}
	if err := c.cleanup(outDir); err != nil {
		return "", err
	}
	c.transition(log, job, StatusRenderedByExternalTool, nil)

	if job.postprocessing() {
		if err := c.ProcessHTML(ctx, htmlPath); err != nil {
			return "", err
		}
		c.transition(log, job, StatusPostprocessed, nil)
	}

	if storage.IsRemote(job.Output) {
		if err := c.stager.Upload(ctx, outDir, job.Output); err != nil {
			return "", err
		}
		loc, err := storage.ParseLocation(job.Output)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUpload, err)
		}
		htmlPath = "s3://" + loc.Bucket + "/" + loc.Key(latexml.OutputName)
		c.transition(log, job, StatusUploaded, nil)
	}

	c.transition(log, job, StatusDone, nil)
	return htmlPath, nil
}

// ProcessHTML postprocesses the LaTeXML document at path in place. The file
// is replaced atomically and left untouched on failure.
func (c *Converter) ProcessHTML(ctx context.Context, path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPostprocessing, err)
	}

	out, err := c.postprocess(ctx, doc)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFileAtomic(path, []byte(out), outputPerm); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrPostprocessing, path, err)
	}
	return nil
}

// Postprocess turns a LaTeXML HTML document into the final article: it runs
// every stage in order, serializes the tree and typesets the math
// placeholders. Every failure wraps ErrPostprocessing.
func (c *Converter) Postprocess(ctx context.Context, raw string) (string, error) {
	doc, err := document.ParseString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPostprocessing, err)
	}
	return c.postprocess(ctx, doc)
}

func (c *Converter) postprocess(ctx context.Context, doc *document.Document) (string, error) {
	start := time.Now()

	st := postprocess.NewState()
	if err := c.driver.Run(doc, st); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPostprocessing, err)
	}

	markup, err := doc.String()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPostprocessing, err)
	}

	out, err := c.typesetter.Typeset(ctx, markup)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPostprocessing, err)
	}

	c.logger.Debug("postprocessed",
		zap.Int("stages", len(c.driver.Stages())),
		zap.Int("math", st.MathFragments),
		zap.Int("footnotes", len(st.Footnotes)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// Stages lists the postprocessing stage names in execution order.
func (c *Converter) Stages() []string {
	return c.driver.Stages()
}

// Close releases the math renderer when it holds resources (headless Chrome).
func (c *Converter) Close() error {
	if closer, ok := c.renderer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// transition logs a status change and forwards it to the status hook.
func (c *Converter) transition(log *zap.Logger, job Job, s Status, err error) {
	switch {
	case err != nil:
		log.Error("render failed", zap.Stringer("status", s), zap.Error(err))
	case s.Terminal():
		log.Info("render status", zap.Stringer("status", s))
	default:
		log.Debug("render status", zap.Stringer("status", s))
	}
	if c.onStatus != nil {
		c.onStatus(job, s, err)
	}
}
