package tex2html

import (
	"go.uber.org/zap"

	"github.com/alnah/go-tex2html/internal/mathrender"
	"github.com/alnah/go-tex2html/internal/postprocess"
)

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger shared by every component. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithExternalTool replaces the latexmlc runner.
func WithExternalTool(t ExternalTool) Option {
	return func(c *Converter) {
		c.tool = t
	}
}

// WithStager replaces input staging and upload.
func WithStager(s Stager) Option {
	return func(c *Converter) {
		c.stager = s
	}
}

// WithMathRenderer sets the math backend. Defaults to MathML via treeblood.
// A renderer implementing io.Closer is closed by Converter.Close.
func WithMathRenderer(r mathrender.Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithMathWorkers bounds concurrent fragment rendering. Zero derives the
// bound from GOMAXPROCS.
func WithMathWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// WithPostprocessOptions sets the stage options. Stylesheet fields are
// filled from WithStyle when left empty.
func WithPostprocessOptions(opts postprocess.Options) Option {
	return func(c *Converter) {
		c.ppOpts = opts
	}
}

// WithStyle selects the article stylesheet: an embedded style name or a path
// to a CSS file. Defaults to the embedded "default" style.
func WithStyle(ref string) Option {
	return func(c *Converter) {
		c.style = ref
	}
}

// WithAssetPath adds a directory whose styles/{name}.css files take
// precedence over the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.assetPath = dir
	}
}

// WithStatusHook registers fn to observe every job transition.
func WithStatusHook(fn StatusFunc) Option {
	return func(c *Converter) {
		c.onStatus = fn
	}
}
