package mathrender

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Renderer turns one fragment into markup.
// Implementations must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, f Fragment) (string, error)
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(ctx context.Context, f Fragment) (string, error)

// Render calls fn.
func (fn RendererFunc) Render(ctx context.Context, f Fragment) (string, error) { return fn(ctx, f) }

// Typesetter renders every placeholder of a document.
type Typesetter struct {
	renderer Renderer
	workers  int
	logger   *zap.Logger
}

// Option configures a Typesetter.
type Option func(*Typesetter)

// WithWorkers sets the maximum number of fragments rendered at once.
// Zero or negative values resolve through ResolveWorkers.
func WithWorkers(n int) Option {
	return func(t *Typesetter) {
		t.workers = ResolveWorkers(n)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Typesetter) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTypesetter creates a Typesetter over r.
func NewTypesetter(r Renderer, opts ...Option) *Typesetter {
	t := &Typesetter{
		renderer: r,
		workers:  ResolveWorkers(0),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Workers returns the configured concurrency.
func (t *Typesetter) Workers() int { return t.workers }

// Typeset replaces every placeholder in markup with its rendering.
// Fragments render concurrently but the output keeps document order.
// The first failure cancels the remaining work and is returned as a
// *MathRenderError; no partial output is returned.
func (t *Typesetter) Typeset(ctx context.Context, markup string) (string, error) {
	fragments := Extract(markup)
	if len(fragments) == 0 {
		return markup, nil
	}

	start := time.Now()
	results := make([]string, len(fragments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for _, f := range fragments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := t.renderer.Render(gctx, f)
			if err != nil {
				return &MathRenderError{Index: f.Index, TeX: f.TeX, Err: err}
			}
			results[f.Index] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(markup))
	last := 0
	for i, f := range fragments {
		b.WriteString(markup[last:f.Start])
		b.WriteString(results[i])
		last = f.End
	}
	b.WriteString(markup[last:])

	t.logger.Debug("math typeset",
		zap.Int("fragments", len(fragments)),
		zap.Int("workers", t.workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b.String(), nil
}
