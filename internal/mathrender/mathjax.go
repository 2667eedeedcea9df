package mathrender

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMathJaxURL is the MathJax build loaded by MathJaxRenderer.
const DefaultMathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-svg.js"

const defaultMathJaxTimeout = 30 * time.Second

// mathJaxConfig must be in place before the MathJax script loads.
const mathJaxConfig = `() => {
	window.MathJax = {
		svg: { fontCache: 'none' },
		startup: { typeset: false },
	};
}`

const mathJaxReady = `() => MathJax.startup.promise`

const mathJaxRender = `(tex, display) => MathJax.tex2svgPromise(tex, { display })
	.then(node => MathJax.startup.adaptor.outerHTML(node))`

// MathJaxRenderer typesets TeX to SVG with MathJax in headless Chrome.
// The browser starts on first use. One page serves all fragments, so
// renders are serialized.
type MathJaxRenderer struct {
	scriptURL string
	timeout   time.Duration
	launch    func() browserProcess

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
}

// NewMathJaxRenderer creates a renderer loading MathJax from scriptURL.
// An empty URL selects DefaultMathJaxURL; a zero timeout selects 30s.
func NewMathJaxRenderer(scriptURL string, timeout time.Duration) *MathJaxRenderer {
	if scriptURL == "" {
		scriptURL = DefaultMathJaxURL
	}
	if timeout <= 0 {
		timeout = defaultMathJaxTimeout
	}
	return &MathJaxRenderer{scriptURL: scriptURL, timeout: timeout, launch: chromeLauncher}
}

// browserProcess is the part of launcher.Launcher used to start Chrome.
type browserProcess interface {
	Launch() (string, error)
	Kill()
}

func chromeLauncher() browserProcess {
	l := launcher.New()
	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	return l
}

// ensurePage lazily starts the browser and loads MathJax. Caller holds mu.
func (r *MathJaxRenderer) ensurePage() error {
	if r.page != nil {
		return nil
	}

	l := r.launch()
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}
	page = page.Timeout(r.timeout)
	if _, err := page.Eval(mathJaxConfig); err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: configuring MathJax: %v", ErrRendererUnavailable, err)
	}
	if err := page.AddScriptTag(r.scriptURL, ""); err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: loading MathJax: %v", ErrRendererUnavailable, err)
	}
	if _, err := page.Eval(mathJaxReady); err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: starting MathJax: %v", ErrRendererUnavailable, err)
	}

	r.browser = browser
	r.page = page.CancelTimeout()
	return nil
}

// Render returns the SVG container MathJax produces for f.
func (r *MathJaxRenderer) Render(ctx context.Context, f Fragment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensurePage(); err != nil {
		return "", err
	}

	res, err := r.page.Context(ctx).Timeout(r.timeout).Eval(mathJaxRender, f.TeX, f.Display == Block)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Close releases browser resources.
func (r *MathJaxRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	r.page = nil
	return err
}
