package tex2html

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-tex2html/internal/latexml"
	"github.com/alnah/go-tex2html/internal/mathrender"
	"github.com/alnah/go-tex2html/internal/postprocess"
	"github.com/alnah/go-tex2html/internal/storage"
)

const mathDoc = `<html><head><title>raw</title></head><body><article class="ltx_document"><p>Energy <math alttext="E=mc^2" display="inline"><mi>E</mi></math> holds.</p></article></body></html>`

// fakeTool writes a fixed document and the converter artifacts.
type fakeTool struct {
	html   string
	err    error
	panics bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeTool) Convert(_ context.Context, texPath, outputDir string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, texPath)
	f.mu.Unlock()

	if f.panics {
		panic("tool exploded")
	}
	if f.err != nil {
		return "", f.err
	}
	for _, name := range latexml.Artifacts {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte("aux"), 0o644); err != nil {
			return "", err
		}
	}
	path := filepath.Join(outputDir, latexml.OutputName)
	if err := os.WriteFile(path, []byte(f.html), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// fakeStager stages from a local directory and records uploads.
type fakeStager struct {
	texPath   string
	outDir    string
	uploadErr error
	uploads   []string
	released  int
}

func (f *fakeStager) ResolveInput(context.Context, string) (string, func(), error) {
	return f.texPath, func() { f.released++ }, nil
}

func (f *fakeStager) PrepareOutputDirectory(string) (string, func(), error) {
	return f.outDir, func() { f.released++ }, nil
}

func (f *fakeStager) Upload(_ context.Context, dir, dest string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, dir+" -> "+dest)
	return nil
}

var echoMath = mathrender.RendererFunc(func(_ context.Context, f mathrender.Fragment) (string, error) {
	return "<math data-tex=\"" + f.TeX + "\"></math>", nil
})

// recorder collects status transitions.
type recorder struct {
	mu       sync.Mutex
	statuses []Status
	lastErr  error
}

func (r *recorder) hook(_ Job, s Status, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
	if err != nil {
		r.lastErr = err
	}
}

func newPaperDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paper.tex"), []byte(`\documentclass{article}`), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return dir
}

func newTestConverter(t *testing.T, tool ExternalTool, rec *recorder, opts ...Option) *Converter {
	t.Helper()

	base := []Option{
		WithExternalTool(tool),
		WithMathRenderer(echoMath),
		WithMathWorkers(2),
		WithStatusHook(rec.hook),
	}
	c, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return c
}

func assertArtifactsRemoved(t *testing.T, dir string) {
	t.Helper()

	for _, name := range latexml.Artifacts {
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("artifact %s still present (stat err = %v)", name, err)
		}
	}
}

func TestConverter_Render_Local(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tool := &fakeTool{html: mathDoc}
	c := newTestConverter(t, tool, rec)

	out := filepath.Join(t.TempDir(), "site", "paper")
	path, err := c.Render(context.Background(), Job{Input: newPaperDir(t), Output: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := filepath.Join(out, latexml.OutputName); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	html := string(got)
	for _, want := range []string{
		`<math data-tex="E=mc^2"></math>`,
		`class="tex2html-container"`,
		`data-stylesheet="default"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(html, mathrender.PlaceholderClass) {
		t.Error("output still holds math placeholders")
	}

	assertArtifactsRemoved(t, out)

	want := []Status{StatusPending, StatusInputStaged, StatusRenderedByExternalTool, StatusPostprocessed, StatusDone}
	if !reflect.DeepEqual(rec.statuses, want) {
		t.Errorf("statuses = %v, want %v", rec.statuses, want)
	}
	if len(tool.calls) != 1 || filepath.Base(tool.calls[0]) != "paper.tex" {
		t.Errorf("tool calls = %v", tool.calls)
	}
}

func TestConverter_Render_WithoutPostprocessing(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := newTestConverter(t, &fakeTool{html: mathDoc}, rec)

	off := false
	out := t.TempDir()
	path, err := c.Render(context.Background(), Job{Input: newPaperDir(t), Output: out, PostProcessing: &off})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != mathDoc {
		t.Errorf("output was modified: %s", got)
	}
	assertArtifactsRemoved(t, out)

	want := []Status{StatusPending, StatusInputStaged, StatusRenderedByExternalTool, StatusDone}
	if !reflect.DeepEqual(rec.statuses, want) {
		t.Errorf("statuses = %v, want %v", rec.statuses, want)
	}
}

func TestConverter_Render_Remote(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	paper := newPaperDir(t)
	stager := &fakeStager{texPath: filepath.Join(paper, "paper.tex"), outDir: t.TempDir()}
	c := newTestConverter(t, &fakeTool{html: mathDoc}, rec, WithStager(stager))

	path, err := c.Render(context.Background(), Job{Input: "s3://in/paper", Output: "s3://out/papers/1234"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if path != "s3://out/papers/1234/index.html" {
		t.Errorf("path = %q", path)
	}
	if len(stager.uploads) != 1 || stager.uploads[0] != stager.outDir+" -> s3://out/papers/1234" {
		t.Errorf("uploads = %v", stager.uploads)
	}
	if stager.released != 2 {
		t.Errorf("released = %d, want 2", stager.released)
	}

	want := []Status{StatusPending, StatusInputStaged, StatusRenderedByExternalTool, StatusPostprocessed, StatusUploaded, StatusDone}
	if !reflect.DeepEqual(rec.statuses, want) {
		t.Errorf("statuses = %v, want %v", rec.statuses, want)
	}
}

func TestConverter_Render_Failures(t *testing.T) {
	t.Parallel()

	failingMath := mathrender.RendererFunc(func(context.Context, mathrender.Fragment) (string, error) {
		return "", errors.New("unknown macro")
	})

	tests := []struct {
		name       string
		job        func(t *testing.T) Job
		tool       *fakeTool
		opts       []Option
		cleanupErr error
		wantErr    []error
		wantAs     func(error) bool
		wantRaw    bool // index.html left as the tool wrote it
	}{
		{
			name:    "missing input and output",
			job:     func(*testing.T) Job { return Job{} },
			tool:    &fakeTool{html: mathDoc},
			wantErr: []error{ErrInvalidJob},
		},
		{
			name: "input without tex file",
			job: func(t *testing.T) Job {
				return Job{Input: t.TempDir(), Output: t.TempDir()}
			},
			tool:    &fakeTool{html: mathDoc},
			wantErr: []error{ErrInputResolution},
		},
		{
			name: "tool exits non-zero",
			job: func(t *testing.T) Job {
				return Job{Input: newPaperDir(t), Output: t.TempDir()}
			},
			tool:    &fakeTool{err: &latexml.ToolError{ExitCode: 2, Err: errors.New("exit status 2")}},
			wantErr: []error{ErrExternalTool},
			wantAs: func(err error) bool {
				var te *ToolError
				return errors.As(err, &te) && te.ExitCode == 2
			},
		},
		{
			name: "cleanup fails",
			job: func(t *testing.T) Job {
				return Job{Input: newPaperDir(t), Output: t.TempDir()}
			},
			tool:       &fakeTool{html: mathDoc},
			cleanupErr: ErrCleanup,
			wantErr:    []error{ErrCleanup},
			wantRaw:    true,
		},
		{
			name: "output without article",
			job: func(t *testing.T) Job {
				return Job{Input: newPaperDir(t), Output: t.TempDir()}
			},
			tool:    &fakeTool{html: `<html><body><p>no article</p></body></html>`},
			wantErr: []error{ErrPostprocessing, ErrMalformedDocument},
			wantRaw: true,
		},
		{
			name: "stage precondition",
			job: func(t *testing.T) Job {
				return Job{Input: newPaperDir(t), Output: t.TempDir()}
			},
			tool:    &fakeTool{html: `<html><body><article class="ltx_document"><p><math><mi>x</mi></math></p></article></body></html>`},
			wantErr: []error{ErrPostprocessing, ErrStage},
			wantAs: func(err error) bool {
				var se *StageError
				return errors.As(err, &se) && se.Stage == "math"
			},
			wantRaw: true,
		},
		{
			name: "math fragment fails",
			job: func(t *testing.T) Job {
				return Job{Input: newPaperDir(t), Output: t.TempDir()}
			},
			tool:    &fakeTool{html: mathDoc},
			opts:    []Option{WithMathRenderer(failingMath)},
			wantErr: []error{ErrPostprocessing, ErrMathRender},
			wantAs: func(err error) bool {
				var me *MathRenderError
				return errors.As(err, &me) && me.TeX == "E=mc^2"
			},
			wantRaw: true,
		},
		{
			name: "tool panics",
			job: func(t *testing.T) Job {
				return Job{Input: newPaperDir(t), Output: t.TempDir()}
			},
			tool: &fakeTool{panics: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			c := newTestConverter(t, tt.tool, rec, tt.opts...)
			if tt.cleanupErr != nil {
				c.cleanup = func(string) error { return tt.cleanupErr }
			}

			job := tt.job(t)
			path, err := c.Render(context.Background(), job)
			if err == nil {
				t.Fatal("Render() error = nil")
			}
			if path != "" {
				t.Errorf("path = %q, want empty on failure", path)
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("error = %v, want %v", err, want)
				}
			}
			if tt.wantAs != nil && !tt.wantAs(err) {
				t.Errorf("error %v does not carry the expected details", err)
			}

			if n := len(rec.statuses); n == 0 || rec.statuses[n-1] != StatusFailed {
				t.Errorf("statuses = %v, want trailing failed", rec.statuses)
			}
			if rec.lastErr == nil {
				t.Error("status hook did not receive the error")
			}

			if tt.wantRaw {
				raw, readErr := os.ReadFile(filepath.Join(job.Output, latexml.OutputName))
				if readErr != nil {
					t.Fatalf("reading output: %v", readErr)
				}
				if string(raw) != tt.tool.html {
					t.Error("index.html was modified by a failed job")
				}
			}
		})
	}
}

func TestConverter_Render_UploadFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	paper := newPaperDir(t)
	stager := &fakeStager{
		texPath:   filepath.Join(paper, "paper.tex"),
		outDir:    t.TempDir(),
		uploadErr: ErrUpload,
	}
	c := newTestConverter(t, &fakeTool{html: mathDoc}, rec, WithStager(stager))

	_, err := c.Render(context.Background(), Job{Input: "s3://in/paper", Output: "s3://out/paper"})
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("error = %v, want ErrUpload", err)
	}
	for _, s := range rec.statuses {
		if s == StatusUploaded || s == StatusDone {
			t.Errorf("statuses = %v, must not report %v", rec.statuses, s)
		}
	}
}

func TestConverter_Render_InvalidRemoteOutput(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakeTool{html: mathDoc}, &recorder{})
	_, err := c.Render(context.Background(), Job{Input: newPaperDir(t), Output: "s3:///papers"})
	if !errors.Is(err, ErrOutput) {
		t.Errorf("error = %v, want ErrOutput", err)
	}
	if !errors.Is(err, storage.ErrInvalidLocation) {
		t.Errorf("error = %v, want the location error kept in the chain", err)
	}
}

func TestConverter_Postprocess(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakeTool{}, &recorder{},
		WithPostprocessOptions(postprocess.Options{ContainerClass: "paper"}),
		WithStyle("plain"),
	)

	out, err := c.Postprocess(context.Background(), mathDoc)
	if err != nil {
		t.Fatalf("Postprocess() error = %v", err)
	}
	for _, want := range []string{`<div class="paper">`, `data-stylesheet="plain"`, `data-tex="E=mc^2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if _, err := c.Postprocess(context.Background(), "<p>fragment</p>"); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("error = %v, want ErrMalformedDocument", err)
	}
}

func TestConverter_ProcessHTML(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, &fakeTool{}, &recorder{})

	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(mathDoc), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := c.ProcessHTML(context.Background(), path); err != nil {
		t.Fatalf("ProcessHTML() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if !strings.Contains(string(got), "tex2html-container") {
		t.Error("file was not rewritten")
	}

	err := c.ProcessHTML(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	if !errors.Is(err, ErrPostprocessing) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrPostprocessing wrapping ErrNotExist", err)
	}
}

func TestNewConverter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "unknown style", opts: []Option{WithStyle("baroque")}, wantErr: ErrStyleNotFound},
		{name: "missing style file", opts: []Option{WithStyle("./nope/paper.css")}, wantErr: ErrStyleNotFound},
		{name: "missing asset path", opts: []Option{WithAssetPath(filepath.Join(t.TempDir(), "absent"))}, wantErr: ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewConverter(tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverter_Defaults(t *testing.T) {
	t.Parallel()

	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if _, ok := c.renderer.(mathrender.MathMLRenderer); !ok {
		t.Errorf("renderer = %T, want MathMLRenderer", c.renderer)
	}
	if _, ok := c.tool.(*latexml.Runner); !ok {
		t.Errorf("tool = %T, want *latexml.Runner", c.tool)
	}
	stages := c.Stages()
	if len(stages) == 0 || stages[len(stages)-1] != "container" {
		t.Errorf("Stages() = %v, want container last", stages)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewConverter_LogsWorkers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	if _, err := NewConverter(WithLogger(zap.New(core)), WithMathWorkers(3)); err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	entries := logs.FilterMessage("converter ready").All()
	if len(entries) != 1 {
		t.Fatalf("got %d converter ready entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["math_workers"]; got != int64(3) {
		t.Errorf("math_workers = %v, want 3", got)
	}
}

type closingRenderer struct {
	mathrender.RendererFunc
	closed bool
}

func (r *closingRenderer) Close() error {
	r.closed = true
	return nil
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	r := &closingRenderer{RendererFunc: echoMath}
	c, err := NewConverter(WithMathRenderer(r))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !r.closed {
		t.Error("renderer was not closed")
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   Status
		want     string
		terminal bool
	}{
		{StatusPending, "pending", false},
		{StatusInputStaged, "input-staged", false},
		{StatusRenderedByExternalTool, "rendered-by-external-tool", false},
		{StatusPostprocessed, "postprocessed", false},
		{StatusUploaded, "uploaded", false},
		{StatusDone, "done", true},
		{StatusFailed, "failed", true},
		{Status(99), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}
