package latexml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeStub writes an executable shell script standing in for latexmlc.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub converters are shell scripts")
	}
	path := filepath.Join(t.TempDir(), "latexmlc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil { // #nosec G306 -- test stub must be executable
		t.Fatalf("writing stub: %v", err)
	}
	return path
}

func writeTex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.tex")
	if err := os.WriteFile(path, []byte(`\documentclass{article}`), 0o600); err != nil {
		t.Fatalf("writing tex: %v", err)
	}
	return path
}

func TestRunner_Args(t *testing.T) {
	t.Parallel()

	r := New(WithPreloads([]string{"a.ltxml", "b.ltxml"}))
	got := r.Args("/in/main.tex", "/out")
	want := []string{
		"--dest", filepath.Join("/out", OutputName),
		"--format", "html5",
		"--mathtex",
		"--svg",
		"--verbose",
		"--preload", "a.ltxml",
		"--preload", "b.ltxml",
		"/in/main.tex",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Args() =\n%v\nwant\n%v", got, want)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r := New(WithBinary(""))
	if r.Binary() != DefaultBinary {
		t.Errorf("Binary() = %q, want %q", r.Binary(), DefaultBinary)
	}
	if !slices.Equal(r.preloads, DefaultPreloads) {
		t.Errorf("preloads = %v, want %v", r.preloads, DefaultPreloads)
	}
}

func TestRunner_Convert_Success(t *testing.T) {
	t.Parallel()

	stub := writeStub(t, `
dest="$2"
pwd > "$(dirname "$dest")/cwd.txt"
echo "Processing main.tex"
echo "Warning: undefined macro" >&2
printf '<html><body><article class="ltx_document"><p>ok</p></article></body></html>' > "$dest"
`)
	tex := writeTex(t)
	out := t.TempDir()

	core, logs := observer.New(zapcore.InfoLevel)
	r := New(WithBinary(stub), WithLogger(zap.New(core)))

	got, err := r.Convert(context.Background(), tex, out)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != filepath.Join(out, OutputName) {
		t.Errorf("Convert() = %q, want %q", got, filepath.Join(out, OutputName))
	}
	if _, err := os.Stat(got); err != nil {
		t.Errorf("output not written: %v", err)
	}

	cwd, err := os.ReadFile(filepath.Join(out, "cwd.txt"))
	if err != nil {
		t.Fatalf("reading cwd: %v", err)
	}
	wantDir, _ := filepath.EvalSymlinks(filepath.Dir(tex))
	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(string(cwd)))
	if gotDir != wantDir {
		t.Errorf("converter ran in %q, want %q", gotDir, wantDir)
	}

	if n := logs.FilterMessage("Processing main.tex").FilterLevelExact(zapcore.InfoLevel).Len(); n != 1 {
		t.Errorf("stdout line logged %d times at info, want 1", n)
	}
	if n := logs.FilterMessage("Warning: undefined macro").FilterLevelExact(zapcore.WarnLevel).Len(); n != 1 {
		t.Errorf("stderr line logged %d times at warn, want 1", n)
	}
}

func TestRunner_Convert_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		binary   func(t *testing.T) string
		wantCode int
	}{
		{
			name: "non-zero exit",
			binary: func(t *testing.T) string {
				return writeStub(t, "echo 'Fatal:undefined' >&2\nexit 2\n")
			},
			wantCode: 2,
		},
		{
			name: "missing binary",
			binary: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "no-such-latexmlc")
			},
			wantCode: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := New(WithBinary(tt.binary(t)))
			got, err := r.Convert(context.Background(), writeTex(t), t.TempDir())
			if err == nil {
				t.Fatal("Convert() expected error")
			}
			if got != "" {
				t.Errorf("Convert() = %q, want empty path on failure", got)
			}
			if !errors.Is(err, ErrExternalTool) {
				t.Errorf("error should match ErrExternalTool, got %v", err)
			}
			var te *ToolError
			if !errors.As(err, &te) {
				t.Fatalf("error should be *ToolError, got %T", err)
			}
			if te.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", te.ExitCode, tt.wantCode)
			}
		})
	}
}

func TestRunner_Convert_UsesCommandRunner(t *testing.T) {
	t.Parallel()

	var gotDir, gotName string
	var gotArgs []string
	fake := runnerFunc(func(_ context.Context, dir, name string, args []string, stdout, _ LineFunc) error {
		gotDir, gotName, gotArgs = dir, name, args
		stdout("hello")
		return nil
	})

	r := New(WithBinary("custom-latexmlc"), WithCommandRunner(fake), WithPreloads(nil))
	if _, err := r.Convert(context.Background(), "/docs/paper/main.tex", "/out"); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if gotName != "custom-latexmlc" {
		t.Errorf("name = %q", gotName)
	}
	if runtime.GOOS != "windows" && gotDir != "/docs/paper" {
		t.Errorf("dir = %q, want /docs/paper", gotDir)
	}
	if len(gotArgs) == 0 || !strings.HasSuffix(gotArgs[len(gotArgs)-1], "main.tex") {
		t.Errorf("last arg = %v, want the tex path", gotArgs)
	}
}

func TestRunner_Convert_Canceled(t *testing.T) {
	t.Parallel()

	stub := writeStub(t, "sleep 30\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithBinary(stub)).Convert(ctx, writeTex(t), t.TempDir())
	if !errors.Is(err, ErrExternalTool) {
		t.Errorf("Convert() with canceled context error = %v, want ErrExternalTool", err)
	}
}

type runnerFunc func(ctx context.Context, dir, name string, args []string, stdout, stderr LineFunc) error

func (f runnerFunc) Run(ctx context.Context, dir, name string, args []string, stdout, stderr LineFunc) error {
	return f(ctx, dir, name, args, stdout, stderr)
}
