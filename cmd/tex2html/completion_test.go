package main

// Notes:
// - Scripts are checked for content markers only; running them in the
//   target shells is out of reach for unit tests.

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_tex2html_completions",
				"complete -F _tex2html_completions tex2html",
				"--math-renderer)",
				`compgen -W "mathml mathjax"`,
				"compgen -f -X '!*.yaml'",
				"--config|-c)",
				"doctor)",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef tex2html",
				"_arguments -s",
				"_describe 'command' commands",
				"'(-c --config)'{-c,--config}",
				"'*--preload[",
				"--asset-path[directory with styles/{name}.css overrides]:directory:_files -/",
				":value:(default plain)",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c tex2html",
				"__fish_tex2html_needs_command",
				"-l log-format -x -a 'console json'",
				"-s c -l config -r -F",
				"-l toc -d 'insert a table of contents'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			got := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("script missing %q", want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, Shell("powershell"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

func TestRunMain_Completion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
	}{
		{name: "usage", args: []string{"completion"}, wantStdout: "Usage: tex2html completion <shell>"},
		{name: "bash", args: []string{"completion", "bash"}, wantStdout: "complete -F"},
		{name: "unknown shell", args: []string{"completion", "tcsh"}, wantCode: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil, nil)
			if code := runMain(context.Background(), tt.args, env.Environment); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", env.stdout, tt.wantStdout)
			}
		})
	}
}

func TestExtractFlags(t *testing.T) {
	t.Parallel()

	byName := make(map[string]flagDef)
	for _, f := range converterFlags() {
		byName[f.Long] = f
	}

	tests := []struct {
		flag     string
		wantType flagType
	}{
		{"no-postprocess", flagBool},
		{"style", flagEnum},
		{"config", flagFile},
		{"asset-path", flagDir},
		{"math-workers", flagString},
	}
	for _, tt := range tests {
		if got := byName[tt.flag].Type; got != tt.wantType {
			t.Errorf("%s type = %d, want %d", tt.flag, got, tt.wantType)
		}
	}
	if !byName["preload"].Repeated {
		t.Error("preload not marked repeatable")
	}
}
