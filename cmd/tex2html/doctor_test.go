package main

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"
)

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		vars       map[string]string
		latexml    bool
		chrome     bool
		wantStatus string
		wantCode   int
	}{
		{
			name:       "all found",
			vars:       map[string]string{"ROD_NO_SANDBOX": "1"},
			latexml:    true,
			chrome:     true,
			wantStatus: doctorReady,
		},
		{name: "no chrome with mathml", latexml: true, wantStatus: doctorWarnings},
		{
			name:       "no chrome with mathjax",
			vars:       map[string]string{"TEX2HTML_MATH_RENDERER": "mathjax"},
			latexml:    true,
			wantStatus: doctorErrors,
			wantCode:   ExitGeneral,
		},
		{name: "no latexml", chrome: true, wantStatus: doctorErrors, wantCode: ExitGeneral},
		{
			name:       "CI with sandbox",
			vars:       map[string]string{"CI": "true", "TEX2HTML_CONTAINER": "1"},
			latexml:    true,
			chrome:     true,
			wantStatus: doctorWarnings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil, tt.vars)
			env.LookPath = func(name string) (string, error) {
				if !tt.latexml {
					return "", exec.ErrNotFound
				}
				return "/usr/bin/" + name, nil
			}
			env.BrowserPath = func() (string, bool) { return "/usr/bin/chromium", tt.chrome }

			code := runDoctorCmd([]string{"--json"}, env.Environment)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}

			var got doctorResult
			if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
				t.Fatalf("decoding output: %v\n%s", err, env.stdout)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q (warnings %v, errors %v)", got.Status, tt.wantStatus, got.Warnings, got.Errors)
			}
			if tt.latexml && got.LaTeXML.Path != "/usr/bin/latexmlc" {
				t.Errorf("latexml path = %q", got.LaTeXML.Path)
			}
		})
	}
}

func TestRunDoctor_Text(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, map[string]string{"TEX2HTML_LATEXML_BIN": "/opt/latexml/latexmlc"})
	env.LookPath = func(name string) (string, error) { return name, nil }
	env.BrowserPath = func() (string, bool) { return "", false }

	if code := runMain(context.Background(), []string{"doctor"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	out := env.stdout.String()
	for _, want := range []string{"tex2html doctor", "[OK] Found at /opt/latexml/latexmlc", "Status: warnings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
