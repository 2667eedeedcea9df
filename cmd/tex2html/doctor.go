package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alnah/go-tex2html/internal/config"
	"github.com/alnah/go-tex2html/internal/hints"
	"github.com/alnah/go-tex2html/internal/latexml"
)

// Doctor statuses.
const (
	doctorReady    = "ready"
	doctorWarnings = "warnings"
	doctorErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	LaTeXML  toolInfo   `json:"latexml"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds latexmlc detection results.
type toolInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results. Chrome is only
// needed by the mathjax renderer.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	MathRenderer  string `json:"math_renderer"`
	ConfigDir     string `json:"config_dir,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == doctorErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment) *doctorResult {
	renderer := env.Getenv(config.EnvMathRenderer)
	if renderer == "" {
		renderer = config.RendererMathML
	}
	result := &doctorResult{
		Status: doctorReady,
		Env: envInfo{
			OS:           runtime.GOOS,
			Arch:         runtime.GOARCH,
			MathRenderer: renderer,
		},
	}

	checkLaTeXML(result, env)
	checkChrome(result, env)
	checkEnvironment(result, env)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = doctorErrors
	} else if len(result.Warnings) > 0 {
		result.Status = doctorWarnings
	}
	return result
}

// checkLaTeXML locates the converter executable.
func checkLaTeXML(result *doctorResult, env *Environment) {
	bin := env.Getenv(config.EnvLaTeXMLBin)
	if bin == "" {
		bin = latexml.DefaultBinary
	}

	path, err := env.LookPath(bin)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found. Install LaTeXML or set %s", bin, config.EnvLaTeXMLBin))
		return
	}
	result.LaTeXML = toolInfo{Found: true, Path: path}
}

// checkChrome locates a browser. Missing Chrome is an error only when the
// mathjax renderer is selected.
func checkChrome(result *doctorResult, env *Environment) {
	path := env.Getenv("ROD_BROWSER_BIN")
	if path == "" {
		var found bool
		path, found = env.BrowserPath()
		if !found {
			msg := "Chrome/Chromium not found; the mathjax renderer is unavailable"
			if result.Env.MathRenderer == config.RendererMathJax {
				result.Errors = append(result.Errors, msg)
			} else {
				result.Warnings = append(result.Warnings, msg)
			}
			return
		}
	}

	result.Chrome = chromeInfo{
		Found:   true,
		Path:    path,
		Sandbox: env.Getenv("ROD_NO_SANDBOX") != "1",
	}
}

// checkEnvironment detects container and CI environments and the user
// config directory.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && result.Chrome.Sandbox && (result.Env.Container || result.Env.CI) {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}

	if dir, err := config.UserConfigDir(); err == nil {
		result.Env.ConfigDir = dir
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("TEX2HTML_CONTAINER") == "1" {
		return true, "TEX2HTML_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for S3 staging is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "tex2html-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "tex2html doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LaTeXML")
	if r.LaTeXML.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.LaTeXML.Path)
	} else {
		fmt.Fprintln(w, "  [ERROR] latexmlc not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (mathjax renderer)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  OS: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  Math renderer: %s\n", r.Env.MathRenderer)
	if r.Env.Container {
		fmt.Fprintf(w, "  Container: yes (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  CI: yes")
	}
	if r.Env.ConfigDir != "" {
		fmt.Fprintf(w, "  Config directory: %s\n", r.Env.ConfigDir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory not writable")
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "\nWarning: %s", warning)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "\nError: %s", e)
	}
	fmt.Fprintf(w, "\n\nStatus: %s\n", r.Status)
}
