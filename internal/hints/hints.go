// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for MathJax browser start errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or use --math-renderer mathml, which needs no browser")

	return formatHints(hints)
}

// ForLaTeXMLNotFound returns hints when latexmlc cannot be started.
func ForLaTeXMLNotFound() string {
	if os.Getenv("TEX2HTML_LATEXML_BIN") != "" {
		return format("check that TEX2HTML_LATEXML_BIN points to an executable latexmlc")
	}
	return format("install LaTeXML (https://math.nist.gov/~BMiller/LaTeXML/) or set --latexml-bin / TEX2HTML_LATEXML_BIN")
}

// ForToolFailure returns a hint for a non-zero latexmlc exit.
func ForToolFailure() string {
	return format("rerun with --log-level debug to see the full latexmlc output")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-tex2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-tex2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForInputResolution returns hints for input paths that yield no single .tex file.
func ForInputResolution(input string) string {
	if strings.HasPrefix(input, "s3://") {
		return formatHints([]string{
			"check the bucket and prefix exist",
			"the prefix must hold exactly one .tex file at its top level",
		})
	}
	return format("pass a .tex file, or a directory holding exactly one .tex file")
}

// ForS3Credentials returns hints for S3 access errors.
func ForS3Credentials() string {
	var hints []string
	if os.Getenv("AWS_ACCESS_KEY_ID") == "" && os.Getenv("AWS_PROFILE") == "" {
		hints = append(hints, "set AWS_PROFILE or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY")
	}
	if os.Getenv("AWS_REGION") == "" {
		hints = append(hints, "set AWS_REGION or --s3-region")
	}
	return formatHints(hints)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
