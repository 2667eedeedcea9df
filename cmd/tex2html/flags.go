package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every command-line flag.
type cliFlags struct {
	config          string
	noPostprocess   bool
	postprocessOnly bool
	version         bool
	help            bool

	latexmlBin string
	preloads   []string

	style           string
	assetPath       string
	codeTheme       string
	containerClass  string
	tableOfContents bool

	mathRenderer string
	mathWorkers  int
	mathjaxURL   string

	s3Region   string
	s3Endpoint string

	logLevel  string
	logFormat string

	fs *flag.FlagSet
}

// changed reports whether the named flag was set on the command line.
func (f *cliFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// newFlagSet declares the flags on a fresh FlagSet bound to f.
func newFlagSet(f *cliFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("tex2html", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.noPostprocess, "no-postprocess", false, "keep the raw latexmlc output")
	fs.BoolVar(&f.postprocessOnly, "postprocess-only", false, "postprocess an existing index.html in place")

	fs.StringVar(&f.latexmlBin, "latexml-bin", "", "latexmlc executable")
	fs.StringSliceVar(&f.preloads, "preload", nil, "LaTeXML binding to preload (repeatable)")

	fs.StringVar(&f.style, "style", "", "stylesheet name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/{name}.css overrides")
	fs.StringVar(&f.codeTheme, "code-theme", "", "chroma style for listings")
	fs.StringVar(&f.containerClass, "container-class", "", "class of the article container")
	fs.BoolVar(&f.tableOfContents, "toc", false, "insert a table of contents")

	fs.StringVar(&f.mathRenderer, "math-renderer", "", "math backend: mathml or mathjax")
	fs.IntVar(&f.mathWorkers, "math-workers", 0, "concurrent math fragments (0 = auto)")
	fs.StringVar(&f.mathjaxURL, "mathjax-url", "", "MathJax tex-svg script URL")

	fs.StringVar(&f.s3Region, "s3-region", "", "AWS region for s3:// locations")
	fs.StringVar(&f.s3Endpoint, "s3-endpoint", "", "custom S3 endpoint (MinIO, localstack)")

	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "", "console or json")

	fs.BoolVar(&f.version, "version", false, "print the version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")

	f.fs = fs
	return fs
}

// parseFlags parses args (without the program name) and returns the flags
// and positional arguments.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f, stderr)
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
