package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2html [flags] <input> <output>")
	fmt.Fprintln(w, "       tex2html --postprocess-only [flags] <index.html>")
	fmt.Fprintln(w, "       tex2html doctor [--json]")
	fmt.Fprintln(w, "       tex2html completion <bash|zsh|fish>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a LaTeX document to a styled HTML article.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input     .tex file, directory holding one, or s3://bucket/prefix")
	fmt.Fprintln(w, "  output    output directory or s3://bucket/prefix")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --no-postprocess        Keep the raw latexmlc output")
	fmt.Fprintln(w, "      --postprocess-only      Postprocess an existing index.html in place")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "LaTeXML:")
	fmt.Fprintln(w, "      --latexml-bin <path>    latexmlc executable (env TEX2HTML_LATEXML_BIN)")
	fmt.Fprintln(w, "      --preload <file>        Binding to preload, repeatable")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Article:")
	fmt.Fprintln(w, "      --style <name|path>     Stylesheet: default, plain, or a CSS file")
	fmt.Fprintln(w, "      --asset-path <dir>      Directory with styles/{name}.css overrides")
	fmt.Fprintln(w, "      --code-theme <name>     Chroma style for listings (default github)")
	fmt.Fprintln(w, "      --container-class <c>   Class of the article container")
	fmt.Fprintln(w, "      --toc                   Insert a table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "      --math-renderer <name>  mathml (default) or mathjax (env TEX2HTML_MATH_RENDERER)")
	fmt.Fprintln(w, "      --math-workers <n>      Concurrent fragments (0 = auto)")
	fmt.Fprintln(w, "      --mathjax-url <url>     MathJax tex-svg script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "S3:")
	fmt.Fprintln(w, "      --s3-region <region>    AWS region")
	fmt.Fprintln(w, "      --s3-endpoint <url>     Custom endpoint (MinIO, localstack)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-level <level>     debug, info, warn, error (env TEX2HTML_LOG_LEVEL)")
	fmt.Fprintln(w, "      --log-format <format>   console or json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --version               Print the version")
	fmt.Fprintln(w, "  -h, --help                  Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage/config, 3 input/output, 4 latexmlc,")
	fmt.Fprintln(w, "  5 postprocessing, 6 upload")
}
