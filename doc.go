// Package tex2html converts LaTeX documents into styled, self-contained
// HTML articles.
//
// # Quick Start
//
// Create a converter, render a job, and close when done:
//
//	conv, err := tex2html.NewConverter(tex2html.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer conv.Close()
//
//	path, err := conv.Render(ctx, tex2html.Job{
//	    Input:  "paper/",
//	    Output: "site/paper",
//	})
//
// Render returns the path of the final index.html. When Output is an
// s3:// location the whole output directory is uploaded and the returned
// path is the remote object URI.
//
// # Conversion Pipeline
//
// A render job moves through these states:
//
//  1. Pending: nothing done yet
//  2. InputStaged: the .tex file and output directory are ready
//  3. RenderedByExternalTool: latexmlc wrote index.html, auxiliary files removed
//  4. Postprocessed: the article pipeline and math typesetting ran
//  5. Uploaded: the output directory was copied to S3 (remote outputs only)
//  6. Done, or Failed at the first error
//
// Postprocessing runs a fixed sequence of DOM stages over the LaTeXML
// output (layout, styles, metadata, code, figures, math, headings,
// appendix, footnotes, bibliography, tables, lists, links, container),
// serializes the tree, then replaces every math placeholder with rendered
// MathML or SVG. Fragments render concurrently; their output is placed in
// document order.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := tex2html.New(
//	    tex2html.WithMathRenderer(mathrender.NewMathJaxRenderer("", 0)),
//	    tex2html.WithMathWorkers(4),
//	    tex2html.WithPostprocessOptions(postprocess.Options{TableOfContents: true}),
//	)
//
// Postprocessing can be applied to an existing LaTeXML document with
// ProcessHTML, or to a string with Postprocess.
//
// # Errors
//
// Every failure aborts the job. Errors wrap the sentinels in errors.go and
// can be tested with errors.Is:
//
//	if errors.Is(err, tex2html.ErrExternalTool) {
//	    var te *tex2html.ToolError
//	    if errors.As(err, &te) {
//	        log.Printf("latexmlc exited with %d", te.ExitCode)
//	    }
//	}
package tex2html
