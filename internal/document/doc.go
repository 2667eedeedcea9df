// Package document loads LaTeXML HTML output into a mutable node tree and
// serializes it back.
//
// A Document always carries exactly one article root: the element with the
// ltx_document class that LaTeXML wraps around the real content. Parse
// rejects input without one (or with more than one, or with an empty one)
// as ErrMalformedDocument, so stages can rely on Article never being nil.
//
// Parsing uses golang.org/x/net/html, which performs no I/O beyond the
// supplied reader: stylesheets, scripts and images referenced by the markup
// are never fetched.
//
// The helpers in dom.go (HasClass, Wrap, Unwrap, ...) are shared by the
// postprocessing stages. Queries and attribute access go through
// github.com/go-shiori/dom.
package document
