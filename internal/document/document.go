package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// ArticleSelector matches the article root produced by LaTeXML.
const ArticleSelector = ".ltx_document"

// ErrMalformedDocument indicates the converter output has no usable article root.
var ErrMalformedDocument = errors.New("malformed document")

// Document is a parsed HTML tree with a resolved article root.
type Document struct {
	root    *html.Node
	article *html.Node
}

// Parse reads HTML from r and resolves the article root.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	articles := dom.QuerySelectorAll(root, ArticleSelector)
	switch {
	case len(articles) == 0:
		return nil, fmt.Errorf("%w: could not find %s", ErrMalformedDocument, ArticleSelector)
	case len(articles) > 1:
		return nil, fmt.Errorf("%w: found %d %s elements", ErrMalformedDocument, len(articles), ArticleSelector)
	}

	article := articles[0]
	if len(dom.Children(article)) == 0 {
		return nil, fmt.Errorf("%w: document is blank", ErrMalformedDocument)
	}

	return &Document{root: root, article: article}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Load reads and parses the HTML file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the converter's own output
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Article returns the article root.
func (d *Document) Article() *html.Node { return d.article }

// Head returns the <head> element, or nil.
func (d *Document) Head() *html.Node {
	return dom.QuerySelector(d.root, "head")
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node {
	return dom.QuerySelector(d.root, "body")
}

// Query returns the first element matching a CSS selector.
func (d *Document) Query(selector string) *html.Node {
	return dom.QuerySelector(d.root, selector)
}

// QueryAll returns every element matching a CSS selector, in document order.
func (d *Document) QueryAll(selector string) []*html.Node {
	return dom.QuerySelectorAll(d.root, selector)
}

// Attached reports whether the article root is still part of the tree.
func (d *Document) Attached() bool {
	for n := d.article; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// Render serializes the tree to w.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}
	return nil
}

// String serializes the tree to a string.
func (d *Document) String() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
