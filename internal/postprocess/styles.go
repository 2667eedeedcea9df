package postprocess

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// codeStylesheetName is recorded in State.Stylesheets for the chroma CSS.
const codeStylesheetName = "code"

// stylesStage inlines the article stylesheet and the chroma stylesheet for
// highlighted listings as <style> blocks at the end of <head>.
func stylesStage(opts Options) Stage {
	return NewStage("styles", caps(CapHead), caps(CapStyles), func(doc *document.Document, st *State) error {
		head := doc.Head()
		if head == nil {
			return missing("head")
		}

		if opts.Stylesheet != "" {
			head.AppendChild(styleBlock(opts.StylesheetName, opts.Stylesheet))
			st.Stylesheets = append(st.Stylesheets, opts.StylesheetName)
		}

		css, err := codeCSS(opts.CodeTheme)
		if err != nil {
			return err
		}
		head.AppendChild(styleBlock(codeStylesheetName, css))
		st.Stylesheets = append(st.Stylesheets, codeStylesheetName)
		return nil
	})
}

// codeCSS renders the chroma classes for theme. Unknown themes fall back to
// chroma's default style.
func codeCSS(theme string) (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(theme)); err != nil {
		return "", fmt.Errorf("writing code stylesheet: %w", err)
	}
	return b.String(), nil
}

func styleBlock(name, css string) *html.Node {
	style := document.Element("style", "data-stylesheet", name)
	style.AppendChild(document.Text(sanitizeCSS(css)))
	return style
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
