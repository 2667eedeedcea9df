package postprocess

import (
	"path"
	"strings"

	"github.com/go-shiori/dom"

	"github.com/alnah/go-tex2html/internal/document"
)

// latexmlStylesheets are the stylesheets LaTeXML links to. The files are
// deleted after conversion, so the links would dangle.
var latexmlStylesheets = map[string]bool{
	"LaTeXML.css":      true,
	"ltx-article.css":  true,
	"ltx-listings.css": true,
	"ltx-report.css":   true,
	"ltx-book.css":     true,
}

// pageChrome lists LaTeXML navigation and footer elements.
const pageChrome = ".ltx_page_footer, .ltx_page_header, .ltx_page_navbar, .ltx_page_logo"

// layoutStage strips LaTeXML's page wrappers so the article root sits
// directly in <body>.
func layoutStage() Stage {
	return NewStage("layout", nil, caps(CapLayout), func(doc *document.Document, st *State) error {
		head, body := doc.Head(), doc.Body()
		if head == nil {
			return missing("head")
		}
		if body == nil {
			return missing("body")
		}

		document.RemoveAll(doc.QueryAll(pageChrome))

		for _, wrapper := range doc.QueryAll(".ltx_page_main, .ltx_page_content") {
			document.Unwrap(wrapper)
		}

		for _, link := range dom.QuerySelectorAll(head, "link") {
			if !strings.EqualFold(dom.GetAttribute(link, "rel"), "stylesheet") {
				continue
			}
			if latexmlStylesheets[path.Base(dom.GetAttribute(link, "href"))] {
				document.Detach(link)
			}
		}
		return nil
	})
}
