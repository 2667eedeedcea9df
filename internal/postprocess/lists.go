package postprocess

import (
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// listsStage drops the item labels LaTeXML renders by hand so that native
// list markers show, and unwraps paragraphs that are alone in an item.
func listsStage() Stage {
	return NewStage("lists", caps(CapTables), caps(CapLists), func(doc *document.Document, st *State) error {
		for _, item := range doc.QueryAll("ul.ltx_itemize > li, ol.ltx_enumerate > li") {
			for c := item.FirstChild; c != nil; {
				next := c.NextSibling
				if document.HasClass(c, "ltx_tag_item") {
					document.Detach(c)
				}
				c = next
			}
			dropListStyleNone(item)

			if para := onlyElementChild(item); para != nil && document.HasClass(para, "ltx_para") {
				document.Unwrap(para)
			}
		}
		return nil
	})
}

func dropListStyleNone(n *html.Node) {
	style := dom.GetAttribute(n, "style")
	if style == "" {
		return
	}
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		compact := strings.ReplaceAll(strings.TrimSpace(decl), " ", "")
		if compact == "" || compact == "list-style-type:none" {
			continue
		}
		kept = append(kept, strings.TrimSpace(decl))
	}
	if len(kept) == 0 {
		dom.RemoveAttribute(n, "style")
		return
	}
	dom.SetAttribute(n, "style", strings.Join(kept, ";"))
}

// onlyElementChild returns the single element child of n when its other
// children are whitespace text.
func onlyElementChild(n *html.Node) *html.Node {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if only != nil {
				return nil
			}
			only = c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return only
}
