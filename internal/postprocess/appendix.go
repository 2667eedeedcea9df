package postprocess

import (
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// appendixStage moves top-level appendix sections into the appendix
// container, grouped under div.appendix-sections.
func appendixStage() Stage {
	return NewStage("appendix", caps(CapHeadings), caps(CapAppendix), func(doc *document.Document, st *State) error {
		var sections []*html.Node
		for _, s := range doc.QueryAll("section.ltx_appendix") {
			if document.Closest(s.Parent, func(n *html.Node) bool { return document.HasClass(n, "ltx_appendix") }) == nil {
				sections = append(sections, s)
			}
		}
		if len(sections) == 0 {
			return nil
		}

		group := document.Element("div", "class", "appendix-sections")
		for _, s := range sections {
			document.Append(group, s)
			if id := dom.GetAttribute(s, "id"); id != "" {
				st.AppendixSections = append(st.AppendixSections, id)
			}
		}
		ensureAppendix(doc, st).AppendChild(group)
		return nil
	})
}
