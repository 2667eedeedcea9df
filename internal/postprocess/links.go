package postprocess

import (
	"strings"

	"github.com/go-shiori/dom"

	"github.com/alnah/go-tex2html/internal/document"
)

// linksStage titles internal cross references with their label and makes
// external links open in a new tab.
func linksStage() Stage {
	return NewStage("links", caps(CapLists), caps(CapLinks), func(doc *document.Document, st *State) error {
		for _, a := range doc.QueryAll("a[href]") {
			href := dom.GetAttribute(a, "href")

			if id, ok := strings.CutPrefix(href, "#"); ok {
				if strings.TrimSpace(dom.GetAttribute(a, "title")) != "" {
					continue
				}
				if label, ok := st.Labels[id]; ok {
					dom.SetAttribute(a, "title", label.String())
				} else if dom.HasAttribute(a, "title") {
					dom.RemoveAttribute(a, "title")
				}
				continue
			}

			lower := strings.ToLower(href)
			if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
				dom.SetAttribute(a, "target", "_blank")
				dom.SetAttribute(a, "rel", "noopener noreferrer")
			}
		}
		return nil
	})
}
