package postprocess

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// typesetStage keeps references attached to the preceding word
// ("Figure 3", "see [4]") by turning the space before them into a
// non-breaking space. Runs after components.typeset so the punctuation pass
// sees plain spaces.
func typesetStage() Stage {
	return NewStage("typeset", caps(CapTypography, CapBibliography), caps(CapNonBreaking), func(doc *document.Document, st *State) error {
		for _, ref := range doc.QueryAll("cite.ltx_cite, a.ltx_ref, span.ltx_ref") {
			if document.Closest(ref.Parent, func(n *html.Node) bool { return n.Data == "cite" }) != nil {
				continue
			}
			prev := ref.PrevSibling
			if prev == nil || prev.Type != html.TextNode {
				continue
			}
			trimmed := strings.TrimRight(prev.Data, " ")
			if trimmed == prev.Data || trimmed == "" {
				continue
			}
			prev.Data = trimmed + "\u00a0"
		}
		return nil
	})
}
