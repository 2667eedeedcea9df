package postprocess

import (
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// figuresStage numbers figure captions, moves each caption after the figure
// content and records figure labels.
func figuresStage() Stage {
	return NewStage("figures", caps(CapMetadata), caps(CapFigures), func(doc *document.Document, st *State) error {
		for _, fig := range doc.QueryAll("figure.ltx_figure") {
			caption := directChild(fig, "figcaption")

			content := document.Element("div", "class", "figure-content")
			var children []*html.Node
			for c := fig.FirstChild; c != nil; c = c.NextSibling {
				if c != caption {
					children = append(children, c)
				}
			}
			for _, c := range children {
				document.Append(content, c)
			}
			fig.AppendChild(content)

			if caption == nil {
				continue
			}
			number := numberCaption(caption, ".ltx_tag_figure", "Figure")
			document.Append(fig, caption)
			st.setLabel(dom.GetAttribute(fig, "id"), Label{Kind: "Figure", Number: number})
		}
		return nil
	})
}

// numberCaption replaces the LaTeXML tag inside caption with a
// caption-number span reading "<kind> <number>" and returns the number.
func numberCaption(caption *html.Node, tagSelector, kind string) string {
	tag := dom.QuerySelector(caption, tagSelector)
	if tag == nil {
		return ""
	}
	number := tagNumber(document.TextOf(tag))
	label := document.Element("span", "class", "caption-number")
	document.SetText(label, Label{Kind: kind, Number: number}.String())
	document.Replace(tag, label)
	document.InsertAfter(label, document.Text(" "))
	return number
}

// tagNumber extracts the number from a LaTeXML tag such as "Figure 2: ",
// "(3)", "[12]" or "Appendix B".
func tagNumber(tag string) string {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], ":.()[]")
}

func directChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}
