package postprocess

import (
	"strconv"
	"strings"

	"github.com/go-shiori/dom"

	"github.com/alnah/go-tex2html/internal/document"
)

// citationClass marks citation links.
const citationClass = "citation"

// bibliographyStage rebuilds the LaTeXML bibliography as a numbered
// reference list in the appendix and marks citation links.
func bibliographyStage() Stage {
	return NewStage("bibliography", caps(CapFootnoteList), caps(CapBibliography), func(doc *document.Document, st *State) error {
		bib := doc.Query("section.ltx_bibliography")
		if bib == nil {
			return nil
		}

		list := document.Element("ol")
		known := make(map[string]bool)
		for _, item := range dom.QuerySelectorAll(bib, "li.ltx_bibitem") {
			id := dom.GetAttribute(item, "id")
			var number string
			if tag := dom.QuerySelector(item, ".ltx_tag_bibitem"); tag != nil {
				number = tagNumber(document.TextOf(tag))
			}

			var blocks []string
			var text []string
			for _, block := range dom.QuerySelectorAll(item, ".ltx_bibblock") {
				blocks = append(blocks, strings.TrimSpace(dom.InnerHTML(block)))
				text = append(text, document.TextOf(block))
			}
			ref := Reference{
				ID:     id,
				Number: number,
				HTML:   strings.Join(blocks, " "),
				Text:   strings.Join(text, " "),
			}
			st.References = append(st.References, ref)
			st.setLabel(id, Label{Kind: "Reference", Number: number})
			known[id] = id != ""

			entry := document.Element("li", "class", "reference")
			if id != "" {
				dom.SetAttribute(entry, "id", id)
			}
			if _, err := strconv.Atoi(number); err == nil {
				dom.SetAttribute(entry, "value", number)
			}
			for _, block := range dom.QuerySelectorAll(item, ".ltx_bibblock") {
				span := document.Element("span", "class", "reference-block")
				document.MoveChildren(span, block)
				entry.AppendChild(span)
				entry.AppendChild(document.Text(" "))
			}
			list.AppendChild(entry)
		}

		section := document.Element("section", "class", "references")
		if id := dom.GetAttribute(bib, "id"); id != "" {
			dom.SetAttribute(section, "id", id)
		}
		title := document.Element("h3")
		document.SetText(title, "References")
		section.AppendChild(title)
		section.AppendChild(list)
		document.Detach(bib)
		ensureAppendix(doc, st).AppendChild(section)

		for _, a := range doc.QueryAll("cite.ltx_cite a.ltx_ref") {
			id := strings.TrimPrefix(dom.GetAttribute(a, "href"), "#")
			if !known[id] {
				continue
			}
			document.AddClass(a, citationClass)
			dom.SetAttribute(a, "data-reference", id)
			st.Citations++
		}
		return nil
	})
}
