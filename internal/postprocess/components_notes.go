package postprocess

import (
	"fmt"
	"strings"

	"github.com/go-shiori/dom"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// hoverPolicy cleans content duplicated into hover boxes. Ids are dropped so
// the copies do not clash with the originals.
var hoverPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("data-display").OnElements("span")
	return p
}()

// footnoteComponent turns footnote markers into links and renders the
// footnote list into the appendix.
func footnoteComponent() Stage {
	return NewStage("components.footnote", caps(CapFootnotes, CapAppendix), caps(CapFootnoteList), func(doc *document.Document, st *State) error {
		if len(st.Footnotes) == 0 {
			return nil
		}

		markers := make(map[string]*html.Node)
		for _, m := range doc.QueryAll("span." + footnoteMarkerClass) {
			markers[dom.GetAttribute(m, "data-footnote")] = m
		}

		list := document.Element("ol")
		for _, fn := range st.Footnotes {
			marker, ok := markers[fn.Number]
			if !ok {
				return missing(fmt.Sprintf("marker for footnote %s", fn.Number))
			}

			link := document.Element("a", "href", "#"+fn.ID(), "id", fn.RefID(), "class", "footnote-ref")
			link.AppendChild(document.Text(fn.Number))
			sup := document.Element("sup")
			sup.AppendChild(link)
			marker.AppendChild(sup)

			item := document.Element("li", "id", fn.ID())
			nodes, err := document.ParseFragment(item, fn.HTML)
			if err != nil {
				return fmt.Errorf("footnote %s: %w", fn.Number, err)
			}
			for _, n := range nodes {
				item.AppendChild(n)
			}
			back := document.Element("a", "href", "#"+fn.RefID(), "class", "footnote-backref")
			back.AppendChild(document.Text("↩"))
			item.AppendChild(document.Text(" "))
			item.AppendChild(back)
			list.AppendChild(item)
		}

		section := document.Element("section", "class", "footnotes")
		title := document.Element("h3")
		document.SetText(title, "Footnotes")
		section.AppendChild(title)
		section.AppendChild(list)
		ensureAppendix(doc, st).AppendChild(section)
		return nil
	})
}

// hoverBoxComponent attaches a hidden preview box to every citation and
// footnote marker. Boxes are collected in one container at the end of the
// article and referenced through data-hover-box.
func hoverBoxComponent() Stage {
	return NewStage("components.hoverbox", caps(CapBibliography, CapFootnoteList), caps(CapHoverBoxes), func(doc *document.Document, st *State) error {
		var boxes []*html.Node
		made := make(map[string]bool)

		attach := func(anchor *html.Node, boxID, content string) error {
			dom.SetAttribute(anchor, "data-hover-box", boxID)
			if made[boxID] {
				return nil
			}
			made[boxID] = true

			box := document.Element("div", "class", "hover-box", "id", boxID, "hidden", "")
			nodes, err := document.ParseFragment(box, hoverPolicy.Sanitize(content))
			if err != nil {
				return fmt.Errorf("hover box %s: %w", boxID, err)
			}
			for _, n := range nodes {
				box.AppendChild(n)
			}
			boxes = append(boxes, box)
			return nil
		}

		refs := make(map[string]Reference, len(st.References))
		for _, r := range st.References {
			refs[r.ID] = r
		}
		for _, a := range doc.QueryAll("a." + citationClass) {
			ref, ok := refs[dom.GetAttribute(a, "data-reference")]
			if !ok {
				continue
			}
			if err := attach(a, "hover-"+anchorSafe(ref.ID), ref.HTML); err != nil {
				return err
			}
		}

		notes := make(map[string]Footnote, len(st.Footnotes))
		for _, fn := range st.Footnotes {
			notes[fn.RefID()] = fn
		}
		for _, a := range doc.QueryAll("a.footnote-ref") {
			fn, ok := notes[dom.GetAttribute(a, "id")]
			if !ok {
				continue
			}
			if err := attach(a, "hover-"+fn.ID(), fn.HTML); err != nil {
				return err
			}
		}

		if len(boxes) == 0 {
			return nil
		}
		container := document.Element("div", "class", "hover-boxes")
		for _, b := range boxes {
			container.AppendChild(b)
		}
		doc.Article().AppendChild(container)
		return nil
	})
}

// anchorSafe maps an id to characters that are safe in ids and selectors.
func anchorSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, id)
}
