package postprocess

import (
	"strconv"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// sectionTitles matches the titles of sectioning elements. Abstract,
// bibliography and theorem titles are left alone.
const sectionTitles = ".ltx_title_section, .ltx_title_subsection, .ltx_title_subsubsection, .ltx_title_paragraph, .ltx_title_appendix"

// headingsStage replaces LaTeXML section tags with heading numbers, adds
// anchor links, records the outline and optionally inserts a table of
// contents.
func headingsStage(opts Options) Stage {
	return NewStage("headings", caps(CapMath), caps(CapHeadings), func(doc *document.Document, st *State) error {
		for _, h := range doc.QueryAll(sectionTitles) {
			level := headingLevel(h)
			if level == 0 {
				continue
			}
			section := h.Parent
			id := dom.GetAttribute(section, "id")
			if id == "" {
				id = dom.GetAttribute(h, "id")
			}

			var number string
			if tag := dom.QuerySelector(h, ".ltx_tag"); tag != nil {
				number = tagNumber(document.TextOf(tag))
				num := document.Element("span", "class", "heading-number")
				document.SetText(num, number)
				document.Replace(tag, num)
				document.InsertAfter(num, document.Text(" "))
			}

			inAppendix := document.Closest(section, func(n *html.Node) bool {
				return document.HasClass(n, "ltx_appendix")
			}) != nil

			heading := Heading{
				ID:       id,
				Level:    level,
				Number:   number,
				Text:     titleText(h),
				Appendix: inAppendix,
			}
			st.Headings = append(st.Headings, heading)

			kind := "Section"
			if document.HasClass(h, "ltx_title_appendix") {
				kind = "Appendix"
			}
			st.setLabel(id, Label{Kind: kind, Number: number})

			if id != "" {
				anchor := document.Element("a", "class", "heading-anchor", "href", "#"+id, "aria-hidden", "true")
				anchor.AppendChild(document.Text("#"))
				h.AppendChild(anchor)
			}
		}

		if opts.TableOfContents && len(st.Headings) > 0 {
			insertTOC(doc, st.Headings)
		}
		return nil
	})
}

func headingLevel(h *html.Node) int {
	if h.Type != html.ElementNode || len(h.Data) != 2 || h.Data[0] != 'h' {
		return 0
	}
	level := int(h.Data[1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

// titleText is the heading text without its number.
func titleText(h *html.Node) string {
	var b strings.Builder
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case document.HasClass(c, "heading-number"):
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		default:
			b.WriteString(dom.TextContent(c))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// insertTOC places a navigation list after the abstract, or at the top of
// the article when there is none.
func insertTOC(doc *document.Document, headings []Heading) {
	nav := document.Element("nav", "class", "toc")
	list := document.Element("ol")
	for _, h := range headings {
		if h.ID == "" {
			continue
		}
		item := document.Element("li", "class", "toc-level-"+strconv.Itoa(h.Level))
		link := document.Element("a", "href", "#"+h.ID)
		text := h.Text
		if h.Number != "" {
			text = h.Number + " " + text
		}
		document.SetText(link, text)
		item.AppendChild(link)
		list.AppendChild(item)
	}
	if list.FirstChild == nil {
		return
	}
	nav.AppendChild(list)

	if abstract := doc.Query(".ltx_abstract"); abstract != nil {
		document.InsertAfter(abstract, nav)
		return
	}
	if title := doc.Query(".ltx_title_document"); title != nil && title.Parent == doc.Article() {
		document.InsertAfter(title, nav)
		return
	}
	document.Prepend(doc.Article(), nav)
}
