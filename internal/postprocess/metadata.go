package postprocess

import (
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/dom"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

// descriptionLimit caps the length of the meta description in runes.
const descriptionLimit = 300

// plainText strips every tag; used for values that end up in attributes.
var plainText = bluemonday.StrictPolicy()

// metadataStage extracts title, authors, abstract and date into State,
// mirrors them as <head> metadata and replaces LaTeXML's author block with
// a byline.
func metadataStage() Stage {
	return NewStage("metadata", caps(CapHead), caps(CapMetadata), func(doc *document.Document, st *State) error {
		head := doc.Head()
		if head == nil {
			return missing("head")
		}

		if t := doc.Query(".ltx_title_document"); t != nil {
			st.Title = document.TextOf(t)
		}
		st.Authors = extractAuthors(doc)
		if a := doc.Query(".ltx_abstract"); a != nil {
			st.Abstract = abstractText(a)
		}
		if d := doc.Query(".ltx_date"); d != nil {
			st.Date = document.TextOf(d)
		}

		if st.Title != "" {
			setTitle(head, st.Title)
			addMeta(head, "citation_title", st.Title)
		}
		for _, a := range st.Authors {
			addMeta(head, "author", a.Name)
			addMeta(head, "citation_author", a.Name)
		}
		if st.Date != "" {
			addMeta(head, "citation_publication_date", st.Date)
		}
		if st.Abstract != "" {
			addMeta(head, "description", truncate(st.Abstract, descriptionLimit))
		}

		if block := doc.Query(".ltx_authors"); block != nil && len(st.Authors) > 0 {
			document.Replace(block, byline(st.Authors))
		}
		return nil
	})
}

func extractAuthors(doc *document.Document) []Author {
	var authors []Author
	for _, creator := range doc.QueryAll(".ltx_creator.ltx_role_author") {
		var a Author
		if name := dom.QuerySelector(creator, ".ltx_personname"); name != nil {
			lines := splitAtBreaks(name)
			if len(lines) > 0 {
				a.Name = lines[0]
				a.Affiliations = append(a.Affiliations, lines[1:]...)
			}
		}
		for _, aff := range dom.QuerySelectorAll(creator, ".ltx_role_affiliation") {
			if text := document.TextOf(aff); text != "" {
				a.Affiliations = append(a.Affiliations, text)
			}
		}
		if email := dom.QuerySelector(creator, ".ltx_role_email"); email != nil {
			a.Email = strings.TrimPrefix(document.TextOf(email), "mailto:")
		}
		if a.Name != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// splitAtBreaks returns the non-empty text runs of n separated by <br>.
func splitAtBreaks(n *html.Node) []string {
	var lines []string
	var cur strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				cur.WriteString(c.Data)
			case c.Type == html.ElementNode && c.Data == "br":
				flush()
			case c.Type == html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	flush()
	return lines
}

func abstractText(abstract *html.Node) string {
	markup := dom.InnerHTML(abstract)
	if title := dom.QuerySelector(abstract, ".ltx_title_abstract"); title != nil {
		markup = strings.Replace(markup, dom.OuterHTML(title), "", 1)
	}
	return strings.Join(strings.Fields(html.UnescapeString(plainText.Sanitize(markup))), " ")
}

func setTitle(head *html.Node, title string) {
	el := dom.QuerySelector(head, "title")
	if el == nil {
		el = document.Element("title")
		head.AppendChild(el)
	}
	document.SetText(el, title)
}

func addMeta(head *html.Node, name, content string) {
	head.AppendChild(document.Element("meta", "name", name, "content", content))
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	cut := strings.TrimRight(string(r[:limit]), " ")
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func byline(authors []Author) *html.Node {
	block := document.Element("div", "class", "byline")
	for _, a := range authors {
		entry := document.Element("div", "class", "byline-author")

		name := document.Element("span", "class", "byline-name")
		document.SetText(name, a.Name)
		entry.AppendChild(name)

		for _, aff := range a.Affiliations {
			el := document.Element("span", "class", "byline-affiliation")
			document.SetText(el, aff)
			entry.AppendChild(el)
		}
		if a.Email != "" {
			link := document.Element("a", "class", "byline-email", "href", "mailto:"+a.Email)
			document.SetText(link, a.Email)
			entry.AppendChild(link)
		}
		block.AppendChild(entry)
	}
	return block
}
