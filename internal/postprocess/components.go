package postprocess

import (
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-tex2html/internal/document"
)

// Component stages reproduce the article-template components: head
// boilerplate, footnote list, appendix layout, typography and hover boxes.
// They are interleaved with the local stages in DefaultStages.

const viewport = "width=device-width, initial-scale=1"

// htmlComponent normalizes <html> and <head> boilerplate.
func htmlComponent() Stage {
	return NewStage("components.html", caps(CapLayout), caps(CapHead), func(doc *document.Document, st *State) error {
		head := doc.Head()
		if head == nil {
			return missing("head")
		}

		if root := dom.QuerySelector(doc.Root(), "html"); root != nil && dom.GetAttribute(root, "lang") == "" {
			dom.SetAttribute(root, "lang", "en")
		}

		for _, meta := range dom.QuerySelectorAll(head, "meta") {
			if dom.HasAttribute(meta, "charset") || strings.EqualFold(dom.GetAttribute(meta, "http-equiv"), "content-type") {
				document.Detach(meta)
			}
		}
		document.Prepend(head, document.Element("meta", "charset", "utf-8"))

		if dom.QuerySelector(head, `meta[name="viewport"]`) == nil {
			document.InsertAfter(head.FirstChild, document.Element("meta", "name", "viewport", "content", viewport))
		}
		return nil
	})
}

// appendixClass marks the appendix container.
const appendixClass = "appendix"

// ensureAppendix returns the appendix container, creating it at the end of
// the article on first use.
func ensureAppendix(doc *document.Document, st *State) *html.Node {
	if st.Appendix != nil && st.Appendix.Parent != nil {
		return st.Appendix
	}
	appendix := document.Element("section", "class", appendixClass)
	doc.Article().AppendChild(appendix)
	st.Appendix = appendix
	return appendix
}

// appendixGroups is the order of appendix children after components.appendix.
var appendixGroups = []string{"appendix-sections", "footnotes", "references"}

// appendixComponent orders the appendix content and keeps it last in the article.
func appendixComponent() Stage {
	return NewStage("components.appendix", caps(CapBibliography), caps(CapAppendixLayout), func(doc *document.Document, st *State) error {
		appendix := st.Appendix
		if appendix == nil {
			return nil
		}
		if appendix.Parent == nil {
			return missing("appendix container")
		}

		groups := make(map[string][]*html.Node)
		var rest []*html.Node
		var children []*html.Node
		for c := appendix.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		for _, c := range children {
			placed := false
			for _, g := range appendixGroups {
				if document.HasClass(c, g) {
					groups[g] = append(groups[g], c)
					placed = true
					break
				}
			}
			if !placed {
				rest = append(rest, c)
			}
		}
		for _, g := range appendixGroups {
			for _, n := range groups[g] {
				document.Append(appendix, n)
			}
		}
		for _, n := range rest {
			document.Append(appendix, n)
		}

		document.Append(doc.Article(), appendix)
		return nil
	})
}

// typographySkip lists elements whose text must be left untouched.
var typographySkip = map[atom.Atom]bool{
	atom.Code:   true,
	atom.Pre:    true,
	atom.Script: true,
	atom.Style:  true,
	atom.Kbd:    true,
	atom.Samp:   true,
	atom.Math:   true,
	atom.Svg:    true,
}

// typesetComponent applies typographic punctuation to article text.
func typesetComponent() Stage {
	return NewStage("components.typeset", caps(CapAppendixLayout, CapMath, CapCode), caps(CapTypography), func(doc *document.Document, st *State) error {
		walkText(doc.Article(), func(n *html.Node) {
			n.Data = typeset(n.Data)
		})
		return nil
	})
}

// walkText calls fn for every text node below n that is not inside code,
// math placeholders or other literal content.
func walkText(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			fn(c)
		case html.ElementNode:
			if typographySkip[c.DataAtom] || document.HasClass(c, mathPlaceholderClass) || document.HasClass(c, "ltx_verbatim") {
				continue
			}
			walkText(c, fn)
		}
	}
}

var dashes = strings.NewReplacer(
	"---", "—",
	"--", "–",
	"``", "“",
	"''", "”",
)

// typeset replaces ASCII dashes and quotes with typographic ones.
func typeset(s string) string {
	s = dashes.Replace(s)
	if !strings.ContainsAny(s, `"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	prev := ' '
	for _, r := range s {
		switch r {
		case '"':
			if opensQuote(prev) {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		case '\'':
			if opensQuote(prev) {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func opensQuote(prev rune) bool {
	switch prev {
	case ' ', '\t', '\n', '\u00a0', '(', '[', '{', '—', '–':
		return true
	}
	return false
}
