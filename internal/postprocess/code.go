package postprocess

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
)

const listingLanguagePrefix = "ltx_lst_language_"

// codeStage replaces LaTeXML listings with chroma-highlighted blocks and
// wraps verbatim blocks in <code>.
func codeStage(opts Options) Stage {
	style := styles.Get(opts.CodeTheme)
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	return NewStage("code", caps(CapStyles), caps(CapCode), func(doc *document.Document, st *State) error {
		document.RemoveAll(doc.QueryAll(".ltx_listing_data"))

		for _, listing := range doc.QueryAll(".ltx_listing") {
			lang := listingLanguage(listing)
			code := listingSource(listing)

			markup, err := highlight(formatter, style, lang, code)
			if err != nil {
				return fmt.Errorf("highlighting listing %d: %w", st.CodeBlocks+1, err)
			}

			block := document.Element("div", "class", "code-block")
			if lang != "" {
				dom.SetAttribute(block, "data-language", lang)
			}
			if id := dom.GetAttribute(listing, "id"); id != "" {
				dom.SetAttribute(block, "id", id)
			}
			nodes, err := document.ParseFragment(block, markup)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				block.AppendChild(n)
			}
			document.Replace(listing, block)
			st.CodeBlocks++
		}

		for _, pre := range doc.QueryAll("pre.ltx_verbatim") {
			if dom.QuerySelector(pre, "code") != nil {
				continue
			}
			code := document.Element("code")
			document.MoveChildren(code, pre)
			pre.AppendChild(code)
		}
		return nil
	})
}

// listingLanguage reads the language from the ltx_lst_language_X class.
func listingLanguage(n *html.Node) string {
	for _, c := range document.Classes(n) {
		if lang, ok := strings.CutPrefix(c, listingLanguagePrefix); ok {
			return strings.ToLower(lang)
		}
	}
	return ""
}

// listingSource rebuilds the source text from listing lines, dropping line
// numbers. LaTeXML encodes spaces as non-breaking spaces.
func listingSource(listing *html.Node) string {
	lines := dom.QuerySelectorAll(listing, ".ltx_listingline")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		document.RemoveAll(dom.QuerySelectorAll(line, ".ltx_tag_listingline"))
		text := strings.ReplaceAll(dom.TextContent(line), "\u00a0", " ")
		out = append(out, strings.TrimRight(text, " "))
	}
	return strings.Join(out, "\n")
}

func highlight(formatter *chromahtml.Formatter, style *chroma.Style, lang, code string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return "", err
	}
	return b.String(), nil
}
