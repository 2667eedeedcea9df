package mathrender

import (
	"html"
	"regexp"
)

// PlaceholderClass marks a span holding TeX source awaiting typesetting.
const PlaceholderClass = "tex2html-math"

// Display is the math layout mode.
type Display string

// Display modes.
const (
	Inline Display = "inline"
	Block  Display = "block"
)

// placeholderRE matches placeholders as serialized by x/net/html. The TeX
// source is escaped text, so it contains no '<'.
var placeholderRE = regexp.MustCompile(`<span class="` + regexp.QuoteMeta(PlaceholderClass) + `" data-display="(inline|block)">([^<]*)</span>`)

// Fragment is one placeholder found in a document.
type Fragment struct {
	// Index is the position of the fragment in document order.
	Index int
	// TeX is the unescaped TeX source.
	TeX     string
	Display Display
	// Start and End are the byte offsets of the placeholder markup.
	Start, End int
}

// Extract returns every placeholder in markup in document order.
func Extract(markup string) []Fragment {
	matches := placeholderRE.FindAllStringSubmatchIndex(markup, -1)
	fragments := make([]Fragment, len(matches))
	for i, m := range matches {
		fragments[i] = Fragment{
			Index:   i,
			Display: Display(markup[m[2]:m[3]]),
			TeX:     html.UnescapeString(markup[m[4]:m[5]]),
			Start:   m[0],
			End:     m[1],
		}
	}
	return fragments
}
