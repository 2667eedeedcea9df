package postprocess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-shiori/dom"

	"github.com/alnah/go-tex2html/internal/document"
)

// footnoteMarkerClass marks the span left where a footnote was.
const footnoteMarkerClass = "footnote"

// footnotesStage lifts footnote content out of the text into State and
// leaves a numbered marker in its place. Footnotes are renumbered in
// document order.
func footnotesStage() Stage {
	return NewStage("footnotes", caps(CapAppendix), caps(CapFootnotes), func(doc *document.Document, st *State) error {
		article := doc.Article()
		for _, note := range doc.QueryAll(".ltx_note.ltx_role_footnote") {
			if !within(note, article) {
				continue
			}
			number := strconv.Itoa(len(st.Footnotes) + 1)

			content := dom.QuerySelector(note, ".ltx_note_content")
			if content == nil {
				return missing(fmt.Sprintf("content of footnote %s", number))
			}
			document.RemoveAll(dom.QuerySelectorAll(content, ".ltx_note_mark, .ltx_tag_note"))

			st.Footnotes = append(st.Footnotes, Footnote{
				Number: number,
				HTML:   strings.TrimSpace(dom.InnerHTML(content)),
			})
			document.Replace(note, document.Element("span", "class", footnoteMarkerClass, "data-footnote", number))
		}
		return nil
	})
}
